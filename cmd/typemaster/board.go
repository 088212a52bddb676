package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typemaster/internal/boardui"
	"github.com/verte-zerg/typemaster/internal/leaderboard"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/stats"
)

const (
	defaultHistoryLast   = 50
	defaultCurveWindow   = 5
	defaultRecentResults = 10
)

var (
	historyLast        int
	historyCurveWindow int

	boardPlain bool
	boardFind  string
	boardTop   int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show results of the logged-in user",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N results (0 = all)")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	user, err := env.accounts.Current(cmd.Context())
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("not logged in: history is only kept for registered users")
	}
	report, err := stats.BuildReport(cmd.Context(), env.accounts, user.ID, historyLast, defaultRecentResults)
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), historyCurveWindow, stats.TerminalWidth())
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Browse the leaderboard and your dashboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().BoolVar(&boardPlain, "plain", false, "print a table instead of opening the viewer")
	cmd.Flags().StringVar(&boardFind, "find", "", "fuzzy filter by username")
	cmd.Flags().IntVar(&boardTop, "top", 0, "show only the first N entries (0 = all)")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	if boardTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	user, err := env.accounts.Current(cmd.Context())
	if err != nil {
		logErrf("showing public views only: %v\n", err)
		user = nil
	}

	if boardPlain {
		board, err := env.accounts.Leaderboard(cmd.Context())
		if err != nil {
			return err
		}
		return writeBoard(cmd.OutOrStdout(), selectRows(board, boardFind, boardTop), user)
	}

	m := boardui.NewModel(boardui.Options{
		Ctx:    cmd.Context(),
		Loader: env.accounts,
		User:   user,
		Top:    boardTop,
		Query:  boardFind,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run leaderboard TUI: %w", err)
	}
	return nil
}

func selectRows(board *leaderboard.Board, query string, top int) []leaderboard.Ranked {
	var rows []leaderboard.Ranked
	if strings.TrimSpace(query) != "" {
		rows = board.Find(query)
	} else {
		rows = board.Top(0)
	}
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	return rows
}

func writeBoard(w io.Writer, rows []leaderboard.Ranked, user *model.UserRecord) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No matching entries.")
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := r.Username
		if user != nil && r.UserID == user.ID {
			name += " (you)"
		}
		tableRows = append(tableRows, []string{
			"#" + strconv.Itoa(r.Rank),
			name,
			strconv.Itoa(r.WPM),
			strconv.Itoa(r.Level),
			strconv.Itoa(r.XP),
		})
	}
	lines := stats.FormatTable(
		[]string{"Rank", "Typist", "WPM", "Level", "XP"},
		tableRows,
		map[int]bool{2: true, 3: true, 4: true},
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newMilestonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "milestones",
		Short: "List milestones and which ones you have unlocked",
		Args:  cobra.NoArgs,
		RunE:  runMilestonesCmd,
	}
}

func runMilestonesCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	user, err := env.accounts.Current(cmd.Context())
	if err != nil {
		return err
	}
	return writeMilestones(cmd.OutOrStdout(), user)
}

func writeMilestones(w io.Writer, user *model.UserRecord) error {
	var status []progress.MilestoneStatus
	if user != nil {
		status = progress.Status(*user)
	} else {
		status = progress.Status(model.UserRecord{})
	}
	for _, s := range status {
		mark := "[ ]"
		if s.Unlocked {
			mark = "[x]"
		}
		if _, err := fmt.Fprintf(w, "%s %-18s %s\n", mark, s.Name, s.Description); err != nil {
			return err
		}
	}
	if user == nil {
		if _, err := fmt.Fprintln(w, "\nLog in to track your progress."); err != nil {
			return err
		}
	}
	return nil
}
