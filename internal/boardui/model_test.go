package boardui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typemaster/internal/account"
	"github.com/verte-zerg/typemaster/internal/leaderboard"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
)

type fakeLoader struct {
	board *leaderboard.Board
	err   error
}

func (f fakeLoader) Leaderboard(context.Context) (*leaderboard.Board, error) {
	return f.board, f.err
}

func (f fakeLoader) Dashboard(_ context.Context, user model.UserRecord) (account.Dashboard, error) {
	if f.err != nil {
		return account.Dashboard{}, f.err
	}
	return account.Dashboard{
		User:       user,
		Progress:   progress.LevelProgress(user.XP),
		Milestones: progress.Status(user),
		Rank:       f.board.RankOf(user.ID),
		Board:      f.board.Top(0),
		Recent: []model.TestResult{
			{WPM: 130, Accuracy: 98, Mode: model.ModeQuote},
			{WPM: 110, Accuracy: 95, Mode: model.ModeTimed, Duration: 60},
		},
	}, nil
}

func loaded(t *testing.T, opts Options) *Model {
	t.Helper()
	m := NewModel(opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(m.Init()())
	return m
}

func TestLeaderboardRows(t *testing.T) {
	m := loaded(t, Options{Loader: fakeLoader{board: leaderboard.New(leaderboard.Seed(), 0)}})
	rows := m.table.Rows()
	if len(rows) != 3 || rows[0][0] != "#1" || rows[0][1] != "SpeedDemon" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if !strings.Contains(m.View(), "SpeedDemon") {
		t.Fatalf("expected board in view")
	}
}

func TestTopLimitsRows(t *testing.T) {
	m := loaded(t, Options{Loader: fakeLoader{board: leaderboard.New(leaderboard.Seed(), 0)}, Top: 2})
	if got := len(m.table.Rows()); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
}

func TestFilterNarrowsRows(t *testing.T) {
	m := loaded(t, Options{Loader: fakeLoader{board: leaderboard.New(leaderboard.Seed(), 0)}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	for _, r := range "warrior" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	rows := m.table.Rows()
	if len(rows) != 1 || rows[0][1] != "KeyboardWarrior" || rows[0][0] != "#3" {
		t.Fatalf("unexpected filtered rows %v", rows)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode || len(m.table.Rows()) != 3 {
		t.Fatalf("esc must clear the filter, got %v", m.table.Rows())
	}
}

func TestDashboardForUser(t *testing.T) {
	board := leaderboard.New(leaderboard.Seed(), 0)
	user := model.UserRecord{ID: "u1", Username: "ada", Level: 3, XP: 300, TotalTests: 7, BestWPM: 130}
	board.Upsert(model.EntryFor(user))
	m := loaded(t, Options{Loader: fakeLoader{board: board}, User: &user})

	if rows := m.table.Rows(); rows[0][1] != "ada (you)" {
		t.Fatalf("expected own entry marked, got %v", rows[0])
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	view := m.View()
	for _, want := range []string{"Best WPM", "#1", "Level 3"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in dashboard:\n%s", want, view)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	view = m.View()
	if !strings.Contains(view, "[x] Novice Typist") || !strings.Contains(view, "[ ] Dedicated Typist") {
		t.Fatalf("unexpected milestones view:\n%s", view)
	}
}

func TestLoadError(t *testing.T) {
	m := loaded(t, Options{Loader: fakeLoader{err: errors.New("redis down")}})
	if !strings.Contains(m.View(), "redis down") {
		t.Fatalf("expected error in footer:\n%s", m.View())
	}
}

func TestGuestMilestones(t *testing.T) {
	out := renderMilestones(progress.Status(model.UserRecord{}), false)
	if !strings.Contains(out, "Log in to track") || strings.Contains(out, "[x]") {
		t.Fatalf("unexpected guest milestones %q", out)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 5); got != "ab..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}
