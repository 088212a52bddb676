// Package boardui provides the Bubble Tea leaderboard and profile viewer.
package boardui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/account"
	"github.com/verte-zerg/typemaster/internal/leaderboard"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/stats"
)

const (
	tabLeaderboard = iota
	tabDashboard
	tabMilestones
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	unlockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Loader supplies the data shown by the viewer.
type Loader interface {
	Leaderboard(ctx context.Context) (*leaderboard.Board, error)
	Dashboard(ctx context.Context, user model.UserRecord) (account.Dashboard, error)
}

type loadedMsg struct {
	board     *leaderboard.Board
	dashboard *account.Dashboard
	err       error
}

// Model implements the Bubble Tea leaderboard UI.
type Model struct {
	ctx    context.Context
	loader Loader
	user   *model.UserRecord
	top    int

	board     *leaderboard.Board
	dashboard *account.Dashboard
	errMsg    string
	loading   bool

	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model

	width  int
	height int

	filterMode bool
	filter     textinput.Model
	query      string
}

// Options configures the viewer.
type Options struct {
	Ctx    context.Context
	Loader Loader
	// User is the logged-in user; nil shows the public views only.
	User *model.UserRecord
	// Top limits the leaderboard rows; zero shows the whole board.
	Top int
	// Query is the initial username filter.
	Query string
}

// NewModel constructs the viewer.
func NewModel(opts Options) *Model {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:     ctx,
		loader:  opts.Loader,
		user:    opts.User,
		top:     opts.Top,
		query:   strings.TrimSpace(opts.Query),
		tabs:    []string{"Leaderboard", "Dashboard", "Milestones"},
		loading: true,
	}
	m.filter = textinput.New()
	m.filter.Prompt = "Find: "
	m.filter.Placeholder = "username"
	m.filter.Cursor.SetMode(cursor.CursorBlink)
	m.filter.SetValue(m.query)
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.table = table.New(
		table.WithColumns(boardColumns()),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.table.SetStyles(boardTableStyles())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	ctx, loader, user := m.ctx, m.loader, m.user
	return func() tea.Msg {
		if user != nil {
			d, err := loader.Dashboard(ctx, *user)
			if err != nil {
				return loadedMsg{err: err}
			}
			return loadedMsg{board: leaderboard.New(entriesOf(d.Board), 0), dashboard: &d}
		}
		board, err := loader.Leaderboard(ctx)
		return loadedMsg{board: board, err: err}
	}
}

func entriesOf(ranked []leaderboard.Ranked) []model.LeaderboardEntry {
	out := make([]model.LeaderboardEntry, len(ranked))
	for i, r := range ranked {
		out[i] = r.LeaderboardEntry
	}
	return out
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.board = msg.board
		m.dashboard = msg.dashboard
		m.refreshTable()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "r":
			m.loading = true
			return m, m.load()
		case "/":
			if m.activeTab != tabLeaderboard {
				return m, nil
			}
			m.filterMode = true
			return m, m.filter.Focus()
		default:
			if m.activeTab == tabLeaderboard {
				var cmd tea.Cmd
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.query = ""
		m.refreshTable()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.query = strings.TrimSpace(m.filter.Value())
	m.refreshTable()
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(bodyHeight-1, 1))
	m.filter.Width = max(10, m.width-lipgloss.Width(m.filter.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabLeaderboard {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	var status string
	switch {
	case m.filterMode:
		status = m.filter.View()
	case m.user != nil:
		status = headerStyle.Render(truncateLine(fmt.Sprintf("Signed in as %s  Level %d  %d XP", m.user.Username, m.user.Level, m.user.XP), m.width))
	default:
		status = headerStyle.Render("Guest: log in to appear on the board")
	}
	if m.query != "" && !m.filterMode {
		status += headerStyle.Render("  filter=" + m.query)
	}
	return tabs + "\n" + padLines(status, m.width)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Find: /  Reload: r  Quit: q")
	if m.filterMode {
		help = headerStyle.Render("enter: keep filter  esc: clear")
	}
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.loading {
		return "Loading..."
	}
	if m.errMsg != "" {
		return "Failed to load leaderboard."
	}
	if m.activeTab == tabLeaderboard {
		if len(m.table.Rows()) == 0 {
			return "No matching typists."
		}
		return tableMutedStyle.Render(m.table.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) rows() []leaderboard.Ranked {
	if m.board == nil {
		return nil
	}
	var ranked []leaderboard.Ranked
	if m.query != "" {
		ranked = m.board.Find(m.query)
	} else {
		ranked = m.board.Top(m.top)
	}
	if m.top > 0 && len(ranked) > m.top {
		ranked = ranked[:m.top]
	}
	return ranked
}

func (m *Model) refreshTable() {
	ranked := m.rows()
	rows := make([]table.Row, 0, len(ranked))
	for _, r := range ranked {
		name := r.Username
		if m.user != nil && r.UserID == m.user.ID {
			name += " (you)"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("#%d", r.Rank),
			name,
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%d", r.XP),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func boardColumns() []table.Column {
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Typist", Width: 24},
		{Title: "WPM", Width: 5},
		{Title: "Level", Width: 5},
		{Title: "XP", Width: 8},
	}
}

func boardTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabDashboard].SetContent(renderDashboard(m.dashboard, width))
	user := model.UserRecord{}
	if m.dashboard != nil {
		user = m.dashboard.User
	}
	m.viewports[tabMilestones].SetContent(renderMilestones(progress.Status(user), m.dashboard != nil))
}

func renderDashboard(d *account.Dashboard, width int) string {
	if d == nil {
		return "Log in to see your dashboard: typemaster login <username>"
	}
	rank := "-"
	if d.Rank > 0 {
		rank = fmt.Sprintf("#%d", d.Rank)
	}
	cards := []string{
		metricCard("Level", fmt.Sprintf("%d", d.User.Level)),
		metricCard("Total XP", fmt.Sprintf("%d", d.User.XP)),
		metricCard("Best WPM", fmt.Sprintf("%d", d.User.BestWPM)),
		metricCard("Tests", fmt.Sprintf("%d", d.User.TotalTests)),
		metricCard("Rank", rank),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	p := d.Progress
	bar := progressBar(p.Percent, min(40, max(width-30, 10)))
	level := fmt.Sprintf("Level %d  %s  %d%%  (%d / %d XP)", p.Level, bar, p.Percent, p.XP, p.Next)

	var buf bytes.Buffer
	if len(d.Recent) > 0 {
		if err := stats.RenderTrend(&buf, d.Recent, 1, width); err != nil {
			return fmt.Sprintf("Failed to render trend: %v", err)
		}
		if err := stats.RenderHistoryTable(&buf, d.Recent); err != nil {
			return fmt.Sprintf("Failed to render history: %v", err)
		}
	} else {
		buf.WriteString("No tests yet.")
	}
	return strings.TrimRight(summary+"\n\n"+level+"\n\n"+buf.String(), "\n")
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func renderMilestones(status []progress.MilestoneStatus, signedIn bool) string {
	lines := make([]string, 0, len(status)+2)
	if !signedIn {
		lines = append(lines, headerStyle.Render("Log in to track your milestones."), "")
	}
	for _, s := range status {
		mark, style := "[ ]", lockedStyle
		if s.Unlocked {
			mark, style = "[x]", unlockedStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s %-18s %s", mark, s.Name, s.Description)))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
