// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/session"
)

// Modes is the ctrl+t cycle order.
var Modes = []model.Mode{
	model.QuoteMode(),
	model.TimedMode(60),
	model.TimedMode(120),
	model.TimedMode(300),
}

type passageMsg struct {
	token uint64
	text  string
}

type tickMsg struct {
	timer uint64
}

type savedMsg struct {
	seq     uint64
	outcome session.SaveOutcome
}

// Options configures the typing screen.
type Options struct {
	Engine *session.Engine
	// Saver persists results of a logged-in user; nil keeps every result local.
	Saver session.Saver
	// User is the logged-in user, nil for a guest.
	User *model.UserRecord
	Ctx  context.Context
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx    context.Context
	engine *session.Engine
	saver  session.Saver
	user   *model.UserRecord

	width  int
	height int

	saving  bool
	saved   *session.SaveOutcome
	saveSeq uint64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C89A3A")).Padding(1, 3)
	goodStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return &Model{
		ctx:    ctx,
		engine: opts.Engine,
		saver:  opts.Saver,
		user:   opts.User,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.prepare(m.engine.Restart())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case passageMsg:
		m.engine.Ready(msg.token, msg.text)
		return m, nil
	case tickMsg:
		out, again := m.engine.Tick(msg.timer)
		if out.Finished {
			return m, m.finish(out.Result)
		}
		if again {
			return m, tick(msg.timer)
		}
		return m, nil
	case savedMsg:
		outcome := msg.outcome
		if outcome.Saved() {
			user := outcome.User
			m.user = &user
		}
		if msg.seq == m.saveSeq {
			m.saving = false
			m.saved = &outcome
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.engine.Cancel()
		return tea.Quit
	case tea.KeyTab:
		return m.restart(m.engine.Restart())
	case tea.KeyCtrlT:
		return m.restart(m.engine.SetMode(nextMode(m.engine.Mode())))
	case tea.KeyCtrlG:
		return m.restart(m.engine.ToggleAI())
	case tea.KeyBackspace, tea.KeyDelete:
		return m.handleOutcome(m.engine.Backspace())
	case tea.KeySpace:
		return m.handleOutcome(m.engine.Type(' '))
	case tea.KeyRunes:
		return m.handleOutcome(m.engine.Type(msg.Runes...))
	default:
		return nil
	}
}

func (m *Model) handleOutcome(out session.Outcome) tea.Cmd {
	switch {
	case out.Finished:
		return m.finish(out.Result)
	case out.Started:
		return tick(out.Timer)
	default:
		return nil
	}
}

func (m *Model) restart(p session.Preparation) tea.Cmd {
	m.saving = false
	m.saved = nil
	m.saveSeq++
	return m.prepare(p)
}

func (m *Model) prepare(p session.Preparation) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return passageMsg{token: p.Token(), text: p.Build(ctx)}
	}
}

func tick(timer uint64) tea.Cmd {
	return tea.Tick(session.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{timer: timer}
	})
}

func (m *Model) finish(result model.TestResult) tea.Cmd {
	m.saving = true
	m.saved = nil
	m.saveSeq++
	seq := m.saveSeq
	ch := session.Save(m.ctx, m.saver, m.user, result)
	return func() tea.Msg {
		outcome := <-ch
		if outcome.Err != nil {
			logging.Error("result not saved", outcome.Err, "wpm", outcome.Result.WPM)
		}
		return savedMsg{seq: seq, outcome: outcome}
	}
}

func nextMode(current model.Mode) model.Mode {
	for i, mode := range Modes {
		if mode == current {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Modes[0]
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch {
	case m.engine.Preparing():
		content = pendingStyle.Render("Preparing test...")
	case m.engine.State() == model.StateFinished:
		content = m.renderResult()
	default:
		content = m.renderPassage()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	if m.height < 5 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, header)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return headerLine + "\n" + body + "\n" + footerLine
}

func (m *Model) renderPassage() string {
	styled := buildStyledRunes(m.engine.PassageRunes(), m.engine.TypedRunes(), m.engine.Classes())
	if m.width == 0 {
		return renderStyledRunes(styled)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	wrapped := wrapStyledRunes(styled, contentWidth)
	return lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
}

func (m *Model) renderHeader() string {
	segments := []string{"typemaster", m.engine.Mode().String()}
	if m.engine.UseAI() {
		segments = append(segments, "AI text")
	}
	if m.user != nil {
		segments = append(segments, fmt.Sprintf("%s · Level %d · %d XP", m.user.Username, m.user.Level, m.user.XP))
	} else {
		segments = append(segments, "guest")
	}
	return headerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderFooter() string {
	if m.engine.Preparing() {
		return footerStyle.Render("esc quit")
	}
	var segments []string
	if m.engine.State() != model.StateFinished {
		score := m.engine.Score()
		if m.engine.Mode().IsTimed() {
			segments = append(segments, "Time "+formatClock(m.engine.Remaining()))
		} else {
			segments = append(segments, fmt.Sprintf("Progress %d%%", m.progressPct()))
		}
		segments = append(segments,
			fmt.Sprintf("%d WPM", score.WPM),
			fmt.Sprintf("%d%% acc", score.Accuracy),
			fmt.Sprintf("%d mistakes", score.Mistakes),
		)
	}
	keys := "tab restart · ctrl+t mode · esc quit"
	if m.engine.AIAvailable() {
		keys = "tab restart · ctrl+t mode · ctrl+g AI · esc quit"
	}
	segments = append(segments, keys)
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) progressPct() int {
	total := len(m.engine.PassageRunes())
	if total == 0 {
		return 0
	}
	return len(m.engine.TypedRunes()) * 100 / total
}

func (m *Model) renderResult() string {
	result, ok := m.engine.Result()
	if !ok {
		return ""
	}
	lines := []string{
		headerStyle.Render("Test complete"),
		"",
		fmt.Sprintf("WPM %d   Accuracy %d%%   Mistakes %d   XP +%d", result.WPM, result.Accuracy, result.Mistakes, result.XPEarned),
		pendingStyle.Render("Mode " + m.engine.Mode().String()),
		"",
		m.saveStatus(),
	}
	if m.saved != nil && m.saved.Saved() {
		before, after := m.saved.Before, m.saved.User
		if progress.LevelUp(before, after) {
			lines = append(lines, goodStyle.Render(fmt.Sprintf("Level up! You reached level %d", after.Level)))
		}
		for _, ms := range progress.NewlyUnlocked(before, after) {
			lines = append(lines, goodStyle.Render("Unlocked: "+ms.Name+" ("+ms.Description+")"))
		}
	}
	lines = append(lines, "", pendingStyle.Render("tab next test"))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) saveStatus() string {
	switch {
	case m.saving:
		return pendingStyle.Render("saving...")
	case m.saved == nil:
		return ""
	case m.saved.Guest:
		return pendingStyle.Render("guest: log in to earn XP")
	case m.saved.Err != nil:
		return incorrectStyle.Render("not saved: " + m.saved.Err.Error())
	default:
		return goodStyle.Render("saved")
	}
}

func formatClock(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
