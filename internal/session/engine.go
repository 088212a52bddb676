// Package session implements the typing test lifecycle.
package session

import (
	"context"
	"time"

	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/scoring"
)

// Builder produces the passage for a mode.
type Builder interface {
	Build(ctx context.Context, mode model.Mode) string
}

// Options configures an Engine.
type Options struct {
	Mode  model.Mode
	UseAI bool
	// Quote builds passages from the static corpus.
	Quote Builder
	// AI builds passages from the generative provider; nil disables the toggle.
	AI  Builder
	Now func() time.Time
}

// Preparation is an outstanding passage request. Build may block on the
// text provider, so callers run it off the input path and hand the passage
// back through Engine.Ready.
type Preparation struct {
	token   uint64
	mode    model.Mode
	builder Builder
}

// Token identifies the preparation.
func (p Preparation) Token() uint64 {
	return p.token
}

// Mode is the mode the passage is built for.
func (p Preparation) Mode() model.Mode {
	return p.mode
}

// Build assembles the passage.
func (p Preparation) Build(ctx context.Context) string {
	return p.builder.Build(ctx, p.mode)
}

// Outcome describes what an input or tick event did.
type Outcome struct {
	Changed  bool
	Started  bool
	Finished bool
	Timer    uint64
	Result   model.TestResult
}

// Engine owns one typing session at a time: the passage, the typed input,
// the clock and the Idle, Running, Finished lifecycle. It is not safe for
// concurrent use; every event is expected on one goroutine.
type Engine struct {
	quote Builder
	ai    Builder
	now   func() time.Time

	mode  model.Mode
	useAI bool

	preparing bool
	token     uint64

	passage []rune
	typed   []rune
	state   model.State

	startedAt time.Time
	elapsed   time.Duration
	timer     *Timer
	timerSeq  uint64

	score  scoring.Score
	result *model.TestResult
}

// New returns an Engine waiting for its first passage; call Restart to obtain it.
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	mode := opts.Mode
	if mode.Kind == "" {
		mode = model.QuoteMode()
	}
	return &Engine{
		quote:     opts.Quote,
		ai:        opts.AI,
		now:       now,
		mode:      mode,
		useAI:     opts.UseAI && opts.AI != nil,
		preparing: true,
	}
}

// Restart discards the current session and requests a fresh passage.
func (e *Engine) Restart() Preparation {
	e.discard()
	e.preparing = true
	e.token++
	builder := e.quote
	if e.useAI {
		builder = e.ai
	}
	logging.Session("preparing passage", "mode", e.mode.String(), "ai", e.useAI)
	return Preparation{token: e.token, mode: e.mode, builder: builder}
}

// SetMode switches modes, cancelling any running session.
func (e *Engine) SetMode(mode model.Mode) Preparation {
	e.mode = mode
	return e.Restart()
}

// ToggleAI flips the generative text source, cancelling any running session.
func (e *Engine) ToggleAI() Preparation {
	e.useAI = !e.useAI && e.ai != nil
	return e.Restart()
}

// Ready installs the passage of a preparation. Stale tokens are ignored.
func (e *Engine) Ready(token uint64, passage string) bool {
	if !e.preparing || token != e.token {
		return false
	}
	e.preparing = false
	e.passage = []rune(passage)
	e.typed = nil
	e.state = model.StateIdle
	e.score = idleScore()
	return true
}

// Prepare restarts and builds the passage synchronously.
func (e *Engine) Prepare(ctx context.Context) {
	p := e.Restart()
	e.Ready(p.Token(), p.Build(ctx))
}

// Cancel stops the clock and discards the session without a result.
func (e *Engine) Cancel() {
	e.discard()
}

// SetInput replaces the typed input, as an input-change event.
func (e *Engine) SetInput(value string) Outcome {
	return e.apply([]rune(value))
}

// Type appends runes to the input.
func (e *Engine) Type(runes ...rune) Outcome {
	next := make([]rune, 0, len(e.typed)+len(runes))
	next = append(next, e.typed...)
	next = append(next, runes...)
	return e.apply(next)
}

// Backspace removes the last typed rune.
func (e *Engine) Backspace() Outcome {
	if len(e.typed) == 0 {
		return Outcome{}
	}
	return e.apply(e.typed[: len(e.typed)-1 : len(e.typed)-1])
}

// Tick advances the clock of the running session identified by timerID.
// It reports whether the timer should keep ticking.
func (e *Engine) Tick(timerID uint64) (Outcome, bool) {
	if e.state != model.StateRunning || !e.timer.Active() || e.timer.ID() != timerID {
		return Outcome{}, false
	}
	elapsed := e.sinceStart()
	if e.mode.IsTimed() && elapsed >= e.duration() {
		return e.finish(e.duration()), false
	}
	e.elapsed = elapsed
	e.rescore(scoring.LiveElapsed(elapsed.Seconds()))
	return Outcome{Changed: true}, true
}

func (e *Engine) apply(next []rune) Outcome {
	if e.preparing || e.state == model.StateFinished {
		return Outcome{}
	}
	if e.state == model.StateRunning && e.mode.IsTimed() && e.sinceStart() >= e.duration() {
		return e.finish(e.duration())
	}
	if !e.mode.IsTimed() && len(next) > len(e.passage) {
		next = next[:len(e.passage)]
	}

	var out Outcome
	if e.state == model.StateIdle {
		if len(next) == 0 {
			return Outcome{}
		}
		e.start()
		out.Started = true
		out.Timer = e.timer.ID()
	}
	e.typed = append(e.typed[:0:0], next...)
	e.elapsed = e.sinceStart()
	live := scoring.LiveElapsed(e.elapsed.Seconds())
	e.rescore(live)
	out.Changed = true

	if !e.mode.IsTimed() && len(e.typed) == len(e.passage) {
		fin := e.finish(time.Duration(live * float64(time.Second)))
		fin.Started = out.Started
		fin.Timer = out.Timer
		return fin
	}
	return out
}

func (e *Engine) start() {
	e.state = model.StateRunning
	e.startedAt = e.now()
	e.timerSeq++
	e.timer = &Timer{id: e.timerSeq}
	logging.Session("session started", "mode", e.mode.String(), "chars", len(e.passage))
}

func (e *Engine) finish(base time.Duration) Outcome {
	e.timer.Stop()
	e.state = model.StateFinished
	e.elapsed = base
	e.rescore(base.Seconds())

	result := model.TestResult{
		WPM:      e.score.WPM,
		Accuracy: e.score.Accuracy,
		Mistakes: e.score.Mistakes,
		Date:     e.now(),
		XPEarned: scoring.XPEarned(e.score.WPM, e.score.Accuracy),
		Mode:     e.mode.Kind,
	}
	if e.mode.IsTimed() {
		result.Duration = e.mode.Duration
	}
	e.result = &result
	logging.Session("session finished", "wpm", result.WPM, "accuracy", result.Accuracy, "xp", result.XPEarned)
	return Outcome{Changed: true, Finished: true, Result: result}
}

func (e *Engine) discard() {
	e.timer.Stop()
	e.timer = nil
	e.typed = nil
	e.state = model.StateIdle
	e.startedAt = time.Time{}
	e.elapsed = 0
	e.score = idleScore()
	e.result = nil
}

// idleScore is shown before the first keystroke.
func idleScore() scoring.Score {
	return scoring.Score{Accuracy: 100}
}

func (e *Engine) rescore(elapsedSeconds float64) {
	e.score = scoring.Compute(e.typed, e.passage, elapsedSeconds)
}

func (e *Engine) sinceStart() time.Duration {
	if e.startedAt.IsZero() {
		return 0
	}
	d := e.now().Sub(e.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

func (e *Engine) duration() time.Duration {
	return time.Duration(e.mode.Duration) * time.Second
}

// State returns the lifecycle state.
func (e *Engine) State() model.State {
	return e.state
}

// Preparing reports whether a passage is outstanding; input is disabled meanwhile.
func (e *Engine) Preparing() bool {
	return e.preparing
}

// Mode returns the current mode.
func (e *Engine) Mode() model.Mode {
	return e.mode
}

// UseAI reports whether the generative source is selected.
func (e *Engine) UseAI() bool {
	return e.useAI
}

// AIAvailable reports whether a generative source is configured.
func (e *Engine) AIAvailable() bool {
	return e.ai != nil
}

// Passage returns the passage text.
func (e *Engine) Passage() string {
	return string(e.passage)
}

// PassageRunes returns the passage characters.
func (e *Engine) PassageRunes() []rune {
	return e.passage
}

// Typed returns the typed input.
func (e *Engine) Typed() string {
	return string(e.typed)
}

// TypedRunes returns the typed characters.
func (e *Engine) TypedRunes() []rune {
	return e.typed
}

// Classes classifies every passage character for display.
func (e *Engine) Classes() []scoring.Class {
	classes := scoring.Classify(e.typed, e.passage)
	if e.state == model.StateFinished {
		for i, c := range classes {
			if c == scoring.Cursor {
				classes[i] = scoring.Untyped
			}
		}
	}
	return classes
}

// Score returns the live metrics.
func (e *Engine) Score() scoring.Score {
	return e.score
}

// Elapsed returns the time since the first keystroke as of the last event.
func (e *Engine) Elapsed() time.Duration {
	return e.elapsed
}

// Remaining returns the countdown left in timed mode, zero otherwise.
func (e *Engine) Remaining() time.Duration {
	if !e.mode.IsTimed() {
		return 0
	}
	left := e.duration() - e.elapsed
	if left < 0 {
		return 0
	}
	return left
}

// Timer returns the running session's clock handle, or nil.
func (e *Engine) Timer() *Timer {
	return e.timer
}

// Result returns the final result once the session has finished.
func (e *Engine) Result() (model.TestResult, bool) {
	if e.result == nil {
		return model.TestResult{}, false
	}
	return *e.result, true
}
