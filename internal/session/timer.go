package session

import "time"

// TickInterval is how often a running session should be ticked.
const TickInterval = 100 * time.Millisecond

// Timer is the cancellable handle of a running session's clock. Ticks carry
// the timer id; a tick for a stopped or replaced timer is ignored.
type Timer struct {
	id      uint64
	stopped bool
}

// ID identifies the timer in tick events.
func (t *Timer) ID() uint64 {
	if t == nil {
		return 0
	}
	return t.id
}

// Stop cancels the timer. Stopping twice is a no-op.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	t.stopped = true
}

// Active reports whether the timer has not been stopped.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}
