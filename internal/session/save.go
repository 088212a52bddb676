package session

import (
	"context"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Saver persists a finished result for an authenticated user.
type Saver interface {
	SaveResult(ctx context.Context, user model.UserRecord, result model.TestResult) (model.UserRecord, error)
}

// SaveOutcome is the completion of a save task.
type SaveOutcome struct {
	Result model.TestResult
	// Before is the user record the result was applied to.
	Before model.UserRecord
	// User is the updated record; zero for guests and failed saves.
	User  model.UserRecord
	Guest bool
	Err   error
}

// Saved reports whether the result reached durable storage.
func (o SaveOutcome) Saved() bool {
	return !o.Guest && o.Err == nil
}

// Save starts the save of result as an asynchronous task. The channel yields
// exactly one outcome and is then closed. A nil user completes immediately as
// a guest without touching storage.
func Save(ctx context.Context, saver Saver, user *model.UserRecord, result model.TestResult) <-chan SaveOutcome {
	ch := make(chan SaveOutcome, 1)
	if user == nil || saver == nil {
		ch <- SaveOutcome{Result: result, Guest: true}
		close(ch)
		return ch
	}
	before := *user
	go func() {
		defer close(ch)
		updated, err := saver.SaveResult(ctx, before, result)
		ch <- SaveOutcome{Result: result, Before: before, User: updated, Err: err}
	}()
	return ch
}
