// Package textsource provides passages for typing tests.
package textsource

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/typemaster/internal/logging"
)

// Source produces plain-text passages.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// ErrEmptyText is returned when a provider answers without usable text.
var ErrEmptyText = errors.New("empty passage")

// ProviderError reports that a text source could not produce a passage.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SampleTexts is the built-in corpus.
var SampleTexts = []string{
	"The quick brown fox jumps over the lazy dog. This pangram contains every letter of the English alphabet at least once.",
	"Typing fast is a skill that takes practice and patience. Regular exercises can help improve both your speed and accuracy over time.",
	"Technology continues to evolve at a rapid pace, changing the way we live, work, and communicate with one another across the globe.",
	"A journey of a thousand miles begins with a single step. Consistency is key to mastering any new skill, including touch typing.",
	"In software engineering, clean code is often more important than clever code. Readability helps teams maintain projects in the long run.",
}

// DefaultPassage is served when every source has failed.
var DefaultPassage = SampleTexts[0]

// Fallback serves passages from Primary and switches to Secondary when it fails.
type Fallback struct {
	Primary   Source
	Secondary Source
}

// Next implements Source.
func (f Fallback) Next(ctx context.Context) (string, error) {
	text, err := f.Primary.Next(ctx)
	if err == nil {
		return text, nil
	}
	logging.Warn("text provider failed, using fallback corpus", err)
	return f.Secondary.Next(ctx)
}
