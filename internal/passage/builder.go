// Package passage assembles the text a typing test is run against.
package passage

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/textsource"
)

const (
	// CharsPerSecond bounds the fastest sustained typing (about 180 WPM).
	CharsPerSecond = 15
	// MaxAppends caps the number of extra passages fetched for a timed test.
	MaxAppends = 15
)

// Builder assembles passages from a text source.
type Builder struct {
	source   textsource.Source
	fallback string
}

// NewBuilder returns a Builder backed by source.
func NewBuilder(source textsource.Source) *Builder {
	return &Builder{source: source, fallback: textsource.DefaultPassage}
}

// Build returns a whitespace-normalized passage for mode. It never fails:
// source errors are replaced with the built-in passage.
func (b *Builder) Build(ctx context.Context, mode model.Mode) string {
	text := b.next(ctx)
	if !mode.IsTimed() {
		return text
	}

	target := TargetLength(mode.Duration)
	var sb strings.Builder
	sb.WriteString(text)
	length := utf8.RuneCountInString(text)
	for attempts := 0; length < target && attempts < MaxAppends; attempts++ {
		if ctx.Err() != nil {
			break
		}
		more := b.next(ctx)
		sb.WriteByte(' ')
		sb.WriteString(more)
		length += 1 + utf8.RuneCountInString(more)
	}
	return sb.String()
}

// TargetLength is the minimum passage length for a countdown of seconds.
func TargetLength(seconds int) int {
	return seconds * CharsPerSecond
}

func (b *Builder) next(ctx context.Context) string {
	text, err := b.source.Next(ctx)
	if err != nil {
		logging.Warn("passage source failed, using built-in passage", err)
		return b.fallback
	}
	text = Normalize(text)
	if text == "" {
		logging.Warn("passage source returned empty text, using built-in passage", textsource.ErrEmptyText)
		return b.fallback
	}
	return text
}

// Normalize collapses whitespace runs to a single space and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
