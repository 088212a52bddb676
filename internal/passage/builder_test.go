package passage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/textsource"
)

type scriptedSource struct {
	texts []string
	errs  []error
	calls int
}

func (s *scriptedSource) Next(context.Context) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if len(s.texts) == 0 {
		return "", nil
	}
	return s.texts[i%len(s.texts)], nil
}

func TestNormalize(t *testing.T) {
	got := Normalize("  hello \n\t world   again ")
	if got != "hello world again" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestBuildQuoteModeSinglePassage(t *testing.T) {
	src := &scriptedSource{texts: []string{" one   two\nthree "}}
	got := NewBuilder(src).Build(context.Background(), model.QuoteMode())
	if got != "one two three" {
		t.Fatalf("unexpected passage %q", got)
	}
	if src.calls != 1 {
		t.Fatalf("expected one source call, got %d", src.calls)
	}
}

func TestBuildTimedReachesTarget(t *testing.T) {
	src := &scriptedSource{texts: []string{strings.Repeat("a", 100)}}
	got := NewBuilder(src).Build(context.Background(), model.TimedMode(60))
	if n := utf8.RuneCountInString(got); n < TargetLength(60) {
		t.Fatalf("passage too short: %d < %d", n, TargetLength(60))
	}
	// 100 initial chars plus 101 per append against a 900 target: 8 appends.
	if src.calls != 9 {
		t.Fatalf("expected 9 source calls, got %d", src.calls)
	}
	if strings.Contains(got, "  ") {
		t.Fatalf("expected single spaces between passages")
	}
}

func TestBuildTimedStopsAfterMaxAppends(t *testing.T) {
	src := &scriptedSource{texts: []string{"ab"}}
	got := NewBuilder(src).Build(context.Background(), model.TimedMode(300))
	if src.calls != 1+MaxAppends {
		t.Fatalf("expected %d calls, got %d", 1+MaxAppends, src.calls)
	}
	if n := utf8.RuneCountInString(got); n != 2+MaxAppends*3 {
		t.Fatalf("unexpected length %d", n)
	}
}

func TestBuildFallsBackOnProviderError(t *testing.T) {
	src := &scriptedSource{errs: []error{&textsource.ProviderError{Provider: "x", Err: errors.New("timeout")}}}
	got := NewBuilder(src).Build(context.Background(), model.QuoteMode())
	if got != textsource.DefaultPassage {
		t.Fatalf("expected built-in passage, got %q", got)
	}
}

func TestBuildFallsBackOnEmptyText(t *testing.T) {
	src := &scriptedSource{texts: []string{"   "}}
	got := NewBuilder(src).Build(context.Background(), model.QuoteMode())
	if got != textsource.DefaultPassage {
		t.Fatalf("expected built-in passage, got %q", got)
	}
}

func TestBuildTimedStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &scriptedSource{texts: []string{"short"}}
	got := NewBuilder(src).Build(ctx, model.TimedMode(60))
	if got != "short" || src.calls != 1 {
		t.Fatalf("expected only the initial passage, got %q after %d calls", got, src.calls)
	}
}
