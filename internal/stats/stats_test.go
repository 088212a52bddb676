package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 2, 3}, 0); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}, 0); got != "+++" {
		t.Fatalf("flat series must render mid level, got %q", got)
	}
	if got := Sparkline([]float64{1, 2, 3, 4, 5}, 2); len(got) != 2 {
		t.Fatalf("width must keep the latest values, got %q", got)
	}
}

type fakeLoader struct {
	results []model.TestResult
}

func (f fakeLoader) History(_ context.Context, _ string, limit int) ([]model.TestResult, error) {
	if limit > 0 && limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func TestReportRender(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	var results []model.TestResult
	for i := 0; i < 5; i++ {
		results = append(results, model.TestResult{
			WPM:      60 - i*5,
			Accuracy: 90 + i,
			Mistakes: i,
			XPEarned: 50,
			Date:     base.Add(-time.Duration(i) * time.Hour),
			Mode:     model.ModeTimed,
			Duration: 60,
		})
	}
	report, err := BuildReport(context.Background(), fakeLoader{results: results}, "u1", 0, 3)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Results) != 5 || len(report.Recent) != 3 {
		t.Fatalf("unexpected report sizes %d/%d", len(report.Results), len(report.Recent))
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, 1, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Tests: 5", "Best WPM: 60", "XP Earned: 250", "Trend", "Recent Tests", "60s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No results yet") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
