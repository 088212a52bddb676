// Package stats renders result history reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values, keeping
// only the most recent width values when width is positive.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregate figures for results.
func RenderSummary(w io.Writer, results []model.TestResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results yet. Finish a test while logged in to start your history.")
		return err
	}
	s := progress.Summarize(results)
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", s.Tests),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("XP Earned: %d", s.TotalXP),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints WPM and accuracy sparklines, oldest on the left.
// results are expected most recent first.
func RenderTrend(w io.Writer, results []model.TestResult, window, totalWidth int) error {
	if len(results) < 2 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	for i, r := range results {
		j := len(results) - 1 - i
		wpms[j] = float64(r.WPM)
		accs[j] = float64(r.Accuracy)
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	width := totalWidth - len("Accuracy  ")
	rows := [][]string{
		{"WPM", Sparkline(wpms, width)},
		{"Accuracy", Sparkline(accs, width)},
	}
	if _, err := fmt.Fprintln(w, "Trend"); err != nil {
		return err
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistoryTable prints the given results, one per row.
func RenderHistoryTable(w io.Writer, results []model.TestResult) error {
	if len(results) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Recent Tests"); err != nil {
		return err
	}
	headers := []string{"Date", "Mode", "WPM", "Accuracy", "Mistakes", "XP"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Date.Local().Format("2006-01-02 15:04"),
			ModeLabel(r),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%d", r.Mistakes),
			fmt.Sprintf("+%d", r.XPEarned),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// ModeLabel describes the mode a result was recorded in.
func ModeLabel(r model.TestResult) string {
	if r.Mode == model.ModeTimed {
		return model.TimedMode(r.Duration).String()
	}
	return model.QuoteMode().String()
}
