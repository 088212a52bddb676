package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/typemaster/internal/model"
)

// HistoryLoader returns a user's results, most recent first.
type HistoryLoader interface {
	History(ctx context.Context, userID string, limit int) ([]model.TestResult, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Results []model.TestResult
	Recent  []model.TestResult
}

// BuildReport loads the last results of userID; last <= 0 loads everything.
func BuildReport(ctx context.Context, loader HistoryLoader, userID string, last, recent int) (Report, error) {
	results, err := loader.History(ctx, userID, last)
	if err != nil {
		return Report{}, err
	}
	r := Report{Results: results, Recent: results}
	if recent > 0 && len(r.Recent) > recent {
		r.Recent = r.Recent[:recent]
	}
	return r, nil
}

// Render writes the summary, trend and recent table.
func (r Report) Render(w io.Writer, window, totalWidth int) error {
	if err := RenderSummary(w, r.Results); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Results, window, totalWidth); err != nil {
		return err
	}
	return RenderHistoryTable(w, r.Recent)
}
