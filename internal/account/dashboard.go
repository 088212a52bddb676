package account

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/typemaster/internal/leaderboard"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
)

// RecentResults is how many results a dashboard carries.
const RecentResults = 10

// Dashboard is everything the profile views show for one user.
type Dashboard struct {
	User       model.UserRecord
	Progress   progress.Progress
	Milestones []progress.MilestoneStatus
	Recent     []model.TestResult
	Summary    progress.Summary
	Rank       int
	Board      []leaderboard.Ranked
}

// Dashboard loads the history and leaderboard of user concurrently.
func (s *Service) Dashboard(ctx context.Context, user model.UserRecord) (Dashboard, error) {
	d := Dashboard{
		User:       Private(user),
		Progress:   progress.LevelProgress(user.XP),
		Milestones: progress.Status(user),
	}

	var history []model.TestResult
	var board *leaderboard.Board
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = s.History(ctx, user.ID, 0)
		return err
	})
	g.Go(func() error {
		var err error
		board, err = s.Leaderboard(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	d.Summary = progress.Summarize(history)
	d.Recent = history
	if len(d.Recent) > RecentResults {
		d.Recent = d.Recent[:RecentResults]
	}
	d.Rank = board.RankOf(user.ID)
	d.Board = board.Top(0)
	return d, nil
}
