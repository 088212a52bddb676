package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Snapshot is the decoded state of every key.
type Snapshot struct {
	Users       []model.UserRecord
	CurrentUser *model.UserRecord
	Results     []model.TestResult
	Leaderboard []model.LeaderboardEntry
	// HasLeaderboard reports whether the leaderboard key exists at all.
	HasLeaderboard bool
}

// Repository reads and writes typed values through a Gateway. Updates are
// serialised so each read-modify-write is one unit.
type Repository struct {
	gw Gateway
	mu sync.Mutex
}

// NewRepository wraps gw.
func NewRepository(gw Gateway) *Repository {
	return &Repository{gw: gw}
}

// Close closes the gateway.
func (r *Repository) Close() error {
	return r.gw.Close()
}

// Users returns every registered user.
func (r *Repository) Users(ctx context.Context) ([]model.UserRecord, error) {
	var users []model.UserRecord
	_, err := r.get(ctx, KeyUsers, &users)
	return users, err
}

// CurrentUser returns the logged-in user, or nil.
func (r *Repository) CurrentUser(ctx context.Context) (*model.UserRecord, error) {
	var user *model.UserRecord
	_, err := r.get(ctx, KeyCurrentUser, &user)
	return user, err
}

// Results returns the result history, most recent first.
func (r *Repository) Results(ctx context.Context) ([]model.TestResult, error) {
	var results []model.TestResult
	_, err := r.get(ctx, KeyResults, &results)
	return results, err
}

// Leaderboard returns the stored entries and whether the key exists.
func (r *Repository) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, bool, error) {
	var entries []model.LeaderboardEntry
	ok, err := r.get(ctx, KeyLeaderboard, &entries)
	return entries, ok, err
}

// Snapshot reads every key.
func (r *Repository) Snapshot(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(ctx)
}

func (r *Repository) snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	var err error
	if _, err = r.get(ctx, KeyUsers, &s.Users); err != nil {
		return s, err
	}
	if _, err = r.get(ctx, KeyCurrentUser, &s.CurrentUser); err != nil {
		return s, err
	}
	if _, err = r.get(ctx, KeyResults, &s.Results); err != nil {
		return s, err
	}
	s.HasLeaderboard, err = r.get(ctx, KeyLeaderboard, &s.Leaderboard)
	return s, err
}

// Change lists the keys an update rewrites.
type Change struct {
	Users       bool
	CurrentUser bool
	Results     bool
	Leaderboard bool
}

// Update reads a snapshot, lets fn modify it and writes the keys fn marks
// as changed in one SetMany. Nothing is written when fn fails.
func (r *Repository) Update(ctx context.Context, fn func(*Snapshot) (Change, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.snapshot(ctx)
	if err != nil {
		return err
	}
	change, err := fn(&snap)
	if err != nil {
		return err
	}

	values := map[string][]byte{}
	add := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return &PersistenceError{Op: "encode", Key: key, Err: err}
		}
		values[key] = data
		return nil
	}
	if change.Users {
		if err := add(KeyUsers, snap.Users); err != nil {
			return err
		}
	}
	if change.CurrentUser {
		if err := add(KeyCurrentUser, snap.CurrentUser); err != nil {
			return err
		}
	}
	if change.Results {
		if err := add(KeyResults, snap.Results); err != nil {
			return err
		}
	}
	if change.Leaderboard {
		if err := add(KeyLeaderboard, snap.Leaderboard); err != nil {
			return err
		}
	}
	if len(values) == 0 {
		return nil
	}
	if err := r.gw.SetMany(ctx, values); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	return nil
}

func (r *Repository) get(ctx context.Context, key string, dst any) (bool, error) {
	data, ok, err := r.gw.Get(ctx, key)
	if err != nil {
		return false, &PersistenceError{Op: "read", Key: key, Err: err}
	}
	if !ok || len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, &PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}
