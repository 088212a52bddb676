// Package account manages users, their results and the shared leaderboard.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/typemaster/internal/leaderboard"
	"github.com/verte-zerg/typemaster/internal/logging"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/progress"
	"github.com/verte-zerg/typemaster/internal/store"
)

// ValidationError is a user-facing rejection. No state is changed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Options configures a Service.
type Options struct {
	// BoardSize caps the leaderboard; zero means leaderboard.MaxEntries.
	BoardSize int
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
}

// Service implements registration, login and result bookkeeping over a Repository.
type Service struct {
	repo      *store.Repository
	boardSize int
	cost      int
	now       func() time.Time
}

// NewService returns a Service backed by repo.
func NewService(repo *store.Repository, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, boardSize: opts.BoardSize, cost: cost, now: now}
}

// Register creates a user and logs them in.
func (s *Service) Register(ctx context.Context, username, email, password string) (model.UserRecord, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return model.UserRecord{}, invalid("Please fill in all required fields.")
	}
	if email == "" {
		return model.UserRecord{}, invalid("Email is required for registration.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return model.UserRecord{}, invalid("Password is too long.")
		}
		return model.UserRecord{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created model.UserRecord
	err = s.repo.Update(ctx, func(snap *store.Snapshot) (store.Change, error) {
		if _, ok := findUser(snap.Users, username); ok {
			return store.Change{}, invalid("Username already taken")
		}
		created = model.UserRecord{
			ID:           uuid.NewString(),
			Username:     username,
			Email:        email,
			Avatar:       "https://ui-avatars.com/api/?name=" + url.QueryEscape(username) + "&background=random",
			PasswordHash: string(hash),
			Level:        progress.LevelForXP(0),
			CreatedAt:    s.now().UTC(),
		}
		snap.Users = append(snap.Users, created)
		current := Private(created)
		snap.CurrentUser = &current
		return store.Change{Users: true, CurrentUser: true}, nil
	})
	if err != nil {
		return model.UserRecord{}, err
	}
	logging.System("user registered", "user", created.Username)
	return Private(created), nil
}

// Login checks the password and makes the user current.
func (s *Service) Login(ctx context.Context, username, password string) (model.UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.UserRecord{}, invalid("Please fill in all required fields.")
	}
	var user model.UserRecord
	err := s.repo.Update(ctx, func(snap *store.Snapshot) (store.Change, error) {
		i, ok := findUser(snap.Users, username)
		if !ok {
			return store.Change{}, invalid("User not found")
		}
		if bcrypt.CompareHashAndPassword([]byte(snap.Users[i].PasswordHash), []byte(password)) != nil {
			return store.Change{}, invalid("Invalid password")
		}
		user = Private(snap.Users[i])
		snap.CurrentUser = &user
		return store.Change{CurrentUser: true}, nil
	})
	if err != nil {
		return model.UserRecord{}, err
	}
	logging.System("user logged in", "user", user.Username)
	return user, nil
}

// Logout clears the current user.
func (s *Service) Logout(ctx context.Context) error {
	return s.repo.Update(ctx, func(snap *store.Snapshot) (store.Change, error) {
		if snap.CurrentUser == nil {
			return store.Change{}, nil
		}
		snap.CurrentUser = nil
		return store.Change{CurrentUser: true}, nil
	})
}

// Current returns the logged-in user, or nil for a guest.
func (s *Service) Current(ctx context.Context) (*model.UserRecord, error) {
	return s.repo.CurrentUser(ctx)
}

// SaveResult records a finished test for user: the result is stamped,
// applied to the stored profile, prepended to the history and reflected on
// the leaderboard, all in one write.
func (s *Service) SaveResult(ctx context.Context, user model.UserRecord, result model.TestResult) (model.UserRecord, error) {
	if user.ID == "" {
		return model.UserRecord{}, invalid("User not found")
	}
	result.ID = uuid.NewString()
	result.UserID = user.ID
	if result.Date.IsZero() {
		result.Date = s.now().UTC()
	}

	var updated model.UserRecord
	err := s.repo.Update(ctx, func(snap *store.Snapshot) (store.Change, error) {
		base := user
		idx := -1
		for i, u := range snap.Users {
			if u.ID == user.ID {
				base, idx = u, i
				break
			}
		}
		updated = progress.Apply(base, result)
		if idx >= 0 {
			snap.Users[idx] = updated
		} else {
			snap.Users = append(snap.Users, updated)
		}
		current := Private(updated)
		snap.CurrentUser = &current

		snap.Results = append([]model.TestResult{result}, snap.Results...)

		board := leaderboard.New(snap.Leaderboard, s.boardSize)
		board.Upsert(model.EntryFor(updated))
		snap.Leaderboard = board.Entries()
		return store.Change{Users: true, CurrentUser: true, Results: true, Leaderboard: true}, nil
	})
	if err != nil {
		logging.Error("failed to save result", err, "user", user.Username, "wpm", result.WPM)
		return model.UserRecord{}, err
	}
	logging.System("result saved", "user", updated.Username, "wpm", result.WPM, "xp", updated.XP, "level", updated.Level)
	return Private(updated), nil
}

// History returns up to limit results of userID, most recent first.
// A non-positive limit returns all of them.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]model.TestResult, error) {
	all, err := s.repo.Results(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.TestResult
	for _, r := range all {
		if r.UserID != userID {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Leaderboard returns the ranked board, seeding it on first use.
func (s *Service) Leaderboard(ctx context.Context) (*leaderboard.Board, error) {
	entries, ok, err := s.repo.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return leaderboard.New(entries, s.boardSize), nil
	}
	var board *leaderboard.Board
	err = s.repo.Update(ctx, func(snap *store.Snapshot) (store.Change, error) {
		board = s.boardFrom(snap)
		if snap.HasLeaderboard {
			return store.Change{}, nil
		}
		snap.Leaderboard = board.Entries()
		return store.Change{Leaderboard: true}, nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *Service) boardFrom(snap *store.Snapshot) *leaderboard.Board {
	if !snap.HasLeaderboard {
		return leaderboard.New(leaderboard.Seed(), s.boardSize)
	}
	return leaderboard.New(snap.Leaderboard, s.boardSize)
}

// User looks up a registered user by name, case-insensitively.
func (s *Service) User(ctx context.Context, username string) (*model.UserRecord, error) {
	users, err := s.repo.Users(ctx)
	if err != nil {
		return nil, err
	}
	i, ok := findUser(users, strings.TrimSpace(username))
	if !ok {
		return nil, nil
	}
	u := Private(users[i])
	return &u, nil
}

func findUser(users []model.UserRecord, username string) (int, bool) {
	for i, u := range users {
		if strings.EqualFold(u.Username, username) {
			return i, true
		}
	}
	return -1, false
}

// Private strips credentials from a user record.
func Private(u model.UserRecord) model.UserRecord {
	u.PasswordHash = ""
	return u
}

// Public strips credentials and contact details from a user record.
func Public(u model.UserRecord) model.UserRecord {
	u = Private(u)
	u.Email = ""
	return u
}
