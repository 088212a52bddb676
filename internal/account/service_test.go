package account

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/store"
)

func newService(t *testing.T) (*Service, *store.Repository) {
	t.Helper()
	repo := store.NewRepository(store.NewMemory())
	clock := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(repo, Options{
		BcryptCost: bcrypt.MinCost,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	return svc, repo
}

func TestRegisterValidation(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	cases := []struct {
		username, email, password, want string
	}{
		{"", "a@b.c", "pw", "Please fill in all required fields."},
		{"ada", "a@b.c", "", "Please fill in all required fields."},
		{"ada", "  ", "pw", "Email is required for registration."},
	}
	for _, c := range cases {
		_, err := svc.Register(ctx, c.username, c.email, c.password)
		if !IsValidation(err) || err.Error() != c.want {
			t.Fatalf("Register(%q,%q,%q) = %v, want %q", c.username, c.email, c.password, err, c.want)
		}
	}
	users, _ := repo.Users(ctx)
	if len(users) != 0 {
		t.Fatalf("validation failures must not write users")
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" || user.Level != 1 || user.XP != 0 || user.PasswordHash != "" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.Avatar != "https://ui-avatars.com/api/?name=Ada&background=random" {
		t.Fatalf("unexpected avatar %q", user.Avatar)
	}
	users, _ := repo.Users(ctx)
	if len(users) != 1 || users[0].PasswordHash == "" || users[0].PasswordHash == "secret" {
		t.Fatalf("password must be stored hashed")
	}

	if _, err := svc.Register(ctx, "ada", "other@example.com", "pw"); !IsValidation(err) || err.Error() != "Username already taken" {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if current, _ := svc.Current(ctx); current != nil {
		t.Fatalf("expected guest after logout")
	}

	if _, err := svc.Login(ctx, "bob", "pw"); err == nil || err.Error() != "User not found" {
		t.Fatalf("expected unknown user, got %v", err)
	}
	if _, err := svc.Login(ctx, "ADA", "wrong"); err == nil || err.Error() != "Invalid password" {
		t.Fatalf("expected bad password, got %v", err)
	}
	if current, _ := svc.Current(ctx); current != nil {
		t.Fatalf("failed login must not set the current user")
	}
	logged, err := svc.Login(ctx, "ADA", "secret")
	if err != nil || logged.ID != user.ID {
		t.Fatalf("login: %+v %v", logged, err)
	}
	current, err := svc.Current(ctx)
	if err != nil || current == nil || current.ID != user.ID || current.PasswordHash != "" {
		t.Fatalf("unexpected current user %+v err=%v", current, err)
	}
}

func TestSaveResult(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, "ada", "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.SaveResult(ctx, user, model.TestResult{WPM: 130, Accuracy: 95, XPEarned: 124, Mode: model.ModeQuote})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if updated.XP != 124 || updated.Level != 2 || updated.TotalTests != 1 || updated.BestWPM != 130 {
		t.Fatalf("unexpected updated user %+v", updated)
	}
	stored, ok, err := repo.Leaderboard(ctx)
	if err != nil || !ok || len(stored) != 1 || stored[0].UserID != user.ID {
		t.Fatalf("first save must store only the user's entry, got %+v ok=%v err=%v", stored, ok, err)
	}

	second, err := svc.SaveResult(ctx, updated, model.TestResult{WPM: 60, Accuracy: 90, XPEarned: 54, Mode: model.ModeTimed, Duration: 60})
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if second.BestWPM != 130 || second.TotalTests != 2 || second.XP != 178 {
		t.Fatalf("unexpected second user %+v", second)
	}

	history, err := svc.History(ctx, user.ID, 0)
	if err != nil || len(history) != 2 {
		t.Fatalf("unexpected history %+v err=%v", history, err)
	}
	if history[0].WPM != 60 || history[1].WPM != 130 {
		t.Fatalf("history must be most recent first: %+v", history)
	}
	if history[0].ID == "" || history[0].ID == history[1].ID || history[0].UserID != user.ID {
		t.Fatalf("results must be stamped: %+v", history)
	}
	if limited, _ := svc.History(ctx, user.ID, 1); len(limited) != 1 {
		t.Fatalf("limit not applied")
	}

	board, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	top := board.Top(0)
	if len(top) != 1 || top[0].UserID != user.ID || top[0].WPM != 130 {
		t.Fatalf("expected only the user on the board, got %+v", top)
	}

	current, _ := repo.CurrentUser(ctx)
	if current == nil || current.XP != 178 {
		t.Fatalf("current user must track saved progress, got %+v", current)
	}
}

func TestLeaderboardSeededOnce(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	board, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if board.Len() != 3 {
		t.Fatalf("expected seeded board, got %d", board.Len())
	}
	if _, ok, _ := repo.Leaderboard(ctx); !ok {
		t.Fatalf("seed must be persisted")
	}

	user, _ := svc.Register(ctx, "ada", "ada@example.com", "secret")
	if _, err := svc.SaveResult(ctx, user, model.TestResult{WPM: 10, Accuracy: 100, XPEarned: 10}); err != nil {
		t.Fatalf("save: %v", err)
	}
	board, _ = svc.Leaderboard(ctx)
	if board.Len() != 4 || board.RankOf(user.ID) != 4 {
		t.Fatalf("seeding must not reset recorded entries, got %+v", board.Entries())
	}
}

func TestSaveResultPersistenceFailure(t *testing.T) {
	repo := store.NewRepository(brokenGateway{store.NewMemory()})
	svc := NewService(repo, Options{BcryptCost: bcrypt.MinCost})
	_, err := svc.SaveResult(context.Background(), model.UserRecord{ID: "u1"}, model.TestResult{WPM: 50})
	if !store.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

type brokenGateway struct {
	*store.Memory
}

func (brokenGateway) SetMany(context.Context, map[string][]byte) error {
	return fmt.Errorf("connection refused")
}

func TestDashboard(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	user, _ := svc.Register(ctx, "ada", "ada@example.com", "secret")
	for i := 0; i < 12; i++ {
		var err error
		user, err = svc.SaveResult(ctx, user, model.TestResult{WPM: 40 + i, Accuracy: 100, XPEarned: 10})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	d, err := svc.Dashboard(ctx, user)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(d.Recent) != RecentResults || d.Recent[0].WPM != 51 {
		t.Fatalf("unexpected recent results %+v", d.Recent)
	}
	if d.Summary.Tests != 12 || d.Summary.BestWPM != 51 || d.Summary.TotalXP != 120 {
		t.Fatalf("unexpected summary %+v", d.Summary)
	}
	if d.Rank != 1 || len(d.Board) != 1 || d.Progress.Level != 2 {
		t.Fatalf("unexpected rank %d progress %+v", d.Rank, d.Progress)
	}
	unlocked := 0
	for _, m := range d.Milestones {
		if m.Unlocked {
			unlocked++
		}
	}
	if unlocked != 2 {
		t.Fatalf("expected bronze and speed-40 unlocked, got %d", unlocked)
	}
}

func TestUserLookup(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "Ada", "ada@example.com", "secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, err := svc.User(ctx, "ada")
	if err != nil || u == nil || u.Username != "Ada" || u.PasswordHash != "" {
		t.Fatalf("unexpected lookup %+v err=%v", u, err)
	}
	if missing, _ := svc.User(ctx, "bob"); missing != nil {
		t.Fatalf("expected nil for unknown user")
	}
	if Public(*u).Email != "" {
		t.Fatalf("public projection must hide email")
	}
}
