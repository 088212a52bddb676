package progress

import (
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

func TestLevelForXPTable(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{-5, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{31999, 9},
		{32000, 10},
		{1 << 30, 10},
	}
	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.want {
			t.Fatalf("LevelForXP(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 40000; xp += 7 {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased at xp %d: %d < %d", xp, level, prev)
		}
		prev = level
	}
}

func TestApplyCrossesThreshold(t *testing.T) {
	table := []Level{{1, 0}, {2, 100}, {3, 250}}
	user := model.UserRecord{ID: "u", XP: 90, Level: 1}
	next := applyWith(table, user, model.TestResult{XPEarned: 15})
	if next.XP != 105 || next.Level != 2 {
		t.Fatalf("expected xp 105 level 2, got %d/%d", next.XP, next.Level)
	}
	if user.XP != 90 {
		t.Fatalf("input record must not be modified")
	}
}

func TestApplyDeterministicAndBestNeverDecreases(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	user := model.UserRecord{ID: "u", XP: 400, Level: 3, TotalTests: 4, BestWPM: 70}
	result := model.TestResult{WPM: 50, Accuracy: 90, XPEarned: 45, Date: date}

	a := Apply(user, result)
	b := Apply(user, result)
	if a != b {
		t.Fatalf("apply is not deterministic: %+v vs %+v", a, b)
	}
	if a.BestWPM != 70 || !a.BestWPMAt.IsZero() {
		t.Fatalf("best wpm must not decrease, got %+v", a)
	}
	if a.TotalTests != 5 || a.XP != 445 || a.Level != LevelForXP(445) {
		t.Fatalf("unexpected record %+v", a)
	}

	faster := Apply(a, model.TestResult{WPM: 81, XPEarned: 80, Date: date})
	if faster.BestWPM != 81 || !faster.BestWPMAt.Equal(date) {
		t.Fatalf("expected new best with timestamp, got %+v", faster)
	}
}

func TestLevelProgress(t *testing.T) {
	p := LevelProgress(175)
	if p.Level != 2 || p.Current != 100 || p.Next != 250 || p.Percent != 50 {
		t.Fatalf("unexpected progress %+v", p)
	}
	top := LevelProgress(32000)
	if top.Level != 10 || top.Next != 32000+NextLevelGap || top.Percent != 0 {
		t.Fatalf("unexpected top progress %+v", top)
	}
	over := LevelProgress(500000)
	if over.Percent != 100 {
		t.Fatalf("percent must clamp to 100, got %d", over.Percent)
	}
}

func TestMilestones(t *testing.T) {
	user := model.UserRecord{TotalTests: 25, BestWPM: 65}
	unlocked := Unlocked(user)
	ids := map[string]bool{}
	for _, m := range unlocked {
		ids[m.ID] = true
	}
	for _, want := range []string{"bronze", "silver", "speed-40", "speed-60"} {
		if !ids[want] {
			t.Fatalf("expected %s unlocked, got %v", want, ids)
		}
	}
	if ids["gold"] || ids["speed-80"] {
		t.Fatalf("unexpected unlocks %v", ids)
	}
	status := Status(user)
	if len(status) != len(Milestones) {
		t.Fatalf("status must list every milestone")
	}

	before := model.UserRecord{TotalTests: 4, BestWPM: 39}
	after := model.UserRecord{TotalTests: 5, BestWPM: 40}
	fresh := NewlyUnlocked(before, after)
	if len(fresh) != 2 || fresh[0].ID != "bronze" || fresh[1].ID != "speed-40" {
		t.Fatalf("unexpected new milestones %+v", fresh)
	}
}

func TestLevelUp(t *testing.T) {
	if !LevelUp(model.UserRecord{XP: 90}, model.UserRecord{XP: 105}) {
		t.Fatalf("expected level up")
	}
	if LevelUp(model.UserRecord{XP: 105}, model.UserRecord{XP: 200}) {
		t.Fatalf("unexpected level up")
	}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s := Summarize([]model.TestResult{
		{WPM: 60, Accuracy: 90, XPEarned: 54, Date: day.Add(time.Hour)},
		{WPM: 40, Accuracy: 100, XPEarned: 40, Date: day},
	})
	if s.Tests != 2 || s.AvgWPM != 50 || s.BestWPM != 60 || s.AvgAccuracy != 95 || s.TotalXP != 94 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if !s.Last.Equal(day.Add(time.Hour)) {
		t.Fatalf("unexpected last %s", s.Last)
	}
	if Summarize(nil).Tests != 0 {
		t.Fatalf("empty summary must be zero")
	}
}
