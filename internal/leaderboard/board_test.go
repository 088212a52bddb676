package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

func entry(id string, wpm int) model.LeaderboardEntry {
	return model.LeaderboardEntry{UserID: id, Username: id, WPM: wpm}
}

func ids(entries []model.LeaderboardEntry) string {
	out := ""
	for _, e := range entries {
		out += fmt.Sprintf("%s:%d ", e.UserID, e.WPM)
	}
	return out
}

func TestUpsertReplacesAndResorts(t *testing.T) {
	b := New([]model.LeaderboardEntry{entry("u1", 120), entry("u2", 90)}, 0)
	b.Upsert(entry("u1", 80))
	got := b.Entries()
	if len(got) != 2 || got[0].UserID != "u2" || got[1].UserID != "u1" || got[1].WPM != 80 {
		t.Fatalf("unexpected board %s", ids(got))
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	b := New(nil, 0)
	e := entry("u1", 70)
	b.Upsert(e)
	b.Upsert(e)
	if b.Len() != 1 {
		t.Fatalf("expected one entry, got %s", ids(b.Entries()))
	}
}

func TestUpsertInvariants(t *testing.T) {
	b := New(nil, 0)
	for i := 0; i < 200; i++ {
		b.Upsert(entry(fmt.Sprintf("u%d", i%73), (i*37)%150))
	}
	got := b.Entries()
	if len(got) > MaxEntries {
		t.Fatalf("board exceeds %d entries: %d", MaxEntries, len(got))
	}
	seen := map[string]bool{}
	for i, e := range got {
		if seen[e.UserID] {
			t.Fatalf("duplicate user %s", e.UserID)
		}
		seen[e.UserID] = true
		if i > 0 && got[i-1].WPM < e.WPM {
			t.Fatalf("board not sorted at %d: %s", i, ids(got))
		}
	}
}

func TestTieBreakEarliestAchievement(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	b := New(nil, 0)
	b.Upsert(model.LeaderboardEntry{UserID: "b", WPM: 90, AchievedAt: late})
	b.Upsert(model.LeaderboardEntry{UserID: "a", WPM: 90, AchievedAt: early})
	b.Upsert(model.LeaderboardEntry{UserID: "c", WPM: 90})
	got := b.Entries()
	if got[0].UserID != "a" || got[1].UserID != "b" || got[2].UserID != "c" {
		t.Fatalf("unexpected tie order %s", ids(got))
	}
}

func TestCustomSize(t *testing.T) {
	b := New(nil, 2)
	b.Upsert(entry("a", 10))
	b.Upsert(entry("b", 30))
	b.Upsert(entry("c", 20))
	if b.Len() != 2 || b.RankOf("a") != 0 || b.RankOf("b") != 1 {
		t.Fatalf("unexpected board %s", ids(b.Entries()))
	}
}

func TestTop(t *testing.T) {
	b := New(Seed(), 0)
	top := b.Top(2)
	if len(top) != 2 || top[0].Rank != 1 || top[0].Username != "SpeedDemon" || top[1].Rank != 2 {
		t.Fatalf("unexpected top %+v", top)
	}
	if len(b.Top(0)) != 3 || len(b.Top(10)) != 3 {
		t.Fatalf("top must clamp to board length")
	}
}

func TestFind(t *testing.T) {
	b := New(Seed(), 0)
	found := b.Find("ninja")
	if len(found) != 1 || found[0].Username != "TypingNinja" || found[0].Rank != 2 {
		t.Fatalf("unexpected matches %+v", found)
	}
	if len(b.Find("")) != 3 {
		t.Fatalf("empty query must return the whole board")
	}
	if len(b.Find("zzzz")) != 0 {
		t.Fatalf("expected no matches")
	}
}
