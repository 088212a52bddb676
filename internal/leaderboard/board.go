// Package leaderboard keeps the ranked list of each user's best speed.
package leaderboard

import (
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/verte-zerg/typemaster/internal/model"
)

// MaxEntries is the default board size.
const MaxEntries = 50

// Board is an ordered leaderboard holding at most one entry per user.
// The zero value is an empty board of MaxEntries.
type Board struct {
	entries []model.LeaderboardEntry
	size    int
}

// New returns a board over entries, normalised to the ranking order.
func New(entries []model.LeaderboardEntry, size int) *Board {
	b := &Board{size: size}
	for _, e := range entries {
		b.Upsert(e)
	}
	return b
}

// Upsert replaces the entry of the same user, re-sorts and truncates.
func (b *Board) Upsert(entry model.LeaderboardEntry) {
	kept := b.entries[:0:0]
	for _, e := range b.entries {
		if e.UserID != entry.UserID {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)
	sort.SliceStable(kept, func(i, j int) bool {
		return less(kept[i], kept[j])
	})
	if limit := b.limit(); len(kept) > limit {
		kept = kept[:limit]
	}
	b.entries = kept
}

// less orders by speed, then by who reached it first, then by user id.
func less(a, b model.LeaderboardEntry) bool {
	if a.WPM != b.WPM {
		return a.WPM > b.WPM
	}
	if !a.AchievedAt.Equal(b.AchievedAt) {
		if a.AchievedAt.IsZero() {
			return false
		}
		if b.AchievedAt.IsZero() {
			return true
		}
		return a.AchievedAt.Before(b.AchievedAt)
	}
	return a.UserID < b.UserID
}

func (b *Board) limit() int {
	if b.size <= 0 {
		return MaxEntries
	}
	return b.size
}

// Entries returns a copy of the ranked entries.
func (b *Board) Entries() []model.LeaderboardEntry {
	out := make([]model.LeaderboardEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries.
func (b *Board) Len() int {
	return len(b.entries)
}

// Ranked is an entry with its 1-based position.
type Ranked struct {
	Rank int `json:"rank"`
	model.LeaderboardEntry
}

// Top returns the first n entries; n <= 0 returns all of them.
func (b *Board) Top(n int) []Ranked {
	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	out := make([]Ranked, n)
	for i := 0; i < n; i++ {
		out[i] = Ranked{Rank: i + 1, LeaderboardEntry: b.entries[i]}
	}
	return out
}

// RankOf returns the position of userID, or 0 when absent.
func (b *Board) RankOf(userID string) int {
	for i, e := range b.entries {
		if e.UserID == userID {
			return i + 1
		}
	}
	return 0
}

type usernames []model.LeaderboardEntry

func (u usernames) Len() int {
	return len(u)
}

func (u usernames) String(i int) string {
	return strings.ToLower(u[i].Username)
}

// Find fuzzy-matches query against usernames. Results keep their board rank
// and are ordered by match quality. An empty query returns the whole board.
func (b *Board) Find(query string) []Ranked {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return b.Top(0)
	}
	matches := fuzzy.FindFrom(query, usernames(b.entries))
	out := make([]Ranked, 0, len(matches))
	for _, m := range matches {
		out = append(out, Ranked{Rank: m.Index + 1, LeaderboardEntry: b.entries[m.Index]})
	}
	return out
}

// Seed is the placeholder board shown before any real result is recorded.
func Seed() []model.LeaderboardEntry {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.LeaderboardEntry{
		{UserID: "1", Username: "SpeedDemon", Avatar: avatarURL("SpeedDemon", "red"), WPM: 120, Level: 8, XP: 9000, AchievedAt: at},
		{UserID: "2", Username: "TypingNinja", Avatar: avatarURL("TypingNinja", "blue"), WPM: 115, Level: 7, XP: 7500, AchievedAt: at},
		{UserID: "3", Username: "KeyboardWarrior", Avatar: avatarURL("KW", "green"), WPM: 105, Level: 6, XP: 6200, AchievedAt: at},
	}
}

func avatarURL(name, background string) string {
	return "https://ui-avatars.com/api/?name=" + name + "&background=" + background
}
