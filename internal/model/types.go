// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// WordSize is the number of characters counted as one word for WPM.
const WordSize = 5

// ModeKind identifies the kind of typing test.
type ModeKind string

const (
	// ModeQuote ends when the whole passage has been typed.
	ModeQuote ModeKind = "text"
	// ModeTimed ends when the countdown reaches zero.
	ModeTimed ModeKind = "time"
)

// TimedDurations lists the supported countdown lengths in seconds.
var TimedDurations = []int{60, 120, 300}

// Mode is a test mode. Duration is only meaningful for ModeTimed.
type Mode struct {
	Kind     ModeKind
	Duration int
}

// QuoteMode returns the fixed-passage mode.
func QuoteMode() Mode {
	return Mode{Kind: ModeQuote}
}

// TimedMode returns a countdown mode of the given length.
func TimedMode(seconds int) Mode {
	return Mode{Kind: ModeTimed, Duration: seconds}
}

// IsTimed reports whether the mode is a countdown.
func (m Mode) IsTimed() bool {
	return m.Kind == ModeTimed
}

func (m Mode) String() string {
	if m.IsTimed() {
		return fmt.Sprintf("%ds", m.Duration)
	}
	return "quote"
}

// State is the lifecycle state of a typing session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Config defines practice settings.
type Config struct {
	Mode     Mode
	UseAI    bool
	Words    int
	Corpus   string
	WordList string
}

// TestResult is the immutable outcome of one finished session.
type TestResult struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	WPM      int       `json:"wpm"`
	Accuracy int       `json:"accuracy"`
	Mistakes int       `json:"mistakes"`
	Date     time.Time `json:"date"`
	XPEarned int       `json:"xpEarned"`
	Mode     ModeKind  `json:"mode"`
	Duration int       `json:"duration,omitempty"`
}

// UserRecord is the durable profile of a registered user.
type UserRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Level        int       `json:"level"`
	XP           int       `json:"xp"`
	TotalTests   int       `json:"totalTests"`
	BestWPM      int       `json:"bestWpm"`
	BestWPMAt    time.Time `json:"bestWpmAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LeaderboardEntry is the public projection of a user's best score.
type LeaderboardEntry struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar"`
	WPM        int       `json:"wpm"`
	Level      int       `json:"level"`
	XP         int       `json:"xp"`
	AchievedAt time.Time `json:"achievedAt"`
}

// EntryFor projects a user record onto the leaderboard.
func EntryFor(user UserRecord) LeaderboardEntry {
	return LeaderboardEntry{
		UserID:     user.ID,
		Username:   user.Username,
		Avatar:     user.Avatar,
		WPM:        user.BestWPM,
		Level:      user.Level,
		XP:         user.XP,
		AchievedAt: user.BestWPMAt,
	}
}

// Milestone is a catalogue achievement. Exactly one requirement is set.
type Milestone struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	RequiredTests int    `json:"requiredTests,omitempty"`
	RequiredWPM   int    `json:"requiredWpm,omitempty"`
}
