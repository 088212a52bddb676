// Package progress converts finished tests into experience, levels and milestones.
package progress

import (
	"sort"
	"time"

	"github.com/verte-zerg/typemaster/internal/model"
)

// Level is one row of the level table.
type Level struct {
	Level     int
	Threshold int
}

// NextLevelGap is the distance to the pseudo threshold shown past the top level.
const NextLevelGap = 100000

// Levels is the ascending level table.
var Levels = []Level{
	{Level: 1, Threshold: 0},
	{Level: 2, Threshold: 100},
	{Level: 3, Threshold: 250},
	{Level: 4, Threshold: 500},
	{Level: 5, Threshold: 1000},
	{Level: 6, Threshold: 2000},
	{Level: 7, Threshold: 4000},
	{Level: 8, Threshold: 8000},
	{Level: 9, Threshold: 16000},
	{Level: 10, Threshold: 32000},
}

// LevelForXP returns the highest level whose threshold is at most xp.
func LevelForXP(xp int) int {
	return levelIn(Levels, xp)
}

func levelIn(table []Level, xp int) int {
	i := sort.Search(len(table), func(i int) bool { return table[i].Threshold > xp })
	if i == 0 {
		return 1
	}
	return table[i-1].Level
}

// Apply folds a finished result into user and returns the updated record.
// The input is not modified.
func Apply(user model.UserRecord, result model.TestResult) model.UserRecord {
	return applyWith(Levels, user, result)
}

func applyWith(table []Level, user model.UserRecord, result model.TestResult) model.UserRecord {
	next := user
	next.XP = user.XP + max(result.XPEarned, 0)
	next.Level = levelIn(table, next.XP)
	next.TotalTests = user.TotalTests + 1
	if result.WPM > user.BestWPM {
		next.BestWPM = result.WPM
		next.BestWPMAt = result.Date
	}
	return next
}

// Progress describes how far xp is into the current level.
type Progress struct {
	Level   int `json:"level"`
	XP      int `json:"xp"`
	Current int `json:"current"`
	Next    int `json:"next"`
	Percent int `json:"percent"`
}

// LevelProgress returns the current and next thresholds for xp.
func LevelProgress(xp int) Progress {
	level := LevelForXP(xp)
	p := Progress{Level: level, XP: xp}
	for i, l := range Levels {
		if l.Level != level {
			continue
		}
		p.Current = l.Threshold
		if i+1 < len(Levels) {
			p.Next = Levels[i+1].Threshold
		} else {
			p.Next = l.Threshold + NextLevelGap
		}
		break
	}
	span := p.Next - p.Current
	if span > 0 {
		p.Percent = min(max((xp-p.Current)*100/span, 0), 100)
	}
	return p
}

// LevelUp reports whether after sits on a higher level than before.
func LevelUp(before, after model.UserRecord) bool {
	return LevelForXP(after.XP) > LevelForXP(before.XP)
}

// Summary aggregates a result history.
type Summary struct {
	Tests       int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	TotalXP     int
	Last        time.Time
}

// Summarize computes aggregates over results.
func Summarize(results []model.TestResult) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}
	var wpm, acc int
	for _, r := range results {
		wpm += r.WPM
		acc += r.Accuracy
		s.TotalXP += r.XPEarned
		s.BestWPM = max(s.BestWPM, r.WPM)
		if r.Date.After(s.Last) {
			s.Last = r.Date
		}
	}
	s.Tests = len(results)
	s.AvgWPM = float64(wpm) / float64(len(results))
	s.AvgAccuracy = float64(acc) / float64(len(results))
	return s
}
