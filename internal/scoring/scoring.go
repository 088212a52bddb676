// Package scoring computes typing speed and accuracy.
package scoring

import (
	"math"

	"github.com/verte-zerg/typemaster/internal/model"
)

const (
	// MinElapsedSeconds floors the time base of every WPM computation.
	MinElapsedSeconds = 0.001
	// MinLiveElapsedSeconds is the floor used for live readings near test start.
	MinLiveElapsedSeconds = 0.5
)

// Score holds the metrics of typed input against a reference passage.
type Score struct {
	WPM      int
	Accuracy int
	Mistakes int
	Correct  int
}

// Compute scores typed against reference over elapsedSeconds. It is pure and
// recomputes everything from scratch on every call.
func Compute(typed, reference []rune, elapsedSeconds float64) Score {
	correct := CountCorrect(typed, reference)
	return Score{
		WPM:      WPM(len(typed), elapsedSeconds),
		Accuracy: Accuracy(correct, len(typed)),
		Mistakes: len(typed) - correct,
		Correct:  correct,
	}
}

// ComputeText is Compute over strings, compared by character.
func ComputeText(typed, reference string, elapsedSeconds float64) Score {
	return Compute([]rune(typed), []rune(reference), elapsedSeconds)
}

// CountCorrect counts positions where typed matches reference. Positions
// past the end of reference never match.
func CountCorrect(typed, reference []rune) int {
	correct := 0
	for i, r := range typed {
		if i < len(reference) && r == reference[i] {
			correct++
		}
	}
	return correct
}

// WPM converts a character count over elapsedSeconds into words per minute.
func WPM(chars int, elapsedSeconds float64) int {
	if !(elapsedSeconds >= MinElapsedSeconds) {
		elapsedSeconds = MinElapsedSeconds
	}
	words := float64(chars) / model.WordSize
	minutes := elapsedSeconds / 60
	return round(words / minutes)
}

// Accuracy returns the percentage of correct characters, 0 to 100.
func Accuracy(correct, typed int) int {
	if typed < 1 {
		typed = 1
	}
	return round(float64(correct) / float64(typed) * 100)
}

// LiveElapsed clamps an in-progress elapsed time so the first keystrokes do
// not produce absurd readings.
func LiveElapsed(elapsedSeconds float64) float64 {
	if !(elapsedSeconds >= MinLiveElapsedSeconds) {
		return MinLiveElapsedSeconds
	}
	return elapsedSeconds
}

// XPEarned is the experience awarded for a finished test.
func XPEarned(wpm, accuracy int) int {
	xp := round(float64(wpm*accuracy) / 10)
	if xp < 0 {
		return 0
	}
	return xp
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
