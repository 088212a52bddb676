package progress

import "github.com/verte-zerg/typemaster/internal/model"

// Milestones is the achievement catalogue.
var Milestones = []model.Milestone{
	{ID: "bronze", Name: "Novice Typist", Description: "Complete 5 typing tests", RequiredTests: 5},
	{ID: "silver", Name: "Dedicated Typist", Description: "Complete 25 typing tests", RequiredTests: 25},
	{ID: "gold", Name: "Master Typist", Description: "Complete 50 typing tests", RequiredTests: 50},
	{ID: "platinum", Name: "Keyboard Legend", Description: "Complete 100 typing tests", RequiredTests: 100},
	{ID: "speed-40", Name: "Cruising Speed", Description: "Reach 40 WPM", RequiredWPM: 40},
	{ID: "speed-60", Name: "Rapid Typer", Description: "Reach 60 WPM", RequiredWPM: 60},
	{ID: "speed-80", Name: "Lightning Fingers", Description: "Reach 80 WPM", RequiredWPM: 80},
	{ID: "speed-100", Name: "Grandmaster Speed", Description: "Reach 100 WPM", RequiredWPM: 100},
}

// MilestoneStatus pairs a milestone with its unlock state for a user.
type MilestoneStatus struct {
	model.Milestone
	Unlocked bool `json:"unlocked"`
}

// Reached reports whether user satisfies m.
func Reached(m model.Milestone, user model.UserRecord) bool {
	if m.RequiredTests > 0 {
		return user.TotalTests >= m.RequiredTests
	}
	if m.RequiredWPM > 0 {
		return user.BestWPM >= m.RequiredWPM
	}
	return false
}

// Unlocked returns the milestones user has reached, in catalogue order.
func Unlocked(user model.UserRecord) []model.Milestone {
	var out []model.Milestone
	for _, m := range Milestones {
		if Reached(m, user) {
			out = append(out, m)
		}
	}
	return out
}

// Status returns every milestone with its unlock state.
func Status(user model.UserRecord) []MilestoneStatus {
	out := make([]MilestoneStatus, 0, len(Milestones))
	for _, m := range Milestones {
		out = append(out, MilestoneStatus{Milestone: m, Unlocked: Reached(m, user)})
	}
	return out
}

// NewlyUnlocked returns milestones reached by after but not by before.
func NewlyUnlocked(before, after model.UserRecord) []model.Milestone {
	var out []model.Milestone
	for _, m := range Milestones {
		if Reached(m, after) && !Reached(m, before) {
			out = append(out, m)
		}
	}
	return out
}
