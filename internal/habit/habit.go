package habit

import (
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Completion is one checked-off day for a habit. At most one exists per
// habit per calendar day; the exact instant is kept for display.
type Completion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	CompletedAt time.Time `json:"completion_date"`
}

// DayKey buckets an instant into its UTC calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type Habit struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Frequency   Frequency    `json:"frequency"`
	IsActive    bool         `json:"is_active"`
	Completions []Completion `json:"completions"`

	// GoalIDs is a derived view of the goal<->habit link table; the
	// engine fills it when assembling responses. The repo never stores it.
	GoalIDs []string `json:"goal_ids"`

	// CurrentStreak caches Streak(Frequency, Completions). It is
	// recomputed after every ledger mutation and never set directly.
	CurrentStreak int `json:"current_streak"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompletionOn returns the index of the completion on the same UTC
// calendar day as at, or -1.
func (h *Habit) CompletionOn(at time.Time) int {
	key := DayKey(at)
	for i, c := range h.Completions {
		if DayKey(c.CompletedAt) == key {
			return i
		}
	}
	return -1
}

// CompletedOn reports whether the habit was completed on at's day.
func (h *Habit) CompletedOn(at time.Time) bool {
	return h.CompletionOn(at) >= 0
}

// RecalcStreak refreshes the cached streak from the ledger.
func (h *Habit) RecalcStreak() {
	h.CurrentStreak = Streak(h.Frequency, h.Completions)
}

// Patch represents a partial habit update.
// nil pointer => "no change"
type Patch struct {
	Name      *string    `json:"name,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`

	// GoalIDs is accepted on the wire but link mirroring only happens on
	// create; the engine decides what to do with it.
	GoalIDs *[]string `json:"goal_ids,omitempty"`
}

func applyPatch(h *Habit, p Patch) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Frequency != nil && p.Frequency.Valid() {
		h.Frequency = *p.Frequency
		// Cadence changes can invalidate the cached streak.
		h.RecalcStreak()
	}
	if p.IsActive != nil {
		h.IsActive = *p.IsActive
	}
}
