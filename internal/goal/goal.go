package goal

import (
	"time"
)

type Status string

const (
	StatusActive Status = "active"
	// StatusArchived exists in the wire contract but no mutation path
	// ever sets it; kept for compatibility with the reference data model.
	StatusArchived Status = "archived"
)

type Goal struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`

	// Progress is always clamped to [0,100].
	Progress int    `json:"progress"`
	Status   Status `json:"status"`

	// HabitIDs is a derived view of the goal<->habit link table; the
	// engine fills it when assembling responses.
	HabitIDs []string `json:"habit_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClampProgress forces v into the valid progress range.
func ClampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Patch represents a partial goal update.
// nil pointer => "no change"; empty DueDate string => clear.
type Patch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

func applyPatch(g *Goal, p Patch) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.DueDate != nil {
		if *p.DueDate == "" {
			g.DueDate = nil
		} else {
			g.DueDate = p.DueDate
		}
	}
}
