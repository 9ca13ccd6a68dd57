package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period            string            `json:"period"`
	EventCounts       map[EventType]int `json:"event_counts"`
	HabitCompletions  int               `json:"habit_completions"`
	HabitUncompletes  int               `json:"habit_uncompletes"`
	GoalsCompleted    int               `json:"goals_completed"`
	LevelUps          int               `json:"level_ups"`
	Achievements      int               `json:"achievements"`
	SuggestionCalls   int               `json:"suggestion_calls"`
	PointsByFrequency map[string]int    `json:"points_by_frequency"`
}

// CalculateStats aggregates events recorded since the given instant.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:            since.Format("2006-01-02"),
		EventCounts:       make(map[EventType]int),
		PointsByFrequency: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventHabitCompleted:
			stats.HabitCompletions++
			if freq, ok := metadata["frequency"].(string); ok {
				if pts, ok := metadata["points"].(float64); ok {
					stats.PointsByFrequency[freq] += int(pts)
				}
			}
		case EventHabitUncompleted:
			stats.HabitUncompletes++
		case EventGoalCompleted:
			stats.GoalsCompleted++
		case EventLevelUp:
			stats.LevelUps++
		case EventAchievementUnlocked:
			stats.Achievements++
		case EventSuggestionRequested:
			stats.SuggestionCalls++
		}
	}

	return stats, nil
}
