package telemetry

import "time"

type EventType string

const (
	EventGoalCreated         EventType = "goal_created"
	EventGoalUpdated         EventType = "goal_updated"
	EventGoalDeleted         EventType = "goal_deleted"
	EventGoalCompleted       EventType = "goal_completed"
	EventHabitCreated        EventType = "habit_created"
	EventHabitUpdated        EventType = "habit_updated"
	EventHabitDeleted        EventType = "habit_deleted"
	EventHabitCompleted      EventType = "habit_completed"
	EventHabitUncompleted    EventType = "habit_uncompleted"
	EventLevelUp             EventType = "level_up"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventSuggestionRequested EventType = "suggestion_requested"
	EventQuoteServed         EventType = "quote_served"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
