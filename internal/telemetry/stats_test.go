package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	t.Run("RecordEvent assigns sequential ids", func(t *testing.T) {
		if err := repo.RecordEvent(ctx, EventGoalCreated, EventMetadata{"goal_id": "g1"}); err != nil {
			t.Fatalf("record: %v", err)
		}
		if err := repo.RecordEvent(ctx, EventHabitCreated, EventMetadata{"habit_id": "h1"}); err != nil {
			t.Fatalf("record: %v", err)
		}

		events, err := repo.GetEvents(ctx, time.Time{}, nil)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(events) != 2 || events[0].ID != 1 || events[1].ID != 2 {
			t.Fatalf("expected ids 1,2 got %+v", events)
		}
	})

	t.Run("GetEvents filters by type", func(t *testing.T) {
		events, err := repo.GetEvents(ctx, time.Time{}, []EventType{EventGoalCreated})
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(events) != 1 || events[0].Type != EventGoalCreated {
			t.Fatalf("expected one goal_created, got %+v", events)
		}
	})

	t.Run("GetEvents filters by time", func(t *testing.T) {
		events, err := repo.GetEvents(ctx, time.Now().Add(time.Hour), nil)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(events) != 0 {
			t.Fatalf("expected no future events, got %d", len(events))
		}
	})

	t.Run("Clear resets the log", func(t *testing.T) {
		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("clear: %v", err)
		}
		events, _ := repo.GetEvents(ctx, time.Time{}, nil)
		if len(events) != 0 {
			t.Fatalf("expected empty log, got %d", len(events))
		}
	})
}

func TestCalculateStats(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_ = repo.RecordEvent(ctx, EventGoalCreated, EventMetadata{"goal_id": "g1"})
	_ = repo.RecordEvent(ctx, EventHabitCompleted, EventMetadata{"habit_id": "h1", "frequency": "daily", "points": 10})
	_ = repo.RecordEvent(ctx, EventHabitCompleted, EventMetadata{"habit_id": "h2", "frequency": "weekly", "points": 50})
	_ = repo.RecordEvent(ctx, EventHabitUncompleted, EventMetadata{"habit_id": "h1", "frequency": "daily", "points": -10})
	_ = repo.RecordEvent(ctx, EventGoalCompleted, EventMetadata{"goal_id": "g1"})
	_ = repo.RecordEvent(ctx, EventLevelUp, EventMetadata{"from": 1, "to": 2})
	_ = repo.RecordEvent(ctx, EventAchievementUnlocked, EventMetadata{"achievement": "GOAL_CRUSHER"})
	_ = repo.RecordEvent(ctx, EventSuggestionRequested, EventMetadata{"kind": "for_goal"})

	events, err := repo.GetEvents(ctx, time.Time{}, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	stats, err := CalculateStats(events, time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.HabitCompletions != 2 {
		t.Errorf("expected 2 completions, got %d", stats.HabitCompletions)
	}
	if stats.HabitUncompletes != 1 {
		t.Errorf("expected 1 uncomplete, got %d", stats.HabitUncompletes)
	}
	if stats.GoalsCompleted != 1 {
		t.Errorf("expected 1 goal completed, got %d", stats.GoalsCompleted)
	}
	if stats.LevelUps != 1 || stats.Achievements != 1 || stats.SuggestionCalls != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.PointsByFrequency["daily"] != 10 || stats.PointsByFrequency["weekly"] != 50 {
		t.Errorf("unexpected points by frequency: %v", stats.PointsByFrequency)
	}
	if stats.EventCounts[EventGoalCreated] != 1 {
		t.Errorf("expected event_counts to include goal_created, got %v", stats.EventCounts)
	}
}
