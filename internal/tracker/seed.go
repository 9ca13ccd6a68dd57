package tracker

import (
	"context"

	"github.com/google/uuid"

	"habitforge/internal/goal"
	"habitforge/internal/habit"
)

// Seed loads the starter dataset: two goals, three habits, a couple of
// pre-existing completions. It writes through the repos directly so the
// historical completions do not award points; the gamification state
// starts fresh at level 1.
func (e *Engine) Seed(ctx context.Context) error {
	now := e.now()
	due1 := "2026-12-31"
	due2 := "2026-10-30"

	learn, err := e.Goals.Create(ctx, goal.Goal{
		Name:        "Learn Go Testing",
		Description: "Get comfortable with the testing package and testify.",
		DueDate:     &due1,
	})
	if err != nil {
		return err
	}
	run, err := e.Goals.Create(ctx, goal.Goal{
		Name:        "Run a 5k",
		Description: "Train for and finish a 5k race.",
		DueDate:     &due2,
	})
	if err != nil {
		return err
	}

	learn.Progress = 25
	if _, err := e.Goals.Update(ctx, learn); err != nil {
		return err
	}
	run.Progress = 60
	if _, err := e.Goals.Update(ctx, run); err != nil {
		return err
	}

	code, err := e.Habits.Create(ctx, habit.Habit{Name: "Code for 30 minutes", Frequency: habit.FrequencyDaily})
	if err != nil {
		return err
	}
	docs, err := e.Habits.Create(ctx, habit.Habit{Name: "Read testing docs", Frequency: habit.FrequencyWeekly})
	if err != nil {
		return err
	}
	jog, err := e.Habits.Create(ctx, habit.Habit{Name: "Morning run", Frequency: habit.FrequencyDaily})
	if err != nil {
		return err
	}

	e.Links.Link(learn.ID, code.ID)
	e.Links.Link(learn.ID, docs.ID)
	e.Links.Link(run.ID, jog.ID)

	// One check-in yesterday for coding, one today for running.
	code.Completions = append(code.Completions, habit.Completion{
		ID:          uuid.NewString(),
		HabitID:     code.ID,
		CompletedAt: now.AddDate(0, 0, -1),
	})
	code.RecalcStreak()
	if _, err := e.Habits.Update(ctx, code); err != nil {
		return err
	}

	jog.Completions = append(jog.Completions, habit.Completion{
		ID:          uuid.NewString(),
		HabitID:     jog.ID,
		CompletedAt: now,
	})
	jog.RecalcStreak()
	if _, err := e.Habits.Update(ctx, jog); err != nil {
		return err
	}

	return nil
}
