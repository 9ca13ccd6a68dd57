package tracker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habitforge/internal/config"
	"habitforge/internal/gamification"
	"habitforge/internal/goal"
	"habitforge/internal/habit"
	"habitforge/internal/telemetry"
)

type Clock interface {
	Now() time.Time
}

// Engine orchestrates the goal/habit graph, the link table and the
// gamification state. Every public operation runs to completion before
// returning; the repos guard their own maps, and the engine itself
// serializes state transitions with a mutex-free single-writer pattern
// at the HTTP layer (one request mutates at a time per session).
type Engine struct {
	Goals   goal.Repository
	Habits  habit.Repository
	State   gamification.StateRepository
	Events  telemetry.Repository
	Links   *Links
	Balance config.Balance
	Clock   Clock
}

func NewEngine(goals goal.Repository, habits habit.Repository, state gamification.StateRepository, events telemetry.Repository, bal config.Balance) *Engine {
	return &Engine{
		Goals:   goals,
		Habits:  habits,
		State:   state,
		Events:  events,
		Links:   NewLinks(),
		Balance: bal,
	}
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e *Engine) record(ctx context.Context, t telemetry.EventType, md telemetry.EventMetadata) {
	if e.Events == nil {
		return
	}
	_ = e.Events.RecordEvent(ctx, t, md)
}

func (e *Engine) pointsFor(f habit.Frequency) int {
	switch f {
	case habit.FrequencyWeekly:
		return e.Balance.PointsWeekly
	case habit.FrequencyMonthly:
		return e.Balance.PointsMonthly
	default:
		return e.Balance.PointsDaily
	}
}

func (e *Engine) rules() []gamification.Rule {
	return gamification.Rules(e.Balance.StreakAchievementDays, e.Balance.ConsistencyCompletions)
}

// decorateGoal fills the derived habit_ids view.
func (e *Engine) decorateGoal(g goal.Goal) goal.Goal {
	g.HabitIDs = e.Links.HabitIDs(g.ID)
	return g
}

// decorateHabit fills the derived goal_ids view.
func (e *Engine) decorateHabit(h habit.Habit) habit.Habit {
	h.GoalIDs = e.Links.GoalIDs(h.ID)
	return h
}

// snapshot assembles the aggregate the achievement rules run against.
func (e *Engine) snapshot(ctx context.Context, level int) (gamification.Snapshot, error) {
	habits, err := e.Habits.List(ctx)
	if err != nil {
		return gamification.Snapshot{}, err
	}

	snap := gamification.Snapshot{Level: level}
	for _, h := range habits {
		snap.TotalCompletions += len(h.Completions)
		if h.CurrentStreak > snap.MaxStreak {
			snap.MaxStreak = h.CurrentStreak
		}
	}
	return snap, nil
}

// applyAndEvaluate pushes a point delta through the gamification state,
// runs the generic achievement rules against the fresh aggregate, and
// persists the result. Returns the updated state and anything newly
// unlocked.
func (e *Engine) applyAndEvaluate(ctx context.Context, delta int) (gamification.State, []gamification.Achievement, error) {
	st, err := e.State.Get(ctx)
	if err != nil {
		return gamification.State{}, nil, err
	}
	prevLevel := st.Level

	st.ApplyDelta(delta, e.Balance.XPPerLevel)

	snap, err := e.snapshot(ctx, st.Level)
	if err != nil {
		return gamification.State{}, nil, err
	}
	unlocked := gamification.Evaluate(e.rules(), snap, &st)

	if err := e.State.Update(ctx, st); err != nil {
		return gamification.State{}, nil, err
	}

	if st.Level > prevLevel {
		e.record(ctx, telemetry.EventLevelUp, telemetry.EventMetadata{
			"from": prevLevel,
			"to":   st.Level,
		})
	}
	for _, a := range unlocked {
		e.record(ctx, telemetry.EventAchievementUnlocked, telemetry.EventMetadata{
			"achievement": string(a.ID),
		})
	}

	return st, unlocked, nil
}

// --- Goal operations ---

type CreateGoalInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
}

func (e *Engine) CreateGoal(ctx context.Context, in CreateGoalInput) (goal.Goal, error) {
	g, err := e.Goals.Create(ctx, goal.Goal{
		Name:        in.Name,
		Description: in.Description,
		DueDate:     in.DueDate,
	})
	if err != nil {
		return goal.Goal{}, err
	}
	e.record(ctx, telemetry.EventGoalCreated, telemetry.EventMetadata{"goal_id": g.ID})
	return e.decorateGoal(g), nil
}

// UpdateGoal merges fields into an existing goal. Progress, status and
// links are never touched here. Unknown ids are a silent no-op.
func (e *Engine) UpdateGoal(ctx context.Context, id string, p goal.Patch) (goal.Goal, bool, error) {
	g, ok, err := e.Goals.Patch(ctx, id, p)
	if err != nil || !ok {
		return goal.Goal{}, ok, err
	}
	e.record(ctx, telemetry.EventGoalUpdated, telemetry.EventMetadata{"goal_id": id})
	return e.decorateGoal(g), true, nil
}

// DeleteGoal removes the goal and every link pointing at it. Linked
// habits survive untouched. Unknown ids are a silent no-op.
func (e *Engine) DeleteGoal(ctx context.Context, id string) (bool, error) {
	deleted, err := e.Goals.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		e.Links.UnlinkGoal(id)
		e.record(ctx, telemetry.EventGoalDeleted, telemetry.EventMetadata{"goal_id": id})
	}
	return deleted, nil
}

type SetProgressResult struct {
	Goal         goal.Goal                  `json:"goal"`
	Found        bool                       `json:"-"`
	CompletedNow bool                       `json:"completed_now"`
	Gamification *gamification.State        `json:"gamification,omitempty"`
	Unlocked     []gamification.Achievement `json:"unlocked_achievements,omitempty"`
}

// SetGoalProgress clamps the value into [0,100] and detects the
// <100 -> >=100 crossing. Crossing awards the goal-completion bonus
// exactly once per crossing; re-setting 100 on an already-complete
// goal awards nothing.
func (e *Engine) SetGoalProgress(ctx context.Context, id string, value int) (SetProgressResult, error) {
	g, ok, err := e.Goals.Get(ctx, id)
	if err != nil {
		return SetProgressResult{}, err
	}
	if !ok {
		return SetProgressResult{Found: false}, nil
	}

	clamped := goal.ClampProgress(value)
	crossed := g.Progress < 100 && clamped >= 100

	g.Progress = clamped
	g, err = e.Goals.Update(ctx, g)
	if err != nil {
		return SetProgressResult{}, err
	}

	res := SetProgressResult{Goal: e.decorateGoal(g), Found: true, CompletedNow: crossed}
	if !crossed {
		return res, nil
	}

	e.record(ctx, telemetry.EventGoalCompleted, telemetry.EventMetadata{"goal_id": id})

	// The bonus feeds points and experience exactly like a habit delta
	// and can roll multiple levels in one call.
	st, unlocked, err := e.applyGoalBonus(ctx)
	if err != nil {
		return SetProgressResult{}, err
	}
	res.Gamification = &st
	res.Unlocked = unlocked
	return res, nil
}

// applyGoalBonus awards the fixed goal-completion bonus. GOAL_CRUSHER
// is edge-triggered here rather than in the generic rule table, the
// same special case the reference app makes.
func (e *Engine) applyGoalBonus(ctx context.Context) (gamification.State, []gamification.Achievement, error) {
	st, err := e.State.Get(ctx)
	if err != nil {
		return gamification.State{}, nil, err
	}
	prevLevel := st.Level

	st.ApplyDelta(e.Balance.GoalCompletionBonus, e.Balance.XPPerLevel)

	var unlocked []gamification.Achievement
	if st.Unlock(gamification.GoalCrusher) {
		if a, ok := gamification.ByID(gamification.GoalCrusher); ok {
			unlocked = append(unlocked, a)
		}
	}

	snap, err := e.snapshot(ctx, st.Level)
	if err != nil {
		return gamification.State{}, nil, err
	}
	unlocked = append(unlocked, gamification.Evaluate(e.rules(), snap, &st)...)

	if err := e.State.Update(ctx, st); err != nil {
		return gamification.State{}, nil, err
	}

	if st.Level > prevLevel {
		e.record(ctx, telemetry.EventLevelUp, telemetry.EventMetadata{
			"from": prevLevel,
			"to":   st.Level,
		})
	}
	for _, a := range unlocked {
		e.record(ctx, telemetry.EventAchievementUnlocked, telemetry.EventMetadata{
			"achievement": string(a.ID),
		})
	}

	return st, unlocked, nil
}

// --- Habit operations ---

type CreateHabitInput struct {
	Name      string          `json:"name"`
	Frequency habit.Frequency `json:"frequency"`
	GoalIDs   []string        `json:"goal_ids,omitempty"`
}

// CreateHabit creates the habit and mirrors the link for every goal id
// that actually exists; unknown ids are silently ignored.
func (e *Engine) CreateHabit(ctx context.Context, in CreateHabitInput) (habit.Habit, error) {
	h, err := e.Habits.Create(ctx, habit.Habit{
		Name:      in.Name,
		Frequency: in.Frequency,
	})
	if err != nil {
		return habit.Habit{}, err
	}

	for _, gid := range in.GoalIDs {
		_, ok, err := e.Goals.Get(ctx, gid)
		if err != nil {
			return habit.Habit{}, err
		}
		if ok {
			e.Links.Link(gid, h.ID)
		}
	}

	e.record(ctx, telemetry.EventHabitCreated, telemetry.EventMetadata{"habit_id": h.ID})
	return e.decorateHabit(h), nil
}

// UpdateHabit merges fields. Link mirroring is create-only: a goal_ids
// value in the patch is ignored here, matching the reference contract.
func (e *Engine) UpdateHabit(ctx context.Context, id string, p habit.Patch) (habit.Habit, bool, error) {
	h, ok, err := e.Habits.Patch(ctx, id, p)
	if err != nil || !ok {
		return habit.Habit{}, ok, err
	}
	e.record(ctx, telemetry.EventHabitUpdated, telemetry.EventMetadata{"habit_id": id})
	return e.decorateHabit(h), true, nil
}

// DeleteHabit removes the habit and every link pointing at it. Linked
// goals survive untouched. Unknown ids are a silent no-op.
func (e *Engine) DeleteHabit(ctx context.Context, id string) (bool, error) {
	deleted, err := e.Habits.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		e.Links.UnlinkHabit(id)
		e.record(ctx, telemetry.EventHabitDeleted, telemetry.EventMetadata{"habit_id": id})
	}
	return deleted, nil
}

type ToggleResult struct {
	Habit        habit.Habit                `json:"habit"`
	Found        bool                       `json:"-"`
	Added        bool                       `json:"added"`
	PointsDelta  int                        `json:"points_delta"`
	Gamification gamification.State         `json:"gamification"`
	Unlocked     []gamification.Achievement `json:"unlocked_achievements,omitempty"`
}

// ToggleCompletion flips the completion for the habit on at's calendar
// day: existing completion comes out (negative delta), otherwise a new
// record stamped with the exact instant goes in (positive delta). The
// cached streak is recomputed synchronously, then the delta runs
// through the gamification state and the achievement rules.
func (e *Engine) ToggleCompletion(ctx context.Context, habitID string, at time.Time) (ToggleResult, error) {
	h, ok, err := e.Habits.Get(ctx, habitID)
	if err != nil {
		return ToggleResult{}, err
	}
	if !ok {
		return ToggleResult{Found: false}, nil
	}
	if at.IsZero() {
		at = e.now()
	}

	pts := e.pointsFor(h.Frequency)
	var (
		added bool
		delta int
	)
	if idx := h.CompletionOn(at); idx >= 0 {
		h.Completions = append(h.Completions[:idx], h.Completions[idx+1:]...)
		delta = -pts
	} else {
		h.Completions = append(h.Completions, habit.Completion{
			ID:          uuid.NewString(),
			HabitID:     h.ID,
			CompletedAt: at,
		})
		added = true
		delta = pts
	}

	h.RecalcStreak()
	h, err = e.Habits.Update(ctx, h)
	if err != nil {
		return ToggleResult{}, err
	}

	if added {
		e.record(ctx, telemetry.EventHabitCompleted, telemetry.EventMetadata{
			"habit_id":  h.ID,
			"frequency": string(h.Frequency),
			"points":    pts,
		})
	} else {
		e.record(ctx, telemetry.EventHabitUncompleted, telemetry.EventMetadata{
			"habit_id":  h.ID,
			"frequency": string(h.Frequency),
			"points":    -pts,
		})
	}

	st, unlocked, err := e.applyAndEvaluate(ctx, delta)
	if err != nil {
		return ToggleResult{}, err
	}

	return ToggleResult{
		Habit:        e.decorateHabit(h),
		Found:        true,
		Added:        added,
		PointsDelta:  delta,
		Gamification: st,
		Unlocked:     unlocked,
	}, nil
}

// --- Reads ---

func (e *Engine) Goal(ctx context.Context, id string) (goal.Goal, bool, error) {
	g, ok, err := e.Goals.Get(ctx, id)
	if err != nil || !ok {
		return goal.Goal{}, ok, err
	}
	return e.decorateGoal(g), true, nil
}

func (e *Engine) ListGoals(ctx context.Context) ([]goal.Goal, error) {
	gs, err := e.Goals.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range gs {
		gs[i] = e.decorateGoal(gs[i])
	}
	return gs, nil
}

func (e *Engine) Habit(ctx context.Context, id string) (habit.Habit, bool, error) {
	h, ok, err := e.Habits.Get(ctx, id)
	if err != nil || !ok {
		return habit.Habit{}, ok, err
	}
	return e.decorateHabit(h), true, nil
}

func (e *Engine) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	hs, err := e.Habits.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range hs {
		hs[i] = e.decorateHabit(hs[i])
	}
	return hs, nil
}

func (e *Engine) Gamification(ctx context.Context) (gamification.State, error) {
	return e.State.Get(ctx)
}
