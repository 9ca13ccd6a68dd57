package gamification

type AchievementID string

const (
	FirstHabit         AchievementID = "FIRST_HABIT"
	TenHabitsCompleted AchievementID = "TEN_HABITS_COMPLETED"
	FiveDayStreak      AchievementID = "FIVE_DAY_STREAK"
	GoalCrusher        AchievementID = "GOAL_CRUSHER"
	LevelTwo           AchievementID = "LEVEL_TWO"
)

type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
}

var All = []Achievement{
	{
		ID:          FirstHabit,
		Name:        "First Step",
		Description: "Complete a habit for the first time.",
		Icon:        "star",
	},
	{
		ID:          TenHabitsCompleted,
		Name:        "Consistency Is Key",
		Description: "Complete 10 habit check-ins in total.",
		Icon:        "star",
	},
	{
		ID:          FiveDayStreak,
		Name:        "On Fire!",
		Description: "Keep a 5-day streak on any daily habit.",
		Icon:        "flame",
	},
	{
		ID:          GoalCrusher,
		Name:        "Goal Crusher",
		Description: "Finish a goal (100% progress).",
		Icon:        "trophy",
	},
	{
		ID:          LevelTwo,
		Name:        "Leveling Up",
		Description: "Reach level 2.",
		Icon:        "plus-circle",
	},
}

func ByID(id AchievementID) (Achievement, bool) {
	for _, a := range All {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Snapshot is the aggregate the generic rules are evaluated against.
type Snapshot struct {
	TotalCompletions int
	MaxStreak        int
	Level            int
}

// Rule is a pure predicate over the aggregate snapshot.
type Rule struct {
	ID  AchievementID
	Met func(Snapshot) bool
}

// Rules builds the generic rule table. GOAL_CRUSHER is deliberately
// absent: it fires edge-triggered at the goal-progress call site, the
// same special case the reference app makes.
func Rules(streakDays, consistencyCompletions int) []Rule {
	return []Rule{
		{ID: FirstHabit, Met: func(s Snapshot) bool { return s.TotalCompletions >= 1 }},
		{ID: TenHabitsCompleted, Met: func(s Snapshot) bool { return s.TotalCompletions >= consistencyCompletions }},
		{ID: FiveDayStreak, Met: func(s Snapshot) bool { return s.MaxStreak >= streakDays }},
		{ID: LevelTwo, Met: func(s Snapshot) bool { return s.Level >= 2 }},
	}
}

// Evaluate runs every rule against the snapshot and unlocks whatever
// newly qualifies. Re-running with no new qualifiers emits nothing.
func Evaluate(rules []Rule, snap Snapshot, st *State) []Achievement {
	var unlocked []Achievement
	for _, r := range rules {
		if !r.Met(snap) {
			continue
		}
		if !st.Unlock(r.ID) {
			continue
		}
		if a, ok := ByID(r.ID); ok {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}
