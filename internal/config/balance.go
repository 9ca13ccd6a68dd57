package config

// Balance holds the gamification tuning knobs.
type Balance struct {
	// Completion points per habit cadence
	PointsDaily   int `yaml:"points_daily" json:"points_daily"`
	PointsWeekly  int `yaml:"points_weekly" json:"points_weekly"`
	PointsMonthly int `yaml:"points_monthly" json:"points_monthly"`

	// One-time award when a goal first reaches 100%
	GoalCompletionBonus int `yaml:"goal_completion_bonus" json:"goal_completion_bonus"`

	// Next-level threshold is level * XPPerLevel
	XPPerLevel int `yaml:"xp_per_level" json:"xp_per_level"`

	// Achievement thresholds
	StreakAchievementDays  int `yaml:"streak_achievement_days" json:"streak_achievement_days"`
	ConsistencyCompletions int `yaml:"consistency_completions" json:"consistency_completions"`
}

// DefaultBalance mirrors the reference application's constants.
// Rewards scale with how hard the cadence is to maintain.
func DefaultBalance() Balance {
	return Balance{
		PointsDaily:            10,
		PointsWeekly:           50,
		PointsMonthly:          150,
		GoalCompletionBonus:    250,
		XPPerLevel:             100,
		StreakAchievementDays:  5,
		ConsistencyCompletions: 10,
	}
}

// ApplyDefaults fills each unset knob individually, so a config file
// tuning one value does not zero the rest. XPPerLevel in particular
// must never stay 0: the level rollover would not terminate.
func (b *Balance) ApplyDefaults() {
	def := DefaultBalance()
	if b.PointsDaily == 0 {
		b.PointsDaily = def.PointsDaily
	}
	if b.PointsWeekly == 0 {
		b.PointsWeekly = def.PointsWeekly
	}
	if b.PointsMonthly == 0 {
		b.PointsMonthly = def.PointsMonthly
	}
	if b.GoalCompletionBonus == 0 {
		b.GoalCompletionBonus = def.GoalCompletionBonus
	}
	if b.XPPerLevel == 0 {
		b.XPPerLevel = def.XPPerLevel
	}
	if b.StreakAchievementDays == 0 {
		b.StreakAchievementDays = def.StreakAchievementDays
	}
	if b.ConsistencyCompletions == 0 {
		b.ConsistencyCompletions = def.ConsistencyCompletions
	}
}
