package gamification

import "slices"

// State is the per-session gamification snapshot. It is passed through
// transition functions explicitly; nothing in this package holds it as
// a global.
type State struct {
	Level  int `json:"level"`
	Points int `json:"points"`

	// Experience is progress toward the next level, always in
	// [0, ExperienceToNextLevel). Unlike Points it is floored at zero
	// when an un-completion pulls it negative.
	Experience            int `json:"experience"`
	ExperienceToNextLevel int `json:"experience_to_next_level"`

	// Unlocked grows append-only within a session.
	Unlocked []AchievementID `json:"unlocked_achievements"`
}

func NewState(xpPerLevel int) State {
	return State{
		Level:                 1,
		ExperienceToNextLevel: xpPerLevel,
		Unlocked:              []AchievementID{},
	}
}

// ApplyDelta feeds a point delta through both ledgers and rolls levels
// forward. Points are not floored; experience is. The loop absorbs
// multi-level jumps from a single large delta. Levels never go down.
func (s *State) ApplyDelta(delta, xpPerLevel int) {
	s.Points += delta

	s.Experience += delta
	if s.Experience < 0 {
		s.Experience = 0
	}

	// xpPerLevel <= 0 would make the rollover spin forever; leveling is
	// simply off in that case.
	for xpPerLevel > 0 && s.Experience >= s.ExperienceToNextLevel {
		s.Experience -= s.ExperienceToNextLevel
		s.Level++
		s.ExperienceToNextLevel = s.Level * xpPerLevel
	}
}

func (s *State) Has(id AchievementID) bool {
	return slices.Contains(s.Unlocked, id)
}

// Unlock records an achievement and reports whether it was new.
// Achievements are never revoked once unlocked.
func (s *State) Unlock(id AchievementID) bool {
	if s.Has(id) {
		return false
	}
	s.Unlocked = append(s.Unlocked, id)
	return true
}
