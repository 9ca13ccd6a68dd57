package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDelta_SingleLevelUp(t *testing.T) {
	st := NewState(100)

	st.ApplyDelta(250, 100)

	assert.Equal(t, 2, st.Level)
	assert.Equal(t, 250, st.Points)
	assert.Equal(t, 150, st.Experience)
	assert.Equal(t, 200, st.ExperienceToNextLevel)
}

func TestApplyDelta_MultiLevelJump(t *testing.T) {
	st := NewState(100)

	// 100 + 200 + 300 = 600 exhausts exactly three thresholds.
	st.ApplyDelta(600, 100)

	assert.Equal(t, 4, st.Level)
	assert.Equal(t, 0, st.Experience)
	assert.Equal(t, 400, st.ExperienceToNextLevel)
}

func TestApplyDelta_NegativeFloorsExperienceNotPoints(t *testing.T) {
	st := NewState(100)
	st.ApplyDelta(30, 100)

	st.ApplyDelta(-50, 100)

	assert.Equal(t, -20, st.Points)
	assert.Equal(t, 0, st.Experience)
	assert.Equal(t, 1, st.Level)
}

func TestApplyDelta_LevelsNeverGoDown(t *testing.T) {
	st := NewState(100)
	st.ApplyDelta(250, 100)

	st.ApplyDelta(-250, 100)

	assert.Equal(t, 2, st.Level)
	assert.Equal(t, 0, st.Experience)
	assert.Equal(t, 0, st.Points)
}

func TestApplyDelta_ZeroXPPerLevelDisablesLeveling(t *testing.T) {
	st := NewState(0)

	// Must return: a zero threshold cannot be allowed to spin the
	// rollover loop forever.
	st.ApplyDelta(20, 0)

	assert.Equal(t, 1, st.Level)
	assert.Equal(t, 20, st.Points)
	assert.Equal(t, 20, st.Experience)
}

func TestUnlock(t *testing.T) {
	st := NewState(100)

	assert.True(t, st.Unlock(FirstHabit))
	assert.False(t, st.Unlock(FirstHabit), "re-unlocking must be a no-op")
	assert.True(t, st.Has(FirstHabit))
	assert.Len(t, st.Unlocked, 1)
}
