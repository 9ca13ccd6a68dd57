package gamification

import (
	"context"
	"sync"
)

// StateRepository owns the session's gamification state.
type StateRepository interface {
	Get(ctx context.Context) (State, error)
	Update(ctx context.Context, st State) error
}

type MemoryStateRepo struct {
	mu    sync.RWMutex
	state State
}

func NewMemoryStateRepo(xpPerLevel int) *MemoryStateRepo {
	return &MemoryStateRepo{state: NewState(xpPerLevel)}
}

func (r *MemoryStateRepo) Get(ctx context.Context) (State, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	st := r.state
	st.Unlocked = append([]AchievementID{}, r.state.Unlocked...)
	return st, nil
}

func (r *MemoryStateRepo) Update(ctx context.Context, st State) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if st.Unlocked == nil {
		st.Unlocked = []AchievementID{}
	}
	r.state = st
	return nil
}
