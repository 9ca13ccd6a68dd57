package habit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	habits map[string]Habit
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{habits: make(map[string]Habit)}
}

func normalize(h *Habit) {
	if h.Completions == nil {
		h.Completions = []Completion{}
	}
	if h.GoalIDs == nil {
		h.GoalIDs = []string{}
	}
}

// clone detaches the completion ledger from the stored value, so
// callers mutating the returned slice cannot corrupt the repo copy.
func clone(h Habit) Habit {
	h.Completions = append([]Completion{}, h.Completions...)
	normalize(&h)
	return h
}

func (r *MemoryRepo) Create(ctx context.Context, h Habit) (Habit, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if !h.Frequency.Valid() {
		h.Frequency = FrequencyDaily
	}
	h.IsActive = true
	h.Completions = nil
	h.GoalIDs = nil
	h.CurrentStreak = 0
	h.CreatedAt = now
	h.UpdatedAt = now
	normalize(&h)

	r.habits[h.ID] = h
	return h, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Habit, bool, error) {
	_ = ctx

	r.mu.RLock()
	h, ok := r.habits[id]
	r.mu.RUnlock()

	if ok {
		h = clone(h)
	}
	return h, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Habit, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Habit, 0, len(r.habits))
	for _, h := range r.habits {
		out = append(out, clone(h))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, h Habit) (Habit, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.habits[h.ID]; !ok {
		return Habit{}, ErrNotFound
	}
	h.UpdatedAt = time.Now()
	normalize(&h)
	r.habits[h.ID] = h
	return h, nil
}

func (r *MemoryRepo) Patch(ctx context.Context, id string, p Patch) (Habit, bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.habits[id]
	if !ok {
		return Habit{}, false, nil
	}
	applyPatch(&h, p)
	h.UpdatedAt = time.Now()
	normalize(&h)
	r.habits[id] = h
	return h, true, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.habits[id]; !ok {
		return false, nil
	}
	delete(r.habits, id)
	return true, nil
}
