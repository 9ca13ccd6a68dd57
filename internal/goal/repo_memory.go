package goal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	goals map[string]Goal
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{goals: make(map[string]Goal)}
}

func normalize(g *Goal) {
	if g.HabitIDs == nil {
		g.HabitIDs = []string{}
	}
}

func (r *MemoryRepo) Create(ctx context.Context, g Goal) (Goal, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.Progress = 0
	g.Status = StatusActive
	g.HabitIDs = nil
	g.CreatedAt = now
	g.UpdatedAt = now
	normalize(&g)

	r.goals[g.ID] = g
	return g, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Goal, bool, error) {
	_ = ctx

	r.mu.RLock()
	g, ok := r.goals[id]
	r.mu.RUnlock()

	if ok {
		normalize(&g)
	}
	return g, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Goal, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Goal, 0, len(r.goals))
	for _, g := range r.goals {
		normalize(&g)
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, g Goal) (Goal, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goals[g.ID]; !ok {
		return Goal{}, ErrNotFound
	}
	g.Progress = ClampProgress(g.Progress)
	g.UpdatedAt = time.Now()
	normalize(&g)
	r.goals[g.ID] = g
	return g, nil
}

func (r *MemoryRepo) Patch(ctx context.Context, id string, p Patch) (Goal, bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.goals[id]
	if !ok {
		return Goal{}, false, nil
	}
	applyPatch(&g, p)
	g.UpdatedAt = time.Now()
	normalize(&g)
	r.goals[id] = g
	return g, true, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goals[id]; !ok {
		return false, nil
	}
	delete(r.goals, id)
	return true, nil
}
