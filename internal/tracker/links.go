package tracker

import (
	"sort"
	"sync"
)

type linkKey struct {
	goalID  string
	habitID string
}

// Links is the goal<->habit relation table. Storing the pairs once,
// instead of redundant id lists on both entities, makes the symmetry
// invariant hold by construction; both adjacency views are derived.
type Links struct {
	mu    sync.RWMutex
	pairs map[linkKey]struct{}
}

func NewLinks() *Links {
	return &Links{pairs: make(map[linkKey]struct{})}
}

func (l *Links) Link(goalID, habitID string) {
	if goalID == "" || habitID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pairs[linkKey{goalID, habitID}] = struct{}{}
}

func (l *Links) Unlink(goalID, habitID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pairs, linkKey{goalID, habitID})
}

// UnlinkGoal drops every pair referencing the goal. Linked habits
// survive; only the association goes away.
func (l *Links) UnlinkGoal(goalID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.pairs {
		if k.goalID == goalID {
			delete(l.pairs, k)
		}
	}
}

// UnlinkHabit drops every pair referencing the habit.
func (l *Links) UnlinkHabit(habitID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.pairs {
		if k.habitID == habitID {
			delete(l.pairs, k)
		}
	}
}

func (l *Links) Linked(goalID, habitID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.pairs[linkKey{goalID, habitID}]
	return ok
}

// HabitIDs returns the habit side of the relation for a goal, sorted
// for stable output.
func (l *Links) HabitIDs(goalID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []string{}
	for k := range l.pairs {
		if k.goalID == goalID {
			out = append(out, k.habitID)
		}
	}
	sort.Strings(out)
	return out
}

// GoalIDs returns the goal side of the relation for a habit, sorted.
func (l *Links) GoalIDs(habitID string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []string{}
	for k := range l.pairs {
		if k.habitID == habitID {
			out = append(out, k.goalID)
		}
	}
	sort.Strings(out)
	return out
}
