package habit

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("habit not found")

type Repository interface {
	Create(ctx context.Context, h Habit) (Habit, error)
	Get(ctx context.Context, id string) (Habit, bool, error)
	List(ctx context.Context) ([]Habit, error)
	Update(ctx context.Context, h Habit) (Habit, error)
	Patch(ctx context.Context, id string, p Patch) (Habit, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
