package goal

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("goal not found")

type Repository interface {
	Create(ctx context.Context, g Goal) (Goal, error)
	Get(ctx context.Context, id string) (Goal, bool, error)
	List(ctx context.Context) ([]Goal, error)
	Update(ctx context.Context, g Goal) (Goal, error)
	Patch(ctx context.Context, id string, p Patch) (Goal, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
