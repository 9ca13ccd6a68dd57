package goal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-5))
	assert.Equal(t, 0, ClampProgress(0))
	assert.Equal(t, 42, ClampProgress(42))
	assert.Equal(t, 100, ClampProgress(100))
	assert.Equal(t, 100, ClampProgress(150))
}

func TestApplyPatch(t *testing.T) {
	due := "2026-12-31"
	g := Goal{Name: "Old", Description: "desc", DueDate: &due}

	name := "New"
	applyPatch(&g, Patch{Name: &name})
	assert.Equal(t, "New", g.Name)
	assert.Equal(t, "desc", g.Description, "unset fields stay put")

	empty := ""
	applyPatch(&g, Patch{DueDate: &empty})
	assert.Nil(t, g.DueDate, "empty due date clears it")
}

func TestMemoryRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	t.Run("Create forces fresh progress and status", func(t *testing.T) {
		g, err := repo.Create(ctx, Goal{Name: "Ship", Progress: 80, Status: StatusArchived})
		assert.NoError(t, err)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, 0, g.Progress)
		assert.Equal(t, StatusActive, g.Status)
	})

	t.Run("Update clamps progress", func(t *testing.T) {
		g, _ := repo.Create(ctx, Goal{Name: "Clamp"})
		g.Progress = 400

		g, err := repo.Update(ctx, g)
		assert.NoError(t, err)
		assert.Equal(t, 100, g.Progress)
	})

	t.Run("Delete unknown id is not an error", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, "ghost")
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}
