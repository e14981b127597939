package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/catalog"
)

func TestListSkills_FilterByCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	for _, s := range []struct{ name, category string }{
		{"Go", "Backend"}, {"React", "Frontend"}, {"PostgreSQL", "backend"},
	} {
		skill, err := entity.NewSkill(s.name, s.category, "")
		require.NoError(t, err)
		require.NoError(t, store.Catalog().CreateSkill(ctx, skill))
	}

	uc := catalog.NewListSkillsUseCase(store.Catalog())

	all, err := uc.Execute(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	backend, err := uc.Execute(ctx, "backend")
	require.NoError(t, err)
	require.Len(t, backend, 2)
	assert.Equal(t, "Go", backend[0].Name)
	assert.Equal(t, "PostgreSQL", backend[1].Name)
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	c, err := entity.NewCategory("Дизайн", "", "brush", "#ff0")
	require.NoError(t, err)
	require.NoError(t, store.Catalog().CreateCategory(ctx, c))

	categories, err := catalog.NewListCategoriesUseCase(store.Catalog()).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Дизайн", categories[0].Name)
}
