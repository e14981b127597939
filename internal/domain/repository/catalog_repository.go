package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
)

type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *entity.Category) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	IncrementProjectCount(ctx context.Context, categoryID uuid.UUID) error
	CreateSkill(ctx context.Context, skill *entity.Skill) error
	ListSkills(ctx context.Context) ([]*entity.Skill, error)
	// FindSkillByName ищет навык без учёта регистра, nil, nil если не найден.
	FindSkillByName(ctx context.Context, name string) (*entity.Skill, error)
}
