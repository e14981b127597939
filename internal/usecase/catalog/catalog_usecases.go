package catalog

import (
	"context"
	"strings"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type ListCategoriesUseCase struct {
	repo repository.CatalogRepository
}

func NewListCategoriesUseCase(repo repository.CatalogRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{repo: repo}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]*entity.Category, error) {
	categories, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить категории")
	}
	return categories, nil
}

type ListSkillsUseCase struct {
	repo repository.CatalogRepository
}

func NewListSkillsUseCase(repo repository.CatalogRepository) *ListSkillsUseCase {
	return &ListSkillsUseCase{repo: repo}
}

// Execute category фильтрует по названию категории навыка, пустая строка означает все.
func (uc *ListSkillsUseCase) Execute(ctx context.Context, category string) ([]*entity.Skill, error) {
	skills, err := uc.repo.ListSkills(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить навыки")
	}
	if category == "" {
		return skills, nil
	}

	filtered := make([]*entity.Skill, 0, len(skills))
	for _, s := range skills {
		if strings.EqualFold(s.Category, category) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}
