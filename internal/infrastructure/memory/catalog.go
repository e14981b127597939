package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type catalogRepo struct{ s *Store }

func (r *catalogRepo) CreateCategory(ctx context.Context, category *entity.Category) error {
	defer r.s.lock()()
	r.s.data.categories[category.ID] = *category
	r.s.data.touch(category.ID)
	return nil
}

func (r *catalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	defer r.s.lock()()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, apperror.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	defer r.s.lock()()
	ids := make([]uuid.UUID, 0, len(r.s.data.categories))
	for id := range r.s.data.categories {
		ids = append(ids, id)
	}
	r.s.data.sortBySeq(ids)

	result := make([]*entity.Category, 0, len(ids))
	for _, id := range ids {
		c := r.s.data.categories[id]
		result = append(result, &c)
	}
	return result, nil
}

func (r *catalogRepo) IncrementProjectCount(ctx context.Context, categoryID uuid.UUID) error {
	defer r.s.lock()()
	c, ok := r.s.data.categories[categoryID]
	if !ok {
		return apperror.ErrCategoryNotFound
	}
	c.ProjectCount++
	r.s.data.categories[categoryID] = c
	return nil
}

func (r *catalogRepo) CreateSkill(ctx context.Context, skill *entity.Skill) error {
	defer r.s.lock()()
	r.s.data.skills[skill.ID] = *skill
	r.s.data.touch(skill.ID)
	return nil
}

func (r *catalogRepo) ListSkills(ctx context.Context) ([]*entity.Skill, error) {
	defer r.s.lock()()
	ids := make([]uuid.UUID, 0, len(r.s.data.skills))
	for id := range r.s.data.skills {
		ids = append(ids, id)
	}
	r.s.data.sortBySeq(ids)

	result := make([]*entity.Skill, 0, len(ids))
	for _, id := range ids {
		s := r.s.data.skills[id]
		result = append(result, &s)
	}
	return result, nil
}

func (r *catalogRepo) FindSkillByName(ctx context.Context, name string) (*entity.Skill, error) {
	defer r.s.lock()()
	for _, s := range r.s.data.skills {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}
