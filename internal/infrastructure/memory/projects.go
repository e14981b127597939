package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(ctx context.Context, project *entity.Project) error {
	defer r.s.lock()()
	r.s.data.projects[project.ID] = copyProject(*project)
	r.s.data.touch(project.ID)
	return nil
}

func (r *projectRepo) Update(ctx context.Context, project *entity.Project) error {
	defer r.s.lock()()
	if _, ok := r.s.data.projects[project.ID]; !ok {
		return apperror.ErrProjectNotFound
	}
	r.s.data.projects[project.ID] = copyProject(*project)
	return nil
}

func (r *projectRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	defer r.s.lock()()
	p, ok := r.s.data.projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	cp := copyProject(p)
	return &cp, nil
}

func (r *projectRepo) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error) {
	defer r.s.lock()()
	return r.collect(func(p *entity.Project) bool { return p.ClientID == clientID }), nil
}

func (r *projectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]*entity.Project, int, error) {
	defer r.s.lock()()
	all := r.collect(func(p *entity.Project) bool {
		if filter.Status != nil && p.Status != *filter.Status {
			return false
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			return false
		}
		if filter.SkillID != nil {
			found := false
			for _, s := range p.RequiredSkills {
				if s == *filter.SkillID {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	})

	total := len(all)
	if filter.Offset > 0 {
		if filter.Offset >= len(all) {
			return []*entity.Project{}, total, nil
		}
		all = all[filter.Offset:]
	}
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (r *projectRepo) collect(match func(*entity.Project) bool) []*entity.Project {
	ids := make([]uuid.UUID, 0)
	for id, p := range r.s.data.projects {
		if match(&p) {
			ids = append(ids, id)
		}
	}
	r.s.data.sortBySeq(ids)

	result := make([]*entity.Project, 0, len(ids))
	for _, id := range ids {
		cp := copyProject(r.s.data.projects[id])
		result = append(result, &cp)
	}
	return result
}
