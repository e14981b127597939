package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type GetProjectUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewGetProjectUseCase(projectRepo repository.ProjectRepository) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: projectRepo}
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, projectID uuid.UUID) (*entity.Project, error) {
	return uc.projectRepo.FindByID(ctx, projectID)
}

type ListOpenProjectsInput struct {
	CategoryID *uuid.UUID
	SkillID    *uuid.UUID
	Limit      int
	Offset     int
}

// ProjectSummary проект для списков: с именем клиента, категорией и числом откликов.
type ProjectSummary struct {
	Project       *entity.Project
	ClientName    string
	CategoryName  string
	ProposalCount int
}

// summarize дополняет проекты данными клиента, категории и откликов.
// Имена кешируются на время вызова, пропавший клиент или категория дают пустое имя.
func summarize(ctx context.Context, store repository.Store, projects []*entity.Project, withCounts bool) ([]*ProjectSummary, error) {
	clients := make(map[uuid.UUID]string)
	categories := make(map[uuid.UUID]string)

	result := make([]*ProjectSummary, 0, len(projects))
	for _, p := range projects {
		item := &ProjectSummary{Project: p}

		name, ok := clients[p.ClientID]
		if !ok {
			if user, err := store.Users().FindByID(ctx, p.ClientID); err == nil {
				name = user.Name
			}
			clients[p.ClientID] = name
		}
		item.ClientName = name

		if p.CategoryID != nil {
			name, ok := categories[*p.CategoryID]
			if !ok {
				if category, err := store.Catalog().FindCategoryByID(ctx, *p.CategoryID); err == nil {
					name = category.Name
				}
				categories[*p.CategoryID] = name
			}
			item.CategoryName = name
		}

		if withCounts {
			proposals, err := store.Proposals().FindByProjectID(ctx, p.ID)
			if err != nil {
				return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать предложения")
			}
			item.ProposalCount = len(proposals)
		}
		result = append(result, item)
	}
	return result, nil
}

type ListOpenProjectsUseCase struct {
	store repository.Store
}

func NewListOpenProjectsUseCase(store repository.Store) *ListOpenProjectsUseCase {
	return &ListOpenProjectsUseCase{store: store}
}

func (uc *ListOpenProjectsUseCase) Execute(ctx context.Context, input ListOpenProjectsInput) ([]*ProjectSummary, int, error) {
	if input.Limit <= 0 {
		input.Limit = defaultLimit
	}
	if input.Limit > maxLimit {
		input.Limit = maxLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	status := valueobject.ProjectStatusOpen
	projects, total, err := uc.store.Projects().List(ctx, repository.ProjectFilter{
		Status:     &status,
		CategoryID: input.CategoryID,
		SkillID:    input.SkillID,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проекты")
	}

	summaries, err := summarize(ctx, uc.store, projects, true)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

type ListClientProjectsUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewListClientProjectsUseCase(projectRepo repository.ProjectRepository) *ListClientProjectsUseCase {
	return &ListClientProjectsUseCase{projectRepo: projectRepo}
}

func (uc *ListClientProjectsUseCase) Execute(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error) {
	projects, err := uc.projectRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проекты")
	}
	return projects, nil
}

// ListFreelancerProjectsUseCase проекты, в которых предложение фрилансера принято.
type ListFreelancerProjectsUseCase struct {
	store repository.Store
}

func NewListFreelancerProjectsUseCase(store repository.Store) *ListFreelancerProjectsUseCase {
	return &ListFreelancerProjectsUseCase{store: store}
}

func (uc *ListFreelancerProjectsUseCase) Execute(ctx context.Context, freelancerID uuid.UUID) ([]*ProjectSummary, error) {
	proposals, err := uc.store.Proposals().FindByFreelancerID(ctx, freelancerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}

	projects := make([]*entity.Project, 0, len(proposals))
	for _, p := range proposals {
		if !p.IsAccepted() {
			continue
		}
		project, err := uc.store.Projects().FindByID(ctx, p.ProjectID)
		if err != nil {
			if apperror.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		projects = append(projects, project)
	}

	return summarize(ctx, uc.store, projects, false)
}
