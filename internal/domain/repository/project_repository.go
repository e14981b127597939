package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

type ProjectFilter struct {
	Status     *valueobject.ProjectStatus
	CategoryID *uuid.UUID
	SkillID    *uuid.UUID
	Limit      int
	Offset     int
}

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error)
	// List возвращает проекты в порядке создания и общее количество.
	List(ctx context.Context, filter ProjectFilter) ([]*entity.Project, int, error)
}
