package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
)

type ProposalRepository interface {
	Create(ctx context.Context, proposal *entity.Proposal) error
	Update(ctx context.Context, proposal *entity.Proposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*entity.Proposal, error)
	FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Proposal, error)
	// FindByProjectAndFreelancer возвращает nil, nil если предложения нет.
	FindByProjectAndFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (*entity.Proposal, error)
}
