package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
)

type EscrowRepository interface {
	Create(ctx context.Context, tx *entity.EscrowTransaction) error
	Update(ctx context.Context, tx *entity.EscrowTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.EscrowTransaction, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.EscrowTransaction, error)
	FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.EscrowTransaction, error)
}
