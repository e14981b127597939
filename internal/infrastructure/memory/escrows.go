package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type escrowRepo struct{ s *Store }

func (r *escrowRepo) Create(ctx context.Context, tx *entity.EscrowTransaction) error {
	defer r.s.lock()()
	r.s.data.escrows[tx.ID] = copyEscrow(*tx)
	r.s.data.touch(tx.ID)
	return nil
}

func (r *escrowRepo) Update(ctx context.Context, tx *entity.EscrowTransaction) error {
	defer r.s.lock()()
	if _, ok := r.s.data.escrows[tx.ID]; !ok {
		return apperror.ErrTransactionNotFound
	}
	r.s.data.escrows[tx.ID] = copyEscrow(*tx)
	return nil
}

func (r *escrowRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.EscrowTransaction, error) {
	defer r.s.lock()()
	t, ok := r.s.data.escrows[id]
	if !ok {
		return nil, apperror.ErrTransactionNotFound
	}
	cp := copyEscrow(t)
	return &cp, nil
}

func (r *escrowRepo) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.EscrowTransaction, error) {
	defer r.s.lock()()
	return r.collect(func(t *entity.EscrowTransaction) bool { return t.ClientID == clientID }), nil
}

func (r *escrowRepo) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.EscrowTransaction, error) {
	defer r.s.lock()()
	return r.collect(func(t *entity.EscrowTransaction) bool { return t.IsFreelancer(freelancerID) }), nil
}

func (r *escrowRepo) collect(match func(*entity.EscrowTransaction) bool) []*entity.EscrowTransaction {
	ids := make([]uuid.UUID, 0)
	for id, t := range r.s.data.escrows {
		if match(&t) {
			ids = append(ids, id)
		}
	}
	r.s.data.sortBySeq(ids)

	result := make([]*entity.EscrowTransaction, 0, len(ids))
	for _, id := range ids {
		cp := copyEscrow(r.s.data.escrows[id])
		result = append(result, &cp)
	}
	return result
}
