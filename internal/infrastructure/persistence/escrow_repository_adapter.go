package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

const escrowColumns = `id, project_id, client_id, freelancer_id, amount, currency, status,
	platform_fee_rate, description, dispute_reason, created_at, updated_at, released_at`

type EscrowRepositoryAdapter struct {
	q queryer
}

func NewEscrowRepositoryAdapter(q queryer) *EscrowRepositoryAdapter {
	return &EscrowRepositoryAdapter{q: q}
}

func (r *EscrowRepositoryAdapter) Create(ctx context.Context, t *entity.EscrowTransaction) error {
	query := r.q.Rebind(`INSERT INTO escrow_transactions (` + escrowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		t.ID, t.ProjectID, t.ClientID, t.FreelancerID, t.Amount.Minor, t.Amount.Currency, string(t.Status),
		t.PlatformFeeRate, t.Description, t.DisputeReason, t.CreatedAt, t.UpdatedAt, t.ReleasedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать транзакцию")
	}
	return nil
}

// Update сохраняет изменяемые поля. Сумма и стороны после создания не меняются,
// кроме однократного назначения фрилансера.
func (r *EscrowRepositoryAdapter) Update(ctx context.Context, t *entity.EscrowTransaction) error {
	query := r.q.Rebind(`
		UPDATE escrow_transactions SET freelancer_id = ?, status = ?, dispute_reason = ?,
			updated_at = ?, released_at = ?
		WHERE id = ?
	`)
	res, err := r.q.ExecContext(ctx, query,
		t.FreelancerID, string(t.Status), t.DisputeReason, t.UpdatedAt, t.ReleasedAt, t.ID,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить транзакцию")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrTransactionNotFound
	}
	return nil
}

func (r *EscrowRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.EscrowTransaction, error) {
	var row escrowRow
	query := r.q.Rebind(`SELECT ` + escrowColumns + ` FROM escrow_transactions WHERE id = ?`)
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить транзакцию")
	}
	return row.toEntity(), nil
}

func (r *EscrowRepositoryAdapter) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.EscrowTransaction, error) {
	return r.selectWhere(ctx, `client_id = ?`, clientID)
}

func (r *EscrowRepositoryAdapter) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.EscrowTransaction, error) {
	return r.selectWhere(ctx, `freelancer_id = ?`, freelancerID)
}

func (r *EscrowRepositoryAdapter) selectWhere(ctx context.Context, where string, args ...interface{}) ([]*entity.EscrowTransaction, error) {
	var rows []escrowRow
	query := r.q.Rebind(`SELECT ` + escrowColumns + ` FROM escrow_transactions WHERE ` + where + ` ORDER BY seq`)
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить транзакции")
	}
	result := make([]*entity.EscrowTransaction, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type escrowRow struct {
	ID              uuid.UUID  `db:"id"`
	ProjectID       uuid.UUID  `db:"project_id"`
	ClientID        uuid.UUID  `db:"client_id"`
	FreelancerID    *uuid.UUID `db:"freelancer_id"`
	Amount          int64      `db:"amount"`
	Currency        string     `db:"currency"`
	Status          string     `db:"status"`
	PlatformFeeRate float64    `db:"platform_fee_rate"`
	Description     string     `db:"description"`
	DisputeReason   *string    `db:"dispute_reason"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	ReleasedAt      *time.Time `db:"released_at"`
}

func (t *escrowRow) toEntity() *entity.EscrowTransaction {
	return &entity.EscrowTransaction{
		ID:              t.ID,
		ProjectID:       t.ProjectID,
		ClientID:        t.ClientID,
		FreelancerID:    t.FreelancerID,
		Amount:          valueobject.Money{Minor: t.Amount, Currency: t.Currency},
		Status:          valueobject.EscrowStatus(t.Status),
		PlatformFeeRate: t.PlatformFeeRate,
		Description:     t.Description,
		DisputeReason:   t.DisputeReason,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		ReleasedAt:      t.ReleasedAt,
	}
}
