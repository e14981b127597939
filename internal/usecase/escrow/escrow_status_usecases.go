package escrow

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/notify"
	"github.com/ignatzorin/fairlance-backend/internal/validation"
)

type FundEscrowUseCase struct {
	runner runner
}

func NewFundEscrowUseCase(store repository.Store, notifier *notify.Dispatcher) *FundEscrowUseCase {
	return &FundEscrowUseCase{runner: runner{store: store, notifier: notifier}}
}

func (uc *FundEscrowUseCase) Execute(ctx context.Context, transactionID, clientID uuid.UUID) (*entity.EscrowTransaction, error) {
	return uc.runner.run(ctx, transactionID, clientID, func(_ context.Context, _ repository.Store, t *entity.EscrowTransaction) ([]effect.Notify, error) {
		return t.Fund(clientID)
	})
}

type ReleaseEscrowUseCase struct {
	runner runner
}

func NewReleaseEscrowUseCase(store repository.Store, notifier *notify.Dispatcher) *ReleaseEscrowUseCase {
	return &ReleaseEscrowUseCase{runner: runner{store: store, notifier: notifier}}
}

func (uc *ReleaseEscrowUseCase) Execute(ctx context.Context, transactionID, clientID uuid.UUID) (*entity.EscrowTransaction, error) {
	return uc.runner.run(ctx, transactionID, clientID, func(_ context.Context, _ repository.Store, t *entity.EscrowTransaction) ([]effect.Notify, error) {
		return t.Release(clientID)
	})
}

type DisputeEscrowUseCase struct {
	runner runner
}

func NewDisputeEscrowUseCase(store repository.Store, notifier *notify.Dispatcher) *DisputeEscrowUseCase {
	return &DisputeEscrowUseCase{runner: runner{store: store, notifier: notifier}}
}

func (uc *DisputeEscrowUseCase) Execute(ctx context.Context, transactionID, userID uuid.UUID, reason string) (*entity.EscrowTransaction, error) {
	if err := validation.ValidateDisputeReason(reason); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	return uc.runner.run(ctx, transactionID, userID, func(_ context.Context, _ repository.Store, t *entity.EscrowTransaction) ([]effect.Notify, error) {
		return t.Dispute(userID, reason)
	})
}

type RefundEscrowUseCase struct {
	runner runner
}

func NewRefundEscrowUseCase(store repository.Store, notifier *notify.Dispatcher) *RefundEscrowUseCase {
	return &RefundEscrowUseCase{runner: runner{store: store, notifier: notifier}}
}

// Execute роль администратора проверяется по записи пользователя, а не по токену.
func (uc *RefundEscrowUseCase) Execute(ctx context.Context, transactionID, adminID uuid.UUID) (*entity.EscrowTransaction, error) {
	return uc.runner.run(ctx, transactionID, adminID, func(ctx context.Context, tx repository.Store, t *entity.EscrowTransaction) ([]effect.Notify, error) {
		admin, err := tx.Users().FindByID(ctx, adminID)
		if err != nil {
			return nil, err
		}
		return t.Refund(admin)
	})
}
