package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/notify"
)

type AcceptProposalUseCase struct {
	store    repository.Store
	notifier *notify.Dispatcher
}

func NewAcceptProposalUseCase(store repository.Store, notifier *notify.Dispatcher) *AcceptProposalUseCase {
	return &AcceptProposalUseCase{store: store, notifier: notifier}
}

// Execute принимает предложение, переводит проект в работу, назначает фрилансера
// в escrow-транзакции и отклоняет остальные ожидающие предложения. Всё или ничего.
func (uc *AcceptProposalUseCase) Execute(ctx context.Context, proposalID, clientID uuid.UUID) (*entity.Proposal, error) {
	var (
		accepted *entity.Proposal
		rejected int
		created  []*entity.Notification
	)

	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		proposal, err := tx.Proposals().FindByID(ctx, proposalID)
		if err != nil {
			return err
		}
		project, err := tx.Projects().FindByID(ctx, proposal.ProjectID)
		if err != nil {
			return err
		}
		if !project.IsOwnedBy(clientID) {
			return apperror.New(apperror.ErrCodeForbidden, "принять предложение может только владелец проекта")
		}

		if err := proposal.Accept(); err != nil {
			return err
		}
		if err := project.StartWork(); err != nil {
			return err
		}

		if project.EscrowTransactionID != nil {
			transaction, err := tx.Escrows().FindByID(ctx, *project.EscrowTransactionID)
			if err != nil {
				return err
			}
			if err := transaction.AssignFreelancer(proposal.FreelancerID); err != nil {
				return err
			}
			if err := tx.Escrows().Update(ctx, transaction); err != nil {
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить транзакцию")
			}
		}

		if err := tx.Proposals().Update(ctx, proposal); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
		}
		if err := tx.Projects().Update(ctx, project); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить проект")
		}

		siblings, err := tx.Proposals().FindByProjectID(ctx, project.ID)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
		}

		effects := make([]effect.Notify, 0, len(siblings))
		for _, other := range siblings {
			if other.ID == proposal.ID || !other.IsPending() {
				continue
			}
			if err := other.Reject(); err != nil {
				return err
			}
			if err := tx.Proposals().Update(ctx, other); err != nil {
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
			}
			effects = append(effects, effect.NotifyAbout(other.FreelancerID, valueobject.NotificationProposalRejected,
				"Предложение отклонено",
				"Клиент выбрал другого исполнителя для проекта.",
				project.ID))
			rejected++
		}
		effects = append(effects, effect.NotifyAbout(proposal.FreelancerID, valueobject.NotificationProposalAccepted,
			"Предложение принято",
			"Клиент принял ваше предложение. Можно приступать к работе.",
			project.ID))

		created, err = uc.notifier.Record(ctx, tx.Notifications(), effects)
		if err != nil {
			return err
		}

		accepted = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"proposal_id": accepted.ID,
		"project_id":  accepted.ProjectID,
		"rejected":    rejected,
		"actor_id":    clientID,
	}).Info("proposal: предложение принято")

	uc.notifier.Publish(created)
	return accepted, nil
}

type WithdrawProposalUseCase struct {
	store repository.Store
}

func NewWithdrawProposalUseCase(store repository.Store) *WithdrawProposalUseCase {
	return &WithdrawProposalUseCase{store: store}
}

func (uc *WithdrawProposalUseCase) Execute(ctx context.Context, proposalID, freelancerID uuid.UUID) (*entity.Proposal, error) {
	var withdrawn *entity.Proposal

	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		proposal, err := tx.Proposals().FindByID(ctx, proposalID)
		if err != nil {
			return err
		}
		if !proposal.IsOwnedBy(freelancerID) {
			return apperror.New(apperror.ErrCodeForbidden, "отозвать предложение может только его автор")
		}
		if err := proposal.Withdraw(); err != nil {
			return err
		}
		if err := tx.Proposals().Update(ctx, proposal); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
		}
		withdrawn = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdrawn, nil
}
