package escrow

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type CreateEscrowInput struct {
	ProjectID    uuid.UUID
	ClientID     uuid.UUID
	FreelancerID *uuid.UUID
	Amount       float64
	Currency     string
	Description  string
}

type CreateEscrowUseCase struct {
	store repository.Store
}

func NewCreateEscrowUseCase(store repository.Store) *CreateEscrowUseCase {
	return &CreateEscrowUseCase{store: store}
}

// Execute создаёт транзакцию в статусе pending и связывает её с проектом.
// При любой ошибке ничего не записывается.
func (uc *CreateEscrowUseCase) Execute(ctx context.Context, input CreateEscrowInput) (*entity.EscrowTransaction, error) {
	var created *entity.EscrowTransaction

	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		client, err := tx.Users().FindByID(ctx, input.ClientID)
		if err != nil {
			return err
		}
		if !client.HasRole(valueobject.RoleClient) {
			return apperror.New(apperror.ErrCodeForbidden, "создать транзакцию может только клиент")
		}

		project, err := tx.Projects().FindByID(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if !project.IsOwnedBy(client.ID) {
			return apperror.New(apperror.ErrCodeForbidden, "клиент не является владельцем проекта")
		}

		amount, err := valueobject.MoneyFromDecimal(input.Amount, input.Currency)
		if err != nil {
			return err
		}

		if input.FreelancerID != nil {
			freelancer, err := tx.Users().FindByID(ctx, *input.FreelancerID)
			if err != nil {
				return err
			}
			if !freelancer.HasRole(valueobject.RoleFreelancer) {
				return apperror.New(apperror.ErrCodeValidation, "указанный пользователь не фрилансер")
			}
		}

		transaction, err := entity.NewEscrowTransaction(project.ID, client.ID, input.FreelancerID, amount, input.Description)
		if err != nil {
			return err
		}
		if err := project.LinkEscrow(transaction.ID); err != nil {
			return err
		}

		if err := tx.Escrows().Create(ctx, transaction); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать транзакцию")
		}
		if err := tx.Projects().Update(ctx, project); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить проект")
		}

		created = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"transaction_id": created.ID,
		"project_id":     created.ProjectID,
		"amount":         created.Amount.String(),
	}).Info("escrow: транзакция создана")

	return created, nil
}
