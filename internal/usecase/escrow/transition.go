package escrow

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/notify"
)

type transitionFunc func(ctx context.Context, tx repository.Store, t *entity.EscrowTransaction) ([]effect.Notify, error)

// runner загружает транзакцию, применяет переход и сохраняет результат с уведомлениями одной единицей работы.
type runner struct {
	store    repository.Store
	notifier *notify.Dispatcher
}

func (r runner) run(ctx context.Context, transactionID, actorID uuid.UUID, apply transitionFunc) (*entity.EscrowTransaction, error) {
	var (
		result  *entity.EscrowTransaction
		created []*entity.Notification
		from    string
	)

	err := r.store.WithinTx(ctx, func(tx repository.Store) error {
		t, err := tx.Escrows().FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		from = string(t.Status)

		effects, err := apply(ctx, tx, t)
		if err != nil {
			return err
		}

		if err := tx.Escrows().Update(ctx, t); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить транзакцию")
		}

		created, err = r.notifier.Record(ctx, tx.Notifications(), effects)
		if err != nil {
			return err
		}

		result = t
		return nil
	})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"transaction_id": transactionID,
			"actor_id":       actorID,
			"error":          err.Error(),
		}).Debug("escrow: переход отклонён")
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"transaction_id": result.ID,
		"from":           from,
		"to":             result.Status,
		"actor_id":       actorID,
	}).Info("escrow: статус изменён")

	r.notifier.Publish(created)
	return result, nil
}
