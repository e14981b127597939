// Package notify сохраняет уведомления вместе с изменением состояния
// и публикует их подписчикам после фиксации транзакции.
package notify

import (
	"context"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// Publisher доставляет уведомление в реальном времени (websocket hub).
type Publisher interface {
	Publish(notification *entity.Notification)
}

type Dispatcher struct {
	publisher Publisher
}

// NewDispatcher создаёт диспетчер. publisher может быть nil.
func NewDispatcher(publisher Publisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

// Record сохраняет уведомления через репозиторий текущей транзакции.
func (d *Dispatcher) Record(ctx context.Context, repo repository.NotificationRepository, effects []effect.Notify) ([]*entity.Notification, error) {
	created := make([]*entity.Notification, 0, len(effects))
	for _, e := range effects {
		n := entity.NotificationFromEffect(e)
		if err := repo.Create(ctx, n); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить уведомление")
		}
		created = append(created, n)
	}
	return created, nil
}

// Publish вызывается только после успешного коммита.
func (d *Dispatcher) Publish(notifications []*entity.Notification) {
	if d == nil || d.publisher == nil {
		return
	}
	for _, n := range notifications {
		d.publisher.Publish(n)
	}
}
