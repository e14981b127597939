package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	defer r.s.lock()()
	r.s.data.notifications[n.ID] = copyNotification(*n)
	r.s.data.touch(n.ID)
	return nil
}

func (r *notificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	defer r.s.lock()()
	n, ok := r.s.data.notifications[id]
	if !ok {
		return nil, apperror.ErrNotificationNotFound
	}
	cp := copyNotification(n)
	return &cp, nil
}

// List отдаёт уведомления от новых к старым.
func (r *notificationRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Notification, error) {
	defer r.s.lock()()
	ids := make([]uuid.UUID, 0)
	for id, n := range r.s.data.notifications {
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.data.sortBySeq(ids)

	result := make([]*entity.Notification, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		cp := copyNotification(r.s.data.notifications[ids[i]])
		result = append(result, &cp)
	}

	if offset > 0 {
		if offset >= len(result) {
			return []*entity.Notification{}, nil
		}
		result = result[offset:]
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *notificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock()()
	n, ok := r.s.data.notifications[id]
	if !ok {
		return apperror.ErrNotificationNotFound
	}
	n.IsRead = true
	r.s.data.notifications[id] = n
	return nil
}

func (r *notificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	defer r.s.lock()()
	for id, n := range r.s.data.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			r.s.data.notifications[id] = n
		}
	}
	return nil
}

func (r *notificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock()()
	if _, ok := r.s.data.notifications[id]; !ok {
		return apperror.ErrNotificationNotFound
	}
	delete(r.s.data.notifications, id)
	delete(r.s.data.seq, id)
	return nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	defer r.s.lock()()
	count := 0
	for _, n := range r.s.data.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
