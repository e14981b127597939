package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

const notificationColumns = `id, user_id, type, title, message, related_id, is_read, created_at`

type NotificationRepositoryAdapter struct {
	q queryer
}

func NewNotificationRepositoryAdapter(q queryer) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{q: q}
}

func (r *NotificationRepositoryAdapter) Create(ctx context.Context, n *entity.Notification) error {
	query := r.q.Rebind(`INSERT INTO notifications (` + notificationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.RelatedID, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать уведомление")
	}
	return nil
}

func (r *NotificationRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var row notificationRow
	query := r.q.Rebind(`SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`)
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrNotificationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить уведомление")
	}
	return row.toEntity(), nil
}

// List отдаёт уведомления от новых к старым.
func (r *NotificationRepositoryAdapter) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []interface{}{userID}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	page, pageArgs := pageClause(limit, offset)
	query += ` ORDER BY seq DESC` + page

	var rows []notificationRow
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query), append(args, pageArgs...)...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить уведомления")
	}
	result := make([]*entity.Notification, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *NotificationRepositoryAdapter) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`UPDATE notifications SET is_read = ? WHERE id = ?`), true, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомление")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryAdapter) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := r.q.Rebind(`UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?`)
	if _, err := r.q.ExecContext(ctx, query, true, userID, false); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить уведомления")
	}
	return nil
}

func (r *NotificationRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM notifications WHERE id = ?`), id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить уведомление")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryAdapter) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := r.q.Rebind(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?`)
	if err := r.q.GetContext(ctx, &count, query, userID, false); err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать уведомления")
	}
	return count, nil
}

type notificationRow struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	Type      string     `db:"type"`
	Title     string     `db:"title"`
	Message   string     `db:"message"`
	RelatedID *uuid.UUID `db:"related_id"`
	IsRead    bool       `db:"is_read"`
	CreatedAt time.Time  `db:"created_at"`
}

func (n *notificationRow) toEntity() *entity.Notification {
	return &entity.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      valueobject.NotificationType(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
