package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      valueobject.NotificationType
	Title     string
	Message   string
	RelatedID *uuid.UUID
	IsRead    bool
	CreatedAt time.Time
}

// NotificationFromEffect материализует намерение в запись.
func NotificationFromEffect(e effect.Notify) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    e.UserID,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		RelatedID: e.RelatedID,
		CreatedAt: time.Now().UTC(),
	}
}

func (n *Notification) IsOwnedBy(userID uuid.UUID) bool {
	return n.UserID == userID
}
