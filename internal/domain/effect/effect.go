// Package effect описывает побочные эффекты переходов состояний.
// Сущности возвращают намерения, а use case'ы исполняют их в рамках транзакции.
package effect

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

// Notify намерение отправить уведомление пользователю.
type Notify struct {
	UserID    uuid.UUID
	Type      valueobject.NotificationType
	Title     string
	Message   string
	RelatedID *uuid.UUID
}

// NotifyAbout создаёт уведомление, привязанное к сущности relatedID.
func NotifyAbout(userID uuid.UUID, typ valueobject.NotificationType, title, message string, relatedID uuid.UUID) Notify {
	return Notify{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: &relatedID,
	}
}
