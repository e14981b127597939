package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/service"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications обрабатывает GET /api/notifications?limit=&offset=&unread_only=.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", defaultPageLimit)
	offset := parseIntQuery(c, "offset", 0)
	unreadOnly := c.Query("unread_only") == "true"

	items, err := h.notifications.ListNotifications(c.Request.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToNotificationResponses(items))
}

func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID уведомления")
	if !ok {
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "is_read": true})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"ok": true})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID уведомления")
	if !ok {
		return
	}

	if err := h.notifications.DeleteNotification(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}
