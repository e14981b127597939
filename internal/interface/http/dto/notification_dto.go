package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
)

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	RelatedID *uuid.UUID `json:"related_id"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponses(items []*entity.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, ToNotificationResponse(n))
	}
	return responses
}

type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IconName     string    `json:"icon_name"`
	Color        string    `json:"color"`
	ProjectCount int       `json:"project_count"`
}

func ToCategoryResponses(items []*entity.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		responses = append(responses, CategoryResponse{
			ID:           c.ID,
			Name:         c.Name,
			Description:  c.Description,
			IconName:     c.IconName,
			Color:        c.Color,
			ProjectCount: c.ProjectCount,
		})
	}
	return responses
}

type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

func ToSkillResponses(items []*entity.Skill) []SkillResponse {
	responses := make([]SkillResponse, 0, len(items))
	for _, s := range items {
		responses = append(responses, SkillResponse{
			ID:          s.ID,
			Name:        s.Name,
			Category:    s.Category,
			Description: s.Description,
		})
	}
	return responses
}
