package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type Category struct {
	ID           uuid.UUID
	Name         string
	Description  string
	IconName     string
	Color        string
	ProjectCount int
	CreatedAt    time.Time
}

func NewCategory(name, description, iconName, color string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название категории обязательно")
	}
	return &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IconName:    iconName,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

type Skill struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description string
}

func NewSkill(name, category, description string) (*Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название навыка обязательно")
	}
	return &Skill{
		ID:          uuid.New(),
		Name:        name,
		Category:    category,
		Description: description,
	}, nil
}
