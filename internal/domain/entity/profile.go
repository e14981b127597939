package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
)

// Profile публичная карточка пользователя. Для фрилансера участвует в подборе.
type Profile struct {
	UserID            uuid.UUID
	Bio               string
	Skills            []uuid.UUID
	HourlyRate        *float64
	ExperienceLevel   valueobject.ExperienceLevel
	PortfolioLinks    []string
	AvatarURL         *string
	Location          *string
	Languages         []string
	CompletedProjects int
	SuccessRate       float64
	IsNewcomer        bool
	JoinedAt          time.Time
	UpdatedAt         time.Time
}

// NewProfile создаёт профиль нового пользователя. Флаг новичка ставится один раз.
func NewProfile(userID uuid.UUID) *Profile {
	now := time.Now().UTC()
	return &Profile{
		UserID:         userID,
		Skills:         []uuid.UUID{},
		PortfolioLinks: []string{},
		Languages:      []string{},
		IsNewcomer:     true,
		JoinedAt:       now,
		UpdatedAt:      now,
	}
}

func (p *Profile) HasSkill(skillID uuid.UUID) bool {
	for _, s := range p.Skills {
		if s == skillID {
			return true
		}
	}
	return false
}
