package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/service"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/account"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=client freelancer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type AuthResponse struct {
	User    UserResponse       `json:"user"`
	Profile *ProfileResponse   `json:"profile,omitempty"`
	Tokens  *service.TokenPair `json:"tokens"`
}

func ToAuthResponse(res *service.AuthResult) AuthResponse {
	resp := AuthResponse{
		User:   ToUserResponse(res.User),
		Tokens: res.TokenPair,
	}
	if res.Profile != nil {
		profile := ToProfileResponse(res.Profile)
		resp.Profile = &profile
	}
	return resp
}

// UpdateProfileRequest частичное обновление: nil означает "не менять".
type UpdateProfileRequest struct {
	Bio             *string     `json:"bio"`
	Skills          []uuid.UUID `json:"skills"`
	HourlyRate      *float64    `json:"hourly_rate"`
	ExperienceLevel *string     `json:"experience_level"`
	PortfolioLinks  []string    `json:"portfolio_links"`
	AvatarURL       *string     `json:"avatar_url"`
	Location        *string     `json:"location"`
	Languages       []string    `json:"languages"`
}

func (r UpdateProfileRequest) ToInput() account.UpdateProfileInput {
	return account.UpdateProfileInput{
		Bio:             r.Bio,
		Skills:          r.Skills,
		HourlyRate:      r.HourlyRate,
		ExperienceLevel: r.ExperienceLevel,
		PortfolioLinks:  r.PortfolioLinks,
		AvatarURL:       r.AvatarURL,
		Location:        r.Location,
		Languages:       r.Languages,
	}
}

type ProfileResponse struct {
	UserID            uuid.UUID     `json:"user_id"`
	User              *UserResponse `json:"user,omitempty"`
	Bio               string        `json:"bio"`
	Skills            []uuid.UUID   `json:"skills"`
	HourlyRate        *float64      `json:"hourly_rate"`
	ExperienceLevel   string        `json:"experience_level"`
	PortfolioLinks    []string      `json:"portfolio_links"`
	AvatarURL         *string       `json:"avatar_url"`
	Location          *string       `json:"location"`
	Languages         []string      `json:"languages"`
	CompletedProjects int           `json:"completed_projects"`
	SuccessRate       float64       `json:"success_rate"`
	IsNewcomer        bool          `json:"is_newcomer"`
	JoinedAt          time.Time     `json:"joined_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func ToProfileResponse(p *entity.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:            p.UserID,
		Bio:               p.Bio,
		Skills:            nonNil(p.Skills),
		HourlyRate:        p.HourlyRate,
		ExperienceLevel:   string(p.ExperienceLevel),
		PortfolioLinks:    nonNil(p.PortfolioLinks),
		AvatarURL:         p.AvatarURL,
		Location:          p.Location,
		Languages:         nonNil(p.Languages),
		CompletedProjects: p.CompletedProjects,
		SuccessRate:       p.SuccessRate,
		IsNewcomer:        p.IsNewcomer,
		JoinedAt:          p.JoinedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func ToProfileViewResponse(v *account.ProfileView) ProfileResponse {
	resp := ToProfileResponse(v.Profile)
	user := ToUserResponse(v.User)
	resp.User = &user
	return resp
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
