package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// FreelancerProfile профиль вместе с владельцем.
type FreelancerProfile struct {
	User    *entity.User
	Profile *entity.Profile
}

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *entity.Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	// ListFreelancers возвращает профили пользователей с ролью freelancer в порядке регистрации.
	ListFreelancers(ctx context.Context) ([]FreelancerProfile, error)
}
