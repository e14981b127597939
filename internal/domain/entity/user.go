package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         valueobject.Role
	IsVerified   bool
	CreatedAt    time.Time
}

func NewUser(name, email, passwordHash string, role valueobject.Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "имя обязательно")
	}
	if !role.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректная роль")
	}

	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (u *User) HasRole(role valueobject.Role) bool {
	return u.Role == role
}
