package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/validation"
)

// AuthService регистрация и выпуск токенов.
type AuthService struct {
	store        repository.Store
	tokenManager *TokenManager
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult итог регистрации или входа.
type AuthResult struct {
	User      *entity.User
	Profile   *entity.Profile
	TokenPair *TokenPair
}

func NewAuthService(store repository.Store, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		store:        store,
		tokenManager: tokenManager,
	}
}

// Register создаёт пользователя и профиль новичка. Администратора через API не создать.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	role := valueobject.Role(in.Role)
	if role != valueobject.RoleClient && role != valueobject.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeValidation, "роль должна быть client или freelancer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	var (
		user    *entity.User
		profile *entity.Profile
	)
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if _, err := tx.Users().FindByEmail(ctx, email); err == nil {
			return apperror.New(apperror.ErrCodeConflict, "email уже зарегистрирован")
		} else if !apperror.IsNotFound(err) {
			return err
		}

		user, err = entity.NewUser(in.Name, email, string(hash), role)
		if err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		profile = entity.NewProfile(user.ID)
		return tx.Profiles().Upsert(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	pair, _, _, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("auth: пользователь зарегистрирован")

	return &AuthResult{User: user, Profile: profile, TokenPair: pair}, nil
}

// Login проверяет учётные данные. Неизвестный email и неверный пароль неразличимы.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	pair, _, _, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}

	profile, err := s.store.Profiles().FindByUserID(ctx, user.ID)
	if err != nil {
		// Профиль не критичен для входа
		logger.Log.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("auth: профиль не найден при входе")
		profile = nil
	}

	return &AuthResult{User: user, Profile: profile, TokenPair: pair}, nil
}

// Refresh выпускает новую пару по действующему refresh токену.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "refresh токен невалиден")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "некорректный subject")
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	pair, _, _, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return pair, nil
}
