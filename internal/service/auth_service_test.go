package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

func newTestAuthService() (*AuthService, *memory.Store, *TokenManager) {
	store := memory.NewStore()
	tokens := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(store, tokens), store, tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, store, tokens := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Name:     "Анна",
		Email:    "Anna@Example.com",
		Password: "Password123",
		Role:     "freelancer",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.User.ID)
	assert.Equal(t, "anna@example.com", res.User.Email)
	require.NotNil(t, res.Profile)
	assert.True(t, res.Profile.IsNewcomer)

	stored, err := store.Profiles().FindByUserID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsNewcomer)

	loginRes, err := svc.Login(ctx, LoginInput{Email: "anna@example.com", Password: "Password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, loginRes.TokenPair.AccessToken)

	userID, role, err := tokens.ParseAccess(loginRes.TokenPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, valueobject.RoleFreelancer, role)
}

func TestAuthService_RegisterRejectsAdminRole(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Root", Email: "root@example.com", Password: "Password123", Role: "admin",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()
	in := RegisterInput{Name: "Клиент", Email: "client@example.com", Password: "Password123", Role: "client"}

	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.True(t, apperror.IsConflict(err))
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Клиент", Email: "c@example.com", Password: "Password123", Role: "client"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "c@example.com", Password: "Wrong12345"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Password123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Клиент", Email: "r@example.com", Password: "Password123", Role: "client"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.TokenPair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.TokenPair.RefreshToken, pair.RefreshToken)

	userID, _, err := tokens.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	_, err = svc.Refresh(ctx, res.TokenPair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	_, _, tokens := newTestAuthService()
	other := NewTokenManager("other", "other", time.Minute, time.Hour)

	svc, _, _ := newTestAuthService()
	res, err := svc.Register(context.Background(), RegisterInput{Name: "Клиент", Email: "t@example.com", Password: "Password123", Role: "client"})
	require.NoError(t, err)

	_, _, err = other.ParseAccess(res.TokenPair.AccessToken)
	assert.Error(t, err)
	_, _, err = tokens.ParseAccess(res.TokenPair.AccessToken)
	assert.NoError(t, err)
}
