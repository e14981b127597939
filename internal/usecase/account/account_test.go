package account_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/account"
)

type prefixRecorder struct {
	prefixes []string
}

func (r *prefixRecorder) InvalidatePrefix(ctx context.Context, prefix string) error {
	r.prefixes = append(r.prefixes, prefix)
	return nil
}

func seed(t *testing.T) (*memory.Store, *entity.User, *entity.Skill) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	u, err := entity.NewUser("Ольга", "olga@example.com", "hash", valueobject.RoleFreelancer)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, u))
	require.NoError(t, store.Profiles().Upsert(ctx, entity.NewProfile(u.ID)))

	skill, err := entity.NewSkill("Go", "backend", "")
	require.NoError(t, err)
	require.NoError(t, store.Catalog().CreateSkill(ctx, skill))
	return store, u, skill
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store, user, skill := seed(t)
	cache := &prefixRecorder{}

	bio := "Бэкенд на Go"
	rate := 45.0
	level := "expert"
	updated, err := account.NewUpdateProfileUseCase(store, cache).Execute(ctx, user.ID, account.UpdateProfileInput{
		Bio:             &bio,
		Skills:          []uuid.UUID{skill.ID, skill.ID},
		HourlyRate:      &rate,
		ExperienceLevel: &level,
		PortfolioLinks:  []string{"https://github.com/olga"},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{skill.ID}, updated.Skills)
	assert.Equal(t, valueobject.ExperienceExpert, updated.ExperienceLevel)
	assert.True(t, updated.IsNewcomer, "newcomer flag is not user-editable")
	assert.Equal(t, []string{"match:"}, cache.prefixes)

	view, err := account.NewGetProfileUseCase(store).Execute(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ольга", view.User.Name)
	assert.Equal(t, "Бэкенд на Go", view.Profile.Bio)
}

func TestUpdateProfile_Validation(t *testing.T) {
	ctx := context.Background()
	store, user, _ := seed(t)
	uc := account.NewUpdateProfileUseCase(store, nil)

	_, err := uc.Execute(ctx, user.ID, account.UpdateProfileInput{Skills: []uuid.UUID{uuid.New()}})
	assert.True(t, apperror.IsValidation(err), "unknown skill")

	level := "guru"
	_, err = uc.Execute(ctx, user.ID, account.UpdateProfileInput{ExperienceLevel: &level})
	assert.True(t, apperror.IsValidation(err))

	rate := -1.0
	_, err = uc.Execute(ctx, user.ID, account.UpdateProfileInput{HourlyRate: &rate})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, user.ID, account.UpdateProfileInput{PortfolioLinks: []string{"not a link"}})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, uuid.New(), account.UpdateProfileInput{})
	assert.True(t, apperror.IsNotFound(err))
}
