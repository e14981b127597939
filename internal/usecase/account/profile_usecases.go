package account

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
	"github.com/ignatzorin/fairlance-backend/internal/validation"
)

// CacheInvalidator сбрасывает закэшированные рейтинги после изменения профиля.
type CacheInvalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// ProfileView профиль вместе с владельцем.
type ProfileView struct {
	User    *entity.User
	Profile *entity.Profile
}

type GetProfileUseCase struct {
	store repository.Store
}

func NewGetProfileUseCase(store repository.Store) *GetProfileUseCase {
	return &GetProfileUseCase{store: store}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	user, err := uc.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := uc.store.Profiles().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: user, Profile: profile}, nil
}

// UpdateProfileInput nil означает "не менять".
type UpdateProfileInput struct {
	Bio             *string
	Skills          []uuid.UUID
	HourlyRate      *float64
	ExperienceLevel *string
	PortfolioLinks  []string
	AvatarURL       *string
	Location        *string
	Languages       []string
}

type UpdateProfileUseCase struct {
	store repository.Store
	cache CacheInvalidator
}

func NewUpdateProfileUseCase(store repository.Store, cache CacheInvalidator) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{store: store, cache: cache}
}

// Execute обновляет редактируемые поля. CompletedProjects, SuccessRate и флаг новичка не меняются.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.Profile, error) {
	if err := validateProfileInput(input); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	var updated *entity.Profile
	err := uc.store.WithinTx(ctx, func(tx repository.Store) error {
		profile, err := tx.Profiles().FindByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if input.Skills != nil {
			if err := ensureSkillsExist(ctx, tx, input.Skills); err != nil {
				return err
			}
			profile.Skills = dedupe(input.Skills)
		}
		if input.Bio != nil {
			profile.Bio = strings.TrimSpace(*input.Bio)
		}
		if input.HourlyRate != nil {
			rate := *input.HourlyRate
			profile.HourlyRate = &rate
		}
		if input.ExperienceLevel != nil {
			level, err := valueobject.NewExperienceLevel(*input.ExperienceLevel)
			if err != nil {
				return err
			}
			profile.ExperienceLevel = level
		}
		if input.PortfolioLinks != nil {
			profile.PortfolioLinks = input.PortfolioLinks
		}
		if input.AvatarURL != nil {
			avatar := strings.TrimSpace(*input.AvatarURL)
			profile.AvatarURL = &avatar
		}
		if input.Location != nil {
			location := strings.TrimSpace(*input.Location)
			profile.Location = &location
		}
		if input.Languages != nil {
			profile.Languages = input.Languages
		}
		profile.UpdatedAt = time.Now().UTC()

		if err := tx.Profiles().Upsert(ctx, profile); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить профиль")
		}
		updated = profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidatePrefix(ctx, "match:"); err != nil {
			logger.Log.WithError(err).Warn("account: не удалось сбросить кэш подбора")
		}
	}
	return updated, nil
}

func validateProfileInput(input UpdateProfileInput) error {
	if input.Bio != nil {
		if err := validation.ValidateBio(*input.Bio); err != nil {
			return err
		}
	}
	if err := validation.ValidateHourlyRate(input.HourlyRate); err != nil {
		return err
	}
	if err := validation.ValidateLocation(input.Location); err != nil {
		return err
	}
	if err := validation.ValidatePortfolioLinks(input.PortfolioLinks); err != nil {
		return err
	}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		if err := validation.ValidateExternalLink(*input.AvatarURL); err != nil {
			return err
		}
	}
	if err := validation.ValidateCount("навыки", len(input.Skills), validation.MaxSkillsCount); err != nil {
		return err
	}
	return validation.ValidateCount("языки", len(input.Languages), validation.MaxLanguagesCount)
}

func ensureSkillsExist(ctx context.Context, tx repository.Store, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	skills, err := tx.Catalog().ListSkills(ctx)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить навыки")
	}
	known := make(map[uuid.UUID]struct{}, len(skills))
	for _, s := range skills {
		known[s.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return apperror.Newf(apperror.ErrCodeValidation, "навык %s не найден", id)
		}
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
