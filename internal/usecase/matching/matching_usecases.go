package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/matching"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// Cache хранилище готовых рейтингов. Реализации: память процесса и Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const (
	keyFreelancers = "match:freelancers:%s"
	keyProjects    = "match:projects:%s"
	keySimilar     = "match:similar:%s"
)

// cached достаёт рейтинг из кэша или считает его. Ошибки кэша только логируются.
type cached struct {
	cache Cache
	ttl   time.Duration
}

func (c cached) load(ctx context.Context, key string, compute func() ([]matching.Result, error)) ([]matching.Result, error) {
	if c.cache != nil {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			logger.Log.WithError(err).WithField("key", key).Warn("matching: ошибка чтения кэша")
		} else if ok {
			var results []matching.Result
			if err := json.Unmarshal(raw, &results); err == nil {
				return results, nil
			}
		}
	}

	results, err := compute()
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.ttl > 0 {
		raw, err := json.Marshal(results)
		if err == nil {
			err = c.cache.Set(ctx, key, raw, c.ttl)
		}
		if err != nil {
			logger.Log.WithError(err).WithField("key", key).Warn("matching: ошибка записи кэша")
		}
	}
	return results, nil
}

func candidateFrom(profile *entity.Profile) matching.Candidate {
	return matching.Candidate{
		ID:                profile.UserID,
		Skills:            profile.Skills,
		Experience:        profile.ExperienceLevel,
		CompletedProjects: profile.CompletedProjects,
		IsNewcomer:        profile.IsNewcomer,
	}
}

func fairnessFrom(project *entity.Project) matching.Fairness {
	return matching.Fairness{
		SkillsFirstMatching: project.Fairness.SkillsFirstMatching,
		NewcomerBoost:       project.Fairness.NewcomerBoost,
	}
}

type MatchFreelancersUseCase struct {
	store repository.Store
	cached
}

func NewMatchFreelancersUseCase(store repository.Store, cache Cache, ttl time.Duration) *MatchFreelancersUseCase {
	return &MatchFreelancersUseCase{store: store, cached: cached{cache: cache, ttl: ttl}}
}

// Execute топ-10 фрилансеров для проекта.
func (uc *MatchFreelancersUseCase) Execute(ctx context.Context, projectID uuid.UUID) ([]matching.Result, error) {
	project, err := uc.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return uc.load(ctx, fmt.Sprintf(keyFreelancers, project.ID), func() ([]matching.Result, error) {
		freelancers, err := uc.store.Profiles().ListFreelancers(ctx)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить фрилансеров")
		}

		fairness := fairnessFrom(project)
		results := make([]matching.Result, 0, len(freelancers))
		for _, f := range freelancers {
			results = append(results, matching.ScoreFreelancer(project.RequiredSkills, candidateFrom(f.Profile), fairness))
		}
		return matching.Rank(results, matching.TopFreelancers), nil
	})
}

type RecommendProjectsUseCase struct {
	store repository.Store
	cached
}

func NewRecommendProjectsUseCase(store repository.Store, cache Cache, ttl time.Duration) *RecommendProjectsUseCase {
	return &RecommendProjectsUseCase{store: store, cached: cached{cache: cache, ttl: ttl}}
}

// Execute топ-10 открытых проектов для фрилансера, только по навыкам.
func (uc *RecommendProjectsUseCase) Execute(ctx context.Context, freelancerID uuid.UUID) ([]matching.Result, error) {
	profile, err := uc.store.Profiles().FindByUserID(ctx, freelancerID)
	if err != nil {
		return nil, err
	}

	return uc.load(ctx, fmt.Sprintf(keyProjects, profile.UserID), func() ([]matching.Result, error) {
		status := valueobject.ProjectStatusOpen
		projects, _, err := uc.store.Projects().List(ctx, repository.ProjectFilter{Status: &status})
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проекты")
		}

		results := make([]matching.Result, 0, len(projects))
		for _, p := range projects {
			results = append(results, matching.ScoreProject(p.ID, p.RequiredSkills, profile.Skills, fairnessFrom(p), profile.IsNewcomer))
		}
		return matching.Rank(results, matching.TopProjects), nil
	})
}

type SimilarFreelancersUseCase struct {
	store repository.Store
	cached
}

func NewSimilarFreelancersUseCase(store repository.Store, cache Cache, ttl time.Duration) *SimilarFreelancersUseCase {
	return &SimilarFreelancersUseCase{store: store, cached: cached{cache: cache, ttl: ttl}}
}

// Execute топ-5 похожих фрилансеров, сам фрилансер исключается.
func (uc *SimilarFreelancersUseCase) Execute(ctx context.Context, freelancerID uuid.UUID) ([]matching.Result, error) {
	profile, err := uc.store.Profiles().FindByUserID(ctx, freelancerID)
	if err != nil {
		return nil, err
	}

	return uc.load(ctx, fmt.Sprintf(keySimilar, profile.UserID), func() ([]matching.Result, error) {
		freelancers, err := uc.store.Profiles().ListFreelancers(ctx)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить фрилансеров")
		}

		target := candidateFrom(profile)
		results := make([]matching.Result, 0, len(freelancers))
		for _, f := range freelancers {
			if f.Profile.UserID == profile.UserID {
				continue
			}
			results = append(results, matching.Similarity(target, candidateFrom(f.Profile)))
		}
		return matching.Rank(results, matching.TopSimilar), nil
	})
}
