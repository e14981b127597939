package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperror.New(apperror.ErrCodeConflict, "email уже зарегистрирован")
		}
	}
	r.s.data.users[user.ID] = *user
	r.s.data.touch(user.ID)
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			found := u
			return &found, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

type profileRepo struct{ s *Store }

func (r *profileRepo) Upsert(ctx context.Context, profile *entity.Profile) error {
	defer r.s.lock()()
	r.s.data.profiles[profile.UserID] = copyProfile(*profile)
	r.s.data.touch(profile.UserID)
	return nil
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	defer r.s.lock()()
	p, ok := r.s.data.profiles[userID]
	if !ok {
		return nil, apperror.ErrProfileNotFound
	}
	cp := copyProfile(p)
	return &cp, nil
}

func (r *profileRepo) ListFreelancers(ctx context.Context) ([]repository.FreelancerProfile, error) {
	defer r.s.lock()()
	ids := make([]uuid.UUID, 0, len(r.s.data.profiles))
	for id := range r.s.data.profiles {
		if u, ok := r.s.data.users[id]; ok && u.Role == valueobject.RoleFreelancer {
			ids = append(ids, id)
		}
	}
	r.s.data.sortBySeq(ids)

	result := make([]repository.FreelancerProfile, 0, len(ids))
	for _, id := range ids {
		u := r.s.data.users[id]
		p := copyProfile(r.s.data.profiles[id])
		result = append(result, repository.FreelancerProfile{User: &u, Profile: &p})
	}
	return result, nil
}
