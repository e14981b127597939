package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

const userColumns = `id, name, email, password_hash, role, is_verified, created_at`

type UserRepositoryAdapter struct {
	q queryer
}

func NewUserRepositoryAdapter(q queryer) *UserRepositoryAdapter {
	return &UserRepositoryAdapter{q: q}
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, user *entity.User) error {
	query := r.q.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash,
		string(user.Role), user.IsVerified, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "email уже зарегистрирован")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать пользователя")
	}
	return nil
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var row userRow
	query := r.q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}

func (r *UserRepositoryAdapter) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var row userRow
	query := r.q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	if err := r.q.GetContext(ctx, &row, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователя")
	}
	return row.toEntity(), nil
}

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	IsVerified   bool      `db:"is_verified"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *userRow) toEntity() *entity.User {
	return &entity.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         valueobject.Role(u.Role),
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}

const profileColumns = `user_id, bio, skills, hourly_rate, experience_level, portfolio_links,
	avatar_url, location, languages, completed_projects, success_rate, is_newcomer, joined_at, updated_at`

type ProfileRepositoryAdapter struct {
	q queryer
}

func NewProfileRepositoryAdapter(q queryer) *ProfileRepositoryAdapter {
	return &ProfileRepositoryAdapter{q: q}
}

func (r *ProfileRepositoryAdapter) Upsert(ctx context.Context, p *entity.Profile) error {
	query := r.q.Rebind(`
		INSERT INTO profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = excluded.bio,
			skills = excluded.skills,
			hourly_rate = excluded.hourly_rate,
			experience_level = excluded.experience_level,
			portfolio_links = excluded.portfolio_links,
			avatar_url = excluded.avatar_url,
			location = excluded.location,
			languages = excluded.languages,
			completed_projects = excluded.completed_projects,
			success_rate = excluded.success_rate,
			is_newcomer = excluded.is_newcomer,
			updated_at = excluded.updated_at
	`)
	_, err := r.q.ExecContext(ctx, query,
		p.UserID, p.Bio, asJSON(nonNilIDs(p.Skills)), p.HourlyRate, string(p.ExperienceLevel),
		asJSON(nonNilStrings(p.PortfolioLinks)), p.AvatarURL, p.Location, asJSON(nonNilStrings(p.Languages)),
		p.CompletedProjects, p.SuccessRate, p.IsNewcomer, p.JoinedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить профиль")
	}
	return nil
}

func (r *ProfileRepositoryAdapter) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var row profileRow
	query := r.q.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`)
	if err := r.q.GetContext(ctx, &row, query, userID); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль")
	}
	return row.toEntity(), nil
}

func (r *ProfileRepositoryAdapter) ListFreelancers(ctx context.Context) ([]repository.FreelancerProfile, error) {
	var rows []freelancerRow
	query := r.q.Rebind(`
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.is_verified, u.created_at,
			p.user_id, p.bio, p.skills, p.hourly_rate, p.experience_level, p.portfolio_links,
			p.avatar_url, p.location, p.languages, p.completed_projects, p.success_rate,
			p.is_newcomer, p.joined_at, p.updated_at
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE u.role = ?
		ORDER BY u.seq
	`)
	if err := r.q.SelectContext(ctx, &rows, query, string(valueobject.RoleFreelancer)); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить фрилансеров")
	}

	result := make([]repository.FreelancerProfile, len(rows))
	for i := range rows {
		result[i] = repository.FreelancerProfile{
			User:    rows[i].userRow.toEntity(),
			Profile: rows[i].profileRow.toEntity(),
		}
	}
	return result, nil
}

type profileRow struct {
	UserID            uuid.UUID               `db:"user_id"`
	Bio               string                  `db:"bio"`
	Skills            jsonColumn[[]uuid.UUID] `db:"skills"`
	HourlyRate        *float64                `db:"hourly_rate"`
	ExperienceLevel   string                  `db:"experience_level"`
	PortfolioLinks    jsonColumn[[]string]    `db:"portfolio_links"`
	AvatarURL         *string                 `db:"avatar_url"`
	Location          *string                 `db:"location"`
	Languages         jsonColumn[[]string]    `db:"languages"`
	CompletedProjects int                     `db:"completed_projects"`
	SuccessRate       float64                 `db:"success_rate"`
	IsNewcomer        bool                    `db:"is_newcomer"`
	JoinedAt          time.Time               `db:"joined_at"`
	UpdatedAt         time.Time               `db:"updated_at"`
}

func (p *profileRow) toEntity() *entity.Profile {
	return &entity.Profile{
		UserID:            p.UserID,
		Bio:               p.Bio,
		Skills:            nonNilIDs(p.Skills.V),
		HourlyRate:        p.HourlyRate,
		ExperienceLevel:   valueobject.ExperienceLevel(p.ExperienceLevel),
		PortfolioLinks:    nonNilStrings(p.PortfolioLinks.V),
		AvatarURL:         p.AvatarURL,
		Location:          p.Location,
		Languages:         nonNilStrings(p.Languages.V),
		CompletedProjects: p.CompletedProjects,
		SuccessRate:       p.SuccessRate,
		IsNewcomer:        p.IsNewcomer,
		JoinedAt:          p.JoinedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// freelancerRow строка JOIN'а: у колонок users и profiles нет пересечений имён.
type freelancerRow struct {
	userRow
	profileRow
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
