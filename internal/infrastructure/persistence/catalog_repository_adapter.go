package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type CatalogRepositoryAdapter struct {
	q queryer
}

func NewCatalogRepositoryAdapter(q queryer) *CatalogRepositoryAdapter {
	return &CatalogRepositoryAdapter{q: q}
}

func (r *CatalogRepositoryAdapter) CreateCategory(ctx context.Context, c *entity.Category) error {
	query := r.q.Rebind(`INSERT INTO categories (id, name, description, icon_name, color, project_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := r.q.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.IconName, c.Color, c.ProjectCount, c.CreatedAt); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать категорию")
	}
	return nil
}

func (r *CatalogRepositoryAdapter) FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var c entity.Category
	query := r.q.Rebind(`SELECT id, name, description, icon_name, color, project_count, created_at FROM categories WHERE id = ?`)
	if err := r.q.QueryRowxContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.IconName, &c.Color, &c.ProjectCount, &c.CreatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrCategoryNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить категорию")
	}
	return &c, nil
}

func (r *CatalogRepositoryAdapter) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var rows []categoryRow
	query := `SELECT id, name, description, icon_name, color, project_count, created_at FROM categories ORDER BY seq`
	if err := r.q.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить категории")
	}
	result := make([]*entity.Category, len(rows))
	for i, row := range rows {
		result[i] = &entity.Category{
			ID:           row.ID,
			Name:         row.Name,
			Description:  row.Description,
			IconName:     row.IconName,
			Color:        row.Color,
			ProjectCount: row.ProjectCount,
			CreatedAt:    row.CreatedAt,
		}
	}
	return result, nil
}

func (r *CatalogRepositoryAdapter) IncrementProjectCount(ctx context.Context, categoryID uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`UPDATE categories SET project_count = project_count + 1 WHERE id = ?`), categoryID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить категорию")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrCategoryNotFound
	}
	return nil
}

func (r *CatalogRepositoryAdapter) CreateSkill(ctx context.Context, s *entity.Skill) error {
	query := r.q.Rebind(`INSERT INTO skills (id, name, category, description) VALUES (?, ?, ?, ?)`)
	if _, err := r.q.ExecContext(ctx, query, s.ID, s.Name, s.Category, s.Description); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать навык")
	}
	return nil
}

func (r *CatalogRepositoryAdapter) ListSkills(ctx context.Context) ([]*entity.Skill, error) {
	var rows []skillRow
	if err := r.q.SelectContext(ctx, &rows, `SELECT id, name, category, description FROM skills ORDER BY seq`); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить навыки")
	}
	result := make([]*entity.Skill, len(rows))
	for i, row := range rows {
		result[i] = &entity.Skill{ID: row.ID, Name: row.Name, Category: row.Category, Description: row.Description}
	}
	return result, nil
}

func (r *CatalogRepositoryAdapter) FindSkillByName(ctx context.Context, name string) (*entity.Skill, error) {
	var row skillRow
	query := r.q.Rebind(`SELECT id, name, category, description FROM skills WHERE LOWER(name) = ?`)
	if err := r.q.GetContext(ctx, &row, query, strings.ToLower(strings.TrimSpace(name))); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить навык")
	}
	return &entity.Skill{ID: row.ID, Name: row.Name, Category: row.Category, Description: row.Description}, nil
}

type categoryRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	IconName     string    `db:"icon_name"`
	Color        string    `db:"color"`
	ProjectCount int       `db:"project_count"`
	CreatedAt    time.Time `db:"created_at"`
}

type skillRow struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
}
