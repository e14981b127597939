package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/repository"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

const projectColumns = `id, client_id, title, description, category_id, required_skills,
	budget_min, budget_max, currency, deadline, status,
	skills_first_matching, blind_proposal_review, newcomer_boost, fair_payment_promise,
	escrow_transaction_id, attachments, created_at, updated_at`

type ProjectRepositoryAdapter struct {
	q queryer
}

func NewProjectRepositoryAdapter(q queryer) *ProjectRepositoryAdapter {
	return &ProjectRepositoryAdapter{q: q}
}

func (r *ProjectRepositoryAdapter) Create(ctx context.Context, p *entity.Project) error {
	query := r.q.Rebind(`INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.ClientID, p.Title, p.Description, p.CategoryID, asJSON(nonNilIDs(p.RequiredSkills)),
		p.Budget.Min.Minor, p.Budget.Max.Minor, p.Budget.Currency(), p.Deadline, string(p.Status),
		p.Fairness.SkillsFirstMatching, p.Fairness.BlindProposalReview, p.Fairness.NewcomerBoost, p.Fairness.FairPaymentPromise,
		p.EscrowTransactionID, asJSON(nonNilStrings(p.Attachments)), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать проект")
	}
	return nil
}

func (r *ProjectRepositoryAdapter) Update(ctx context.Context, p *entity.Project) error {
	query := r.q.Rebind(`
		UPDATE projects SET title = ?, description = ?, category_id = ?, required_skills = ?,
			budget_min = ?, budget_max = ?, currency = ?, deadline = ?, status = ?,
			skills_first_matching = ?, blind_proposal_review = ?, newcomer_boost = ?, fair_payment_promise = ?,
			escrow_transaction_id = ?, attachments = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := r.q.ExecContext(ctx, query,
		p.Title, p.Description, p.CategoryID, asJSON(nonNilIDs(p.RequiredSkills)),
		p.Budget.Min.Minor, p.Budget.Max.Minor, p.Budget.Currency(), p.Deadline, string(p.Status),
		p.Fairness.SkillsFirstMatching, p.Fairness.BlindProposalReview, p.Fairness.NewcomerBoost, p.Fairness.FairPaymentPromise,
		p.EscrowTransactionID, asJSON(nonNilStrings(p.Attachments)), p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить проект")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var row projectRow
	query := r.q.Rebind(`SELECT ` + projectColumns + ` FROM projects WHERE id = ?`)
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проект")
	}
	return row.toEntity(), nil
}

func (r *ProjectRepositoryAdapter) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Project, error) {
	var rows []projectRow
	query := r.q.Rebind(`SELECT ` + projectColumns + ` FROM projects WHERE client_id = ? ORDER BY seq`)
	if err := r.q.SelectContext(ctx, &rows, query, clientID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проекты")
	}
	return toProjectEntities(rows), nil
}

func (r *ProjectRepositoryAdapter) List(ctx context.Context, filter repository.ProjectFilter) ([]*entity.Project, int, error) {
	baseQuery := ` FROM projects WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		baseQuery += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}
	if filter.CategoryID != nil {
		baseQuery += ` AND category_id = ?`
		args = append(args, *filter.CategoryID)
	}
	if filter.SkillID != nil {
		// required_skills хранится JSON-массивом строк.
		baseQuery += ` AND required_skills LIKE ?`
		args = append(args, `%"`+filter.SkillID.String()+`"%`)
	}

	var total int
	if err := r.q.GetContext(ctx, &total, r.q.Rebind(`SELECT COUNT(*)`+baseQuery), args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать проекты")
	}

	page, pageArgs := pageClause(filter.Limit, filter.Offset)
	selectQuery := r.q.Rebind(`SELECT ` + projectColumns + baseQuery + ` ORDER BY seq` + page)

	var rows []projectRow
	if err := r.q.SelectContext(ctx, &rows, selectQuery, append(args, pageArgs...)...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить проекты")
	}
	return toProjectEntities(rows), total, nil
}

type projectRow struct {
	ID                  uuid.UUID               `db:"id"`
	ClientID            uuid.UUID               `db:"client_id"`
	Title               string                  `db:"title"`
	Description         string                  `db:"description"`
	CategoryID          *uuid.UUID              `db:"category_id"`
	RequiredSkills      jsonColumn[[]uuid.UUID] `db:"required_skills"`
	BudgetMin           int64                   `db:"budget_min"`
	BudgetMax           int64                   `db:"budget_max"`
	Currency            string                  `db:"currency"`
	Deadline            *time.Time              `db:"deadline"`
	Status              string                  `db:"status"`
	SkillsFirstMatching bool                    `db:"skills_first_matching"`
	BlindProposalReview bool                    `db:"blind_proposal_review"`
	NewcomerBoost       bool                    `db:"newcomer_boost"`
	FairPaymentPromise  bool                    `db:"fair_payment_promise"`
	EscrowTransactionID *uuid.UUID              `db:"escrow_transaction_id"`
	Attachments         jsonColumn[[]string]    `db:"attachments"`
	CreatedAt           time.Time               `db:"created_at"`
	UpdatedAt           time.Time               `db:"updated_at"`
}

func (p *projectRow) toEntity() *entity.Project {
	return &entity.Project{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Title:          p.Title,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		RequiredSkills: nonNilIDs(p.RequiredSkills.V),
		Budget: valueobject.Budget{
			Min: valueobject.Money{Minor: p.BudgetMin, Currency: p.Currency},
			Max: valueobject.Money{Minor: p.BudgetMax, Currency: p.Currency},
		},
		Deadline: p.Deadline,
		Status:   valueobject.ProjectStatus(p.Status),
		Fairness: entity.FairnessSettings{
			SkillsFirstMatching: p.SkillsFirstMatching,
			BlindProposalReview: p.BlindProposalReview,
			NewcomerBoost:       p.NewcomerBoost,
			FairPaymentPromise:  p.FairPaymentPromise,
		},
		EscrowTransactionID: p.EscrowTransactionID,
		Attachments:         nonNilStrings(p.Attachments.V),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toProjectEntities(rows []projectRow) []*entity.Project {
	result := make([]*entity.Project, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}
