package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

const proposalColumns = `id, project_id, freelancer_id, cover_letter, proposed_budget, currency,
	timeframe_duration, timeframe_unit, milestones, status, created_at, updated_at`

type ProposalRepositoryAdapter struct {
	q queryer
}

func NewProposalRepositoryAdapter(q queryer) *ProposalRepositoryAdapter {
	return &ProposalRepositoryAdapter{q: q}
}

func (r *ProposalRepositoryAdapter) Create(ctx context.Context, p *entity.Proposal) error {
	query := r.q.Rebind(`INSERT INTO proposals (` + proposalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.ProjectID, p.FreelancerID, p.CoverLetter, p.ProposedBudget.Minor, p.ProposedBudget.Currency,
		p.Timeframe.Duration, string(p.Timeframe.Unit), asJSON(nonNilMilestones(p.Milestones)),
		string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeValidation, "вы уже откликнулись на этот проект")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение")
	}
	return nil
}

func (r *ProposalRepositoryAdapter) Update(ctx context.Context, p *entity.Proposal) error {
	query := r.q.Rebind(`
		UPDATE proposals SET cover_letter = ?, proposed_budget = ?, currency = ?,
			timeframe_duration = ?, timeframe_unit = ?, milestones = ?, status = ?, updated_at = ?
		WHERE id = ?
	`)
	res, err := r.q.ExecContext(ctx, query,
		p.CoverLetter, p.ProposedBudget.Minor, p.ProposedBudget.Currency,
		p.Timeframe.Duration, string(p.Timeframe.Unit), asJSON(nonNilMilestones(p.Milestones)),
		string(p.Status), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrProposalNotFound
	}
	return nil
}

func (r *ProposalRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := r.q.Rebind(`SELECT ` + proposalColumns + ` FROM proposals WHERE id = ?`)
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*entity.Proposal, error) {
	return r.selectWhere(ctx, `project_id = ?`, projectID)
}

func (r *ProposalRepositoryAdapter) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Proposal, error) {
	return r.selectWhere(ctx, `freelancer_id = ?`, freelancerID)
}

func (r *ProposalRepositoryAdapter) FindByProjectAndFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := r.q.Rebind(`SELECT ` + proposalColumns + ` FROM proposals WHERE project_id = ? AND freelancer_id = ?`)
	if err := r.q.GetContext(ctx, &row, query, projectID, freelancerID); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) selectWhere(ctx context.Context, where string, args ...interface{}) ([]*entity.Proposal, error) {
	var rows []proposalRow
	query := r.q.Rebind(`SELECT ` + proposalColumns + ` FROM proposals WHERE ` + where + ` ORDER BY seq`)
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}
	result := make([]*entity.Proposal, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type proposalRow struct {
	ID                uuid.UUID                      `db:"id"`
	ProjectID         uuid.UUID                      `db:"project_id"`
	FreelancerID      uuid.UUID                      `db:"freelancer_id"`
	CoverLetter       string                         `db:"cover_letter"`
	ProposedBudget    int64                          `db:"proposed_budget"`
	Currency          string                         `db:"currency"`
	TimeframeDuration int                            `db:"timeframe_duration"`
	TimeframeUnit     string                         `db:"timeframe_unit"`
	Milestones        jsonColumn[[]entity.Milestone] `db:"milestones"`
	Status            string                         `db:"status"`
	CreatedAt         time.Time                      `db:"created_at"`
	UpdatedAt         time.Time                      `db:"updated_at"`
}

func (p *proposalRow) toEntity() *entity.Proposal {
	return &entity.Proposal{
		ID:             p.ID,
		ProjectID:      p.ProjectID,
		FreelancerID:   p.FreelancerID,
		CoverLetter:    p.CoverLetter,
		ProposedBudget: valueobject.Money{Minor: p.ProposedBudget, Currency: p.Currency},
		Timeframe: valueobject.Timeframe{
			Duration: p.TimeframeDuration,
			Unit:     valueobject.TimeUnit(p.TimeframeUnit),
		},
		Milestones: nonNilMilestones(p.Milestones.V),
		Status:     valueobject.ProposalStatus(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func nonNilMilestones(m []entity.Milestone) []entity.Milestone {
	if m == nil {
		return []entity.Milestone{}
	}
	return m
}
