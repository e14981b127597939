package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

type Milestone struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type Proposal struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	FreelancerID   uuid.UUID
	CoverLetter    string
	ProposedBudget valueobject.Money
	Timeframe      valueobject.Timeframe
	Milestones     []Milestone
	Status         valueobject.ProposalStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewProposal(projectID, freelancerID uuid.UUID, coverLetter string, budget valueobject.Money, timeframe valueobject.Timeframe, milestones []Milestone) (*Proposal, error) {
	coverLetter = strings.TrimSpace(coverLetter)
	if coverLetter == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "сопроводительное письмо обязательно")
	}
	if !budget.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "предложенный бюджет должен быть положительным")
	}
	for _, m := range milestones {
		if strings.TrimSpace(m.Title) == "" || m.Amount <= 0 {
			return nil, apperror.New(apperror.ErrCodeValidation, "у этапа должны быть название и положительная сумма")
		}
	}
	if milestones == nil {
		milestones = []Milestone{}
	}

	now := time.Now().UTC()
	return &Proposal{
		ID:             uuid.New(),
		ProjectID:      projectID,
		FreelancerID:   freelancerID,
		CoverLetter:    coverLetter,
		ProposedBudget: budget,
		Timeframe:      timeframe,
		Milestones:     milestones,
		Status:         valueobject.ProposalStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (p *Proposal) Accept() error {
	return p.resolve(valueobject.ProposalStatusAccepted, "можно принять только ожидающее предложение")
}

func (p *Proposal) Reject() error {
	return p.resolve(valueobject.ProposalStatusRejected, "можно отклонить только ожидающее предложение")
}

func (p *Proposal) Withdraw() error {
	return p.resolve(valueobject.ProposalStatusWithdrawn, "отозвать можно только ожидающее предложение")
}

func (p *Proposal) IsOwnedBy(userID uuid.UUID) bool {
	return p.FreelancerID == userID
}

func (p *Proposal) IsPending() bool {
	return p.Status == valueobject.ProposalStatusPending
}

func (p *Proposal) IsAccepted() bool {
	return p.Status == valueobject.ProposalStatusAccepted
}

func (p *Proposal) resolve(next valueobject.ProposalStatus, message string) error {
	if p.Status != valueobject.ProposalStatusPending {
		return apperror.New(apperror.ErrCodeInvalidState, message)
	}
	p.Status = next
	p.UpdatedAt = time.Now().UTC()
	return nil
}
