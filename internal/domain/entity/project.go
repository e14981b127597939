package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// FairnessSettings флаги проекта, влияющие на подбор и показ предложений.
type FairnessSettings struct {
	SkillsFirstMatching bool
	BlindProposalReview bool
	NewcomerBoost       bool
	FairPaymentPromise  bool
}

type Project struct {
	ID                  uuid.UUID
	ClientID            uuid.UUID
	Title               string
	Description         string
	CategoryID          *uuid.UUID
	RequiredSkills      []uuid.UUID
	Budget              valueobject.Budget
	Deadline            *time.Time
	Status              valueobject.ProjectStatus
	Fairness            FairnessSettings
	EscrowTransactionID *uuid.UUID
	Attachments         []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func NewProject(clientID uuid.UUID, title, description string, categoryID *uuid.UUID, skills []uuid.UUID, budget valueobject.Budget, deadline *time.Time, fairness FairnessSettings) (*Project, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название проекта обязательно")
	}
	if description == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "описание проекта обязательно")
	}
	if deadline != nil && deadline.Before(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "дедлайн не может быть в прошлом")
	}

	now := time.Now().UTC()
	return &Project{
		ID:             uuid.New(),
		ClientID:       clientID,
		Title:          title,
		Description:    description,
		CategoryID:     categoryID,
		RequiredSkills: dedupeIDs(skills),
		Budget:         budget,
		Deadline:       deadline,
		Status:         valueobject.ProjectStatusOpen,
		Fairness:       fairness,
		Attachments:    []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.ClientID == userID
}

func (p *Project) IsOpen() bool {
	return p.Status == valueobject.ProjectStatusOpen
}

// StartWork переводит проект в работу после принятия предложения.
func (p *Project) StartWork() error {
	return p.moveTo(valueobject.ProjectStatusInProgress, "проект должен быть открыт для принятия предложения")
}

func (p *Project) Complete() error {
	return p.moveTo(valueobject.ProjectStatusCompleted, "завершить можно только проект в работе")
}

func (p *Project) Cancel() error {
	return p.moveTo(valueobject.ProjectStatusCancelled, "проект нельзя отменить в текущем статусе")
}

// LinkEscrow связывает проект с escrow-транзакцией. У проекта она может быть только одна.
func (p *Project) LinkEscrow(transactionID uuid.UUID) error {
	if p.EscrowTransactionID != nil {
		return apperror.New(apperror.ErrCodeInvalidState, "у проекта уже есть escrow-транзакция")
	}
	p.EscrowTransactionID = &transactionID
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (p *Project) AddAttachment(path string) {
	p.Attachments = append(p.Attachments, path)
	p.UpdatedAt = time.Now().UTC()
}

func (p *Project) moveTo(next valueobject.ProjectStatus, message string) error {
	if !p.Status.CanTransitionTo(next) {
		return apperror.New(apperror.ErrCodeInvalidState, message)
	}
	p.Status = next
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
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
