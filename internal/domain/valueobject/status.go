package valueobject

import "github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusOpen, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

func (s ProjectStatus) CanTransitionTo(newStatus ProjectStatus) bool {
	transitions := map[ProjectStatus][]ProjectStatus{
		ProjectStatusDraft:      {ProjectStatusOpen, ProjectStatusCancelled},
		ProjectStatusOpen:       {ProjectStatusInProgress, ProjectStatusCancelled},
		ProjectStatusInProgress: {ProjectStatusCompleted, ProjectStatusCancelled},
		ProjectStatusCompleted:  {},
		ProjectStatusCancelled:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewProjectStatus(status string) (ProjectStatus, error) {
	s := ProjectStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус проекта")
	}
	return s, nil
}

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected, ProposalStatusWithdrawn:
		return true
	}
	return false
}

func NewProposalStatus(status string) (ProposalStatus, error) {
	s := ProposalStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус предложения")
	}
	return s, nil
}

// EscrowStatus статус escrow-транзакции.
//
//	pending -> funded -> released
//	funded -> disputed -> refunded
//
// released и refunded терминальные.
type EscrowStatus string

const (
	EscrowStatusPending  EscrowStatus = "pending"
	EscrowStatusFunded   EscrowStatus = "funded"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusDisputed EscrowStatus = "disputed"
	EscrowStatusRefunded EscrowStatus = "refunded"
)

func (s EscrowStatus) IsValid() bool {
	switch s {
	case EscrowStatusPending, EscrowStatusFunded, EscrowStatusReleased, EscrowStatusDisputed, EscrowStatusRefunded:
		return true
	}
	return false
}

func (s EscrowStatus) IsTerminal() bool {
	return s == EscrowStatusReleased || s == EscrowStatusRefunded
}

func (s EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	switch s {
	case EscrowStatusPending:
		return next == EscrowStatusFunded
	case EscrowStatusFunded:
		return next == EscrowStatusReleased || next == EscrowStatusDisputed
	case EscrowStatusDisputed:
		return next == EscrowStatusRefunded
	case EscrowStatusReleased, EscrowStatusRefunded:
		return false
	default:
		return false
	}
}

func NewEscrowStatus(status string) (EscrowStatus, error) {
	s := EscrowStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус транзакции")
	}
	return s, nil
}
