package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/effect"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// PlatformFeeRate комиссия платформы. Одинакова для всех, включая новичков.
const PlatformFeeRate = 0.10

// EscrowTransaction средства клиента, условно удерживаемые под проект.
type EscrowTransaction struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	ClientID        uuid.UUID
	FreelancerID    *uuid.UUID
	Amount          valueobject.Money
	Status          valueobject.EscrowStatus
	PlatformFeeRate float64
	Description     string
	DisputeReason   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ReleasedAt      *time.Time
}

func NewEscrowTransaction(projectID, clientID uuid.UUID, freelancerID *uuid.UUID, amount valueobject.Money, description string) (*EscrowTransaction, error) {
	if !amount.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeValidation, "сумма транзакции должна быть положительной")
	}

	now := time.Now().UTC()
	return &EscrowTransaction{
		ID:              uuid.New(),
		ProjectID:       projectID,
		ClientID:        clientID,
		FreelancerID:    freelancerID,
		Amount:          amount,
		Status:          valueobject.EscrowStatusPending,
		PlatformFeeRate: PlatformFeeRate,
		Description:     strings.TrimSpace(description),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// FeeSplit делит сумму на комиссию и выплату фрилансеру. Сумма частей равна Amount.
func (t *EscrowTransaction) FeeSplit() (platformFee, freelancerAmount valueobject.Money) {
	platformFee = t.Amount.MulRate(t.PlatformFeeRate)
	return platformFee, t.Amount.Sub(platformFee)
}

func (t *EscrowTransaction) IsClient(userID uuid.UUID) bool {
	return t.ClientID == userID
}

func (t *EscrowTransaction) IsFreelancer(userID uuid.UUID) bool {
	return t.FreelancerID != nil && *t.FreelancerID == userID
}

func (t *EscrowTransaction) IsParticipant(userID uuid.UUID) bool {
	return t.IsClient(userID) || t.IsFreelancer(userID)
}

// Fund переводит pending -> funded. Реального списания средств нет.
func (t *EscrowTransaction) Fund(actorID uuid.UUID) ([]effect.Notify, error) {
	if !t.IsClient(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "пополнить транзакцию может только клиент")
	}
	if err := t.transition(valueobject.EscrowStatusFunded); err != nil {
		return nil, err
	}
	return nil, nil
}

// Release переводит funded -> released и уведомляет фрилансера.
func (t *EscrowTransaction) Release(actorID uuid.UUID) ([]effect.Notify, error) {
	if !t.IsClient(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "выпустить платёж может только клиент")
	}
	if t.Status != valueobject.EscrowStatusFunded {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "для выпуска платежа транзакция должна быть funded, текущий статус %s", t.Status)
	}
	if t.FreelancerID == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "фрилансер не назначен")
	}
	if err := t.transition(valueobject.EscrowStatusReleased); err != nil {
		return nil, err
	}
	released := t.UpdatedAt
	t.ReleasedAt = &released

	return []effect.Notify{
		effect.NotifyAbout(*t.FreelancerID, valueobject.NotificationPaymentReleased,
			"Платёж выпущен",
			fmt.Sprintf("Ваш платёж %s по проекту выпущен.", t.Amount),
			t.ProjectID),
	}, nil
}

// Dispute переводит funded -> disputed и уведомляет другую сторону, если она есть.
func (t *EscrowTransaction) Dispute(actorID uuid.UUID, reason string) ([]effect.Notify, error) {
	if !t.IsParticipant(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "пользователь не участвует в транзакции")
	}
	if t.Status != valueobject.EscrowStatusFunded {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "открыть спор можно только по funded транзакции, текущий статус %s", t.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "причина спора обязательна")
	}
	if err := t.transition(valueobject.EscrowStatusDisputed); err != nil {
		return nil, err
	}
	t.DisputeReason = &reason

	var other *uuid.UUID
	if t.IsClient(actorID) {
		other = t.FreelancerID
	} else {
		client := t.ClientID
		other = &client
	}
	if other == nil {
		return nil, nil
	}

	return []effect.Notify{
		effect.NotifyAbout(*other, valueobject.NotificationPaymentDisputed,
			"Открыт спор по платежу",
			fmt.Sprintf("По платежу %s открыт спор. Причина: %s", t.Amount, reason),
			t.ProjectID),
	}, nil
}

// Refund переводит disputed -> refunded. Доступно только администратору.
func (t *EscrowTransaction) Refund(actor *User) ([]effect.Notify, error) {
	if actor == nil || actor.Role != valueobject.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "возврат может оформить только администратор")
	}
	if t.Status != valueobject.EscrowStatusDisputed {
		return nil, apperror.Newf(apperror.ErrCodeInvalidState, "для возврата транзакция должна быть disputed, текущий статус %s", t.Status)
	}
	if err := t.transition(valueobject.EscrowStatusRefunded); err != nil {
		return nil, err
	}

	effects := []effect.Notify{
		effect.NotifyAbout(t.ClientID, valueobject.NotificationPaymentRefunded,
			"Платёж возвращён",
			fmt.Sprintf("Ваш платёж %s возвращён.", t.Amount),
			t.ProjectID),
	}
	if t.FreelancerID != nil {
		effects = append(effects, effect.NotifyAbout(*t.FreelancerID, valueobject.NotificationPaymentRefunded,
			"Платёж возвращён клиенту",
			fmt.Sprintf("Платёж %s возвращён клиенту.", t.Amount),
			t.ProjectID))
	}
	return effects, nil
}

// AssignFreelancer закрепляет фрилансера после принятия предложения.
func (t *EscrowTransaction) AssignFreelancer(freelancerID uuid.UUID) error {
	if t.Status.IsTerminal() {
		return apperror.Newf(apperror.ErrCodeInvalidState, "транзакция уже %s", t.Status)
	}
	if t.FreelancerID != nil {
		if *t.FreelancerID == freelancerID {
			return nil
		}
		return apperror.New(apperror.ErrCodeInvalidState, "транзакции уже назначен другой фрилансер")
	}
	t.FreelancerID = &freelancerID
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *EscrowTransaction) transition(next valueobject.EscrowStatus) error {
	if t.Status == next {
		return apperror.Newf(apperror.ErrCodeInvalidState, "транзакция уже %s", t.Status)
	}
	if !t.Status.CanTransitionTo(next) {
		return apperror.Newf(apperror.ErrCodeInvalidState, "переход %s -> %s невозможен", t.Status, next)
	}
	t.Status = next
	t.UpdatedAt = time.Now().UTC()
	return nil
}
