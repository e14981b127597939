package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/escrow"
)

type CreateEscrowRequest struct {
	ProjectID    uuid.UUID  `json:"project_id" binding:"required"`
	FreelancerID *uuid.UUID `json:"freelancer_id"`
	Amount       float64    `json:"amount" binding:"required"`
	Currency     string     `json:"currency"`
	Description  string     `json:"description" binding:"max=2000"`
}

type DisputeEscrowRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type EscrowResponse struct {
	ID               uuid.UUID     `json:"id"`
	ProjectID        uuid.UUID     `json:"project_id"`
	ProjectTitle     string        `json:"project_title,omitempty"`
	ClientID         uuid.UUID     `json:"client_id"`
	ClientName       string        `json:"client_name,omitempty"`
	FreelancerID     *uuid.UUID    `json:"freelancer_id"`
	FreelancerName   string        `json:"freelancer_name,omitempty"`
	Amount           MoneyResponse `json:"amount"`
	PlatformFeeRate  float64       `json:"platform_fee_rate"`
	PlatformFee      MoneyResponse `json:"platform_fee"`
	FreelancerAmount MoneyResponse `json:"freelancer_amount"`
	Status           string        `json:"status"`
	Description      string        `json:"description"`
	DisputeReason    *string       `json:"dispute_reason"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	ReleasedAt       *time.Time    `json:"released_at"`
}

func ToEscrowResponse(t *entity.EscrowTransaction) EscrowResponse {
	fee, payout := t.FeeSplit()
	return EscrowResponse{
		ID:               t.ID,
		ProjectID:        t.ProjectID,
		ClientID:         t.ClientID,
		FreelancerID:     t.FreelancerID,
		Amount:           ToMoneyResponse(t.Amount),
		PlatformFeeRate:  t.PlatformFeeRate,
		PlatformFee:      ToMoneyResponse(fee),
		FreelancerAmount: ToMoneyResponse(payout),
		Status:           string(t.Status),
		Description:      t.Description,
		DisputeReason:    t.DisputeReason,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		ReleasedAt:       t.ReleasedAt,
	}
}

func ToEscrowViewResponse(v *escrow.EscrowView) EscrowResponse {
	resp := ToEscrowResponse(v.Transaction)
	resp.ProjectTitle = v.ProjectTitle
	resp.ClientName = v.ClientName
	resp.FreelancerName = v.FreelancerName
	return resp
}

func ToEscrowViewResponses(views []*escrow.EscrowView) []EscrowResponse {
	responses := make([]EscrowResponse, 0, len(views))
	for _, v := range views {
		responses = append(responses, ToEscrowViewResponse(v))
	}
	return responses
}
