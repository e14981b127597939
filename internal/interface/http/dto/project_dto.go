package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/storage"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/project"
)

type BudgetRequest struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max" binding:"required"`
	Currency string  `json:"currency"`
}

type FairnessRequest struct {
	SkillsFirstMatching bool `json:"skills_first_matching"`
	BlindProposalReview bool `json:"blind_proposal_review"`
	NewcomerBoost       bool `json:"newcomer_boost"`
	FairPaymentPromise  bool `json:"fair_payment_promise"`
}

type CreateProjectRequest struct {
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description" binding:"required"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	RequiredSkills []uuid.UUID     `json:"required_skills"`
	Budget         BudgetRequest   `json:"budget"`
	Deadline       *time.Time      `json:"deadline"`
	Fairness       FairnessRequest `json:"fairness_settings"`
}

func (r CreateProjectRequest) ToInput(clientID uuid.UUID) project.CreateProjectInput {
	return project.CreateProjectInput{
		ClientID:       clientID,
		Title:          r.Title,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		RequiredSkills: r.RequiredSkills,
		BudgetMin:      r.Budget.Min,
		BudgetMax:      r.Budget.Max,
		Currency:       r.Budget.Currency,
		Deadline:       r.Deadline,
		Fairness: entity.FairnessSettings{
			SkillsFirstMatching: r.Fairness.SkillsFirstMatching,
			BlindProposalReview: r.Fairness.BlindProposalReview,
			NewcomerBoost:       r.Fairness.NewcomerBoost,
			FairPaymentPromise:  r.Fairness.FairPaymentPromise,
		},
	}
}

type BudgetResponse struct {
	Min MoneyResponse `json:"min"`
	Max MoneyResponse `json:"max"`
}

type ProjectResponse struct {
	ID                  uuid.UUID       `json:"id"`
	ClientID            uuid.UUID       `json:"client_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	CategoryID          *uuid.UUID      `json:"category_id"`
	RequiredSkills      []uuid.UUID     `json:"required_skills"`
	Budget              BudgetResponse  `json:"budget"`
	Deadline            *time.Time      `json:"deadline"`
	Status              string          `json:"status"`
	Fairness            FairnessRequest `json:"fairness_settings"`
	EscrowTransactionID *uuid.UUID      `json:"escrow_transaction_id"`
	Attachments         []string        `json:"attachments"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func ToProjectResponse(p *entity.Project) ProjectResponse {
	skills := p.RequiredSkills
	if skills == nil {
		skills = []uuid.UUID{}
	}
	attachments := p.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	return ProjectResponse{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Title:          p.Title,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		RequiredSkills: skills,
		Budget: BudgetResponse{
			Min: ToMoneyResponse(p.Budget.Min),
			Max: ToMoneyResponse(p.Budget.Max),
		},
		Deadline: p.Deadline,
		Status:   string(p.Status),
		Fairness: FairnessRequest{
			SkillsFirstMatching: p.Fairness.SkillsFirstMatching,
			BlindProposalReview: p.Fairness.BlindProposalReview,
			NewcomerBoost:       p.Fairness.NewcomerBoost,
			FairPaymentPromise:  p.Fairness.FairPaymentPromise,
		},
		EscrowTransactionID: p.EscrowTransactionID,
		Attachments:         attachments,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func ToProjectResponses(projects []*entity.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, ToProjectResponse(p))
	}
	return responses
}

type ProjectSummaryResponse struct {
	ProjectResponse
	ClientName    string `json:"client_name"`
	CategoryName  string `json:"category_name,omitempty"`
	ProposalCount *int   `json:"proposal_count,omitempty"`
}

// ToProjectSummaryResponses число откликов отдаётся только для открытых проектов.
func ToProjectSummaryResponses(items []*project.ProjectSummary) []ProjectSummaryResponse {
	responses := make([]ProjectSummaryResponse, 0, len(items))
	for _, item := range items {
		resp := ProjectSummaryResponse{
			ProjectResponse: ToProjectResponse(item.Project),
			ClientName:      item.ClientName,
			CategoryName:    item.CategoryName,
		}
		if item.Project.IsOpen() {
			count := item.ProposalCount
			resp.ProposalCount = &count
		}
		responses = append(responses, resp)
	}
	return responses
}

type AttachmentResponse struct {
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

func ToAttachmentResponse(s *storage.Stored) AttachmentResponse {
	return AttachmentResponse{Path: s.Path, MimeType: s.MimeType, Size: s.Size}
}
