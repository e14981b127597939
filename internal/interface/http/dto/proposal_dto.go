package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/entity"
	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/proposal"
)

type TimeframeRequest struct {
	Duration int    `json:"duration" binding:"required"`
	Unit     string `json:"unit" binding:"required"`
}

type MilestoneRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	DueDate     *time.Time `json:"due_date"`
}

type SubmitProposalRequest struct {
	CoverLetter    string             `json:"cover_letter" binding:"required"`
	ProposedBudget float64            `json:"proposed_budget" binding:"required"`
	Timeframe      TimeframeRequest   `json:"timeframe"`
	Milestones     []MilestoneRequest `json:"milestones" binding:"omitempty,dive"`
}

// ToInput переводит запрос во вход use case'а.
func (r SubmitProposalRequest) ToInput(projectID, freelancerID uuid.UUID) proposal.SubmitProposalInput {
	milestones := make([]proposal.MilestoneInput, 0, len(r.Milestones))
	for _, m := range r.Milestones {
		milestones = append(milestones, proposal.MilestoneInput{
			Title:       m.Title,
			Description: m.Description,
			Amount:      m.Amount,
			DueDate:     m.DueDate,
		})
	}
	return proposal.SubmitProposalInput{
		ProjectID:         projectID,
		FreelancerID:      freelancerID,
		CoverLetter:       r.CoverLetter,
		ProposedBudget:    r.ProposedBudget,
		TimeframeDuration: r.Timeframe.Duration,
		TimeframeUnit:     r.Timeframe.Unit,
		Milestones:        milestones,
	}
}

type TimeframeResponse struct {
	Duration int    `json:"duration"`
	Unit     string `json:"unit"`
}

type MilestoneResponse struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Amount      MoneyResponse `json:"amount"`
	DueDate     *time.Time    `json:"due_date"`
}

type ProposalResponse struct {
	ID              uuid.UUID           `json:"id"`
	ProjectID       uuid.UUID           `json:"project_id"`
	FreelancerID    *uuid.UUID          `json:"freelancer_id,omitempty"`
	FreelancerName  string              `json:"freelancer_name,omitempty"`
	ExperienceLevel string              `json:"experience_level,omitempty"`
	IsNewcomer      *bool               `json:"is_newcomer,omitempty"`
	Blind           bool                `json:"blind"`
	ProjectTitle    string              `json:"project_title,omitempty"`
	ProjectStatus   string              `json:"project_status,omitempty"`
	CoverLetter     string              `json:"cover_letter"`
	ProposedBudget  MoneyResponse       `json:"proposed_budget"`
	Timeframe       TimeframeResponse   `json:"timeframe"`
	Milestones      []MilestoneResponse `json:"milestones"`
	Status          string              `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func ToProposalResponse(p *entity.Proposal) ProposalResponse {
	freelancerID := p.FreelancerID
	milestones := make([]MilestoneResponse, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		milestones = append(milestones, MilestoneResponse{
			Title:       m.Title,
			Description: m.Description,
			Amount:      ToMoneyResponse(valueobject.Money{Minor: m.Amount, Currency: p.ProposedBudget.Currency}),
			DueDate:     m.DueDate,
		})
	}

	return ProposalResponse{
		ID:             p.ID,
		ProjectID:      p.ProjectID,
		FreelancerID:   &freelancerID,
		CoverLetter:    p.CoverLetter,
		ProposedBudget: ToMoneyResponse(p.ProposedBudget),
		Timeframe: TimeframeResponse{
			Duration: p.Timeframe.Duration,
			Unit:     string(p.Timeframe.Unit),
		},
		Milestones: milestones,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ToMyProposalResponses список предложений фрилансера с данными проекта.
func ToMyProposalResponses(items []*proposal.MyProposal) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(items))
	for _, item := range items {
		resp := ToProposalResponse(item.Proposal)
		resp.ProjectTitle = item.ProjectTitle
		resp.ProjectStatus = string(item.ProjectStatus)
		responses = append(responses, resp)
	}
	return responses
}

// ToProposalViewResponse учитывает слепой просмотр: без автора, только уровень и флаг новичка.
func ToProposalViewResponse(v *proposal.ProposalView) ProposalResponse {
	resp := ToProposalResponse(v.Proposal)
	resp.FreelancerID = v.FreelancerID
	resp.FreelancerName = v.FreelancerName
	resp.ExperienceLevel = string(v.ExperienceLevel)
	isNewcomer := v.IsNewcomer
	resp.IsNewcomer = &isNewcomer
	resp.Blind = v.Blind
	return resp
}

func ToProposalViewResponses(views []*proposal.ProposalView) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(views))
	for _, v := range views {
		responses = append(responses, ToProposalViewResponse(v))
	}
	return responses
}
