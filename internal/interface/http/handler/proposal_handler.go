package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/proposal"
)

type ProposalHandler struct {
	submitUC      *proposal.SubmitProposalUseCase
	getUC         *proposal.GetProposalUseCase
	listProjectUC *proposal.ListProjectProposalsUseCase
	listMineUC    *proposal.ListMyProposalsUseCase
	acceptUC      *proposal.AcceptProposalUseCase
	withdrawUC    *proposal.WithdrawProposalUseCase
}

func NewProposalHandler(
	submitUC *proposal.SubmitProposalUseCase,
	getUC *proposal.GetProposalUseCase,
	listProjectUC *proposal.ListProjectProposalsUseCase,
	listMineUC *proposal.ListMyProposalsUseCase,
	acceptUC *proposal.AcceptProposalUseCase,
	withdrawUC *proposal.WithdrawProposalUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		submitUC:      submitUC,
		getUC:         getUC,
		listProjectUC: listProjectUC,
		listMineUC:    listMineUC,
		acceptUC:      acceptUC,
		withdrawUC:    withdrawUC,
	}
}

// SubmitProposal обрабатывает POST /api/projects/:id/proposals.
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	var req dto.SubmitProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.submitUC.Execute(c.Request.Context(), req.ToInput(projectID, userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProposalResponse(created))
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	view, err := h.getUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalViewResponse(view))
}

// ListProjectProposals обрабатывает GET /api/projects/:id/proposals.
func (h *ProposalHandler) ListProjectProposals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	views, err := h.listProjectUC.Execute(c.Request.Context(), projectID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalViewResponses(views))
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	mine, err := h.listMineUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToMyProposalResponses(mine))
}

func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	p, err := h.acceptUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(p))
}

func (h *ProposalHandler) WithdrawProposal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID предложения")
	if !ok {
		return
	}

	p, err := h.withdrawUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(p))
}
