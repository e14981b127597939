package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/escrow"
)

type EscrowHandler struct {
	createUC  *escrow.CreateEscrowUseCase
	getUC     *escrow.GetEscrowUseCase
	listUC    *escrow.ListEscrowsUseCase
	fundUC    *escrow.FundEscrowUseCase
	releaseUC *escrow.ReleaseEscrowUseCase
	disputeUC *escrow.DisputeEscrowUseCase
	refundUC  *escrow.RefundEscrowUseCase
}

func NewEscrowHandler(
	createUC *escrow.CreateEscrowUseCase,
	getUC *escrow.GetEscrowUseCase,
	listUC *escrow.ListEscrowsUseCase,
	fundUC *escrow.FundEscrowUseCase,
	releaseUC *escrow.ReleaseEscrowUseCase,
	disputeUC *escrow.DisputeEscrowUseCase,
	refundUC *escrow.RefundEscrowUseCase,
) *EscrowHandler {
	return &EscrowHandler{
		createUC:  createUC,
		getUC:     getUC,
		listUC:    listUC,
		fundUC:    fundUC,
		releaseUC: releaseUC,
		disputeUC: disputeUC,
		refundUC:  refundUC,
	}
}

// CreateEscrow обрабатывает POST /api/escrow.
func (h *EscrowHandler) CreateEscrow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), escrow.CreateEscrowInput{
		ProjectID:    req.ProjectID,
		ClientID:     userID,
		FreelancerID: req.FreelancerID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Description:  req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToEscrowResponse(created))
}

// GetEscrow обрабатывает GET /api/escrow/:id.
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID транзакции")
	if !ok {
		return
	}

	view, err := h.getUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToEscrowViewResponse(view))
}

// ListMyEscrows обрабатывает GET /api/escrow. Выборка зависит от роли из токена.
func (h *EscrowHandler) ListMyEscrows(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	views, err := h.listUC.Execute(c.Request.Context(), userID, getRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToEscrowViewResponses(views))
}

func (h *EscrowHandler) FundEscrow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID транзакции")
	if !ok {
		return
	}

	t, err := h.fundUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToEscrowResponse(t))
}

func (h *EscrowHandler) ReleaseEscrow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID транзакции")
	if !ok {
		return
	}

	t, err := h.releaseUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToEscrowResponse(t))
}

func (h *EscrowHandler) DisputeEscrow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID транзакции")
	if !ok {
		return
	}

	var req dto.DisputeEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "укажите причину спора")
		return
	}

	t, err := h.disputeUC.Execute(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToEscrowResponse(t))
}

// RefundEscrow обрабатывает POST /api/admin/escrow/:id/refund.
func (h *EscrowHandler) RefundEscrow(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID транзакции")
	if !ok {
		return
	}

	t, err := h.refundUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToEscrowResponse(t))
}
