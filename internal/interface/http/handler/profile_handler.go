package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/account"
)

type ProfileHandler struct {
	getUC    *account.GetProfileUseCase
	updateUC *account.UpdateProfileUseCase
}

func NewProfileHandler(getUC *account.GetProfileUseCase, updateUC *account.UpdateProfileUseCase) *ProfileHandler {
	return &ProfileHandler{getUC: getUC, updateUC: updateUC}
}

// GetMe обрабатывает GET /api/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	h.render(c, userID)
}

// GetProfile обрабатывает GET /api/users/:id/profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := pathUUID(c, "id", "некорректный ID пользователя")
	if !ok {
		return
	}
	h.render(c, userID)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные профиля")
		return
	}

	profile, err := h.updateUC.Execute(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProfileResponse(profile))
}

func (h *ProfileHandler) render(c *gin.Context, userID uuid.UUID) {
	view, err := h.getUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProfileViewResponse(view))
}
