package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/catalog"
)

type CatalogHandler struct {
	categoriesUC *catalog.ListCategoriesUseCase
	skillsUC     *catalog.ListSkillsUseCase
}

func NewCatalogHandler(categoriesUC *catalog.ListCategoriesUseCase, skillsUC *catalog.ListSkillsUseCase) *CatalogHandler {
	return &CatalogHandler{categoriesUC: categoriesUC, skillsUC: skillsUC}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoriesUC.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCategoryResponses(categories))
}

// ListSkills обрабатывает GET /api/catalog/skills?category=.
func (h *CatalogHandler) ListSkills(c *gin.Context) {
	skills, err := h.skillsUC.Execute(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToSkillResponses(skills))
}
