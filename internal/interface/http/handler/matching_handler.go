package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/matching"
)

type MatchingHandler struct {
	freelancersUC *matching.MatchFreelancersUseCase
	recommendUC   *matching.RecommendProjectsUseCase
	similarUC     *matching.SimilarFreelancersUseCase
}

func NewMatchingHandler(
	freelancersUC *matching.MatchFreelancersUseCase,
	recommendUC *matching.RecommendProjectsUseCase,
	similarUC *matching.SimilarFreelancersUseCase,
) *MatchingHandler {
	return &MatchingHandler{
		freelancersUC: freelancersUC,
		recommendUC:   recommendUC,
		similarUC:     similarUC,
	}
}

// MatchFreelancers обрабатывает GET /api/matching/projects/:id/freelancers.
func (h *MatchingHandler) MatchFreelancers(c *gin.Context) {
	projectID, ok := pathUUID(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	results, err := h.freelancersUC.Execute(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, results)
}

// RecommendProjects обрабатывает GET /api/matching/recommendations для текущего фрилансера.
func (h *MatchingHandler) RecommendProjects(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	results, err := h.recommendUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, results)
}

// SimilarFreelancers обрабатывает GET /api/matching/freelancers/:id/similar.
func (h *MatchingHandler) SimilarFreelancers(c *gin.Context) {
	freelancerID, ok := pathUUID(c, "id", "некорректный ID фрилансера")
	if !ok {
		return
	}

	results, err := h.similarUC.Execute(c.Request.Context(), freelancerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, results)
}
