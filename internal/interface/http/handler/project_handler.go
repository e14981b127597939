package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
	"github.com/ignatzorin/fairlance-backend/internal/usecase/project"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ProjectHandler struct {
	createUC     *project.CreateProjectUseCase
	getUC        *project.GetProjectUseCase
	listOpenUC   *project.ListOpenProjectsUseCase
	listClientUC *project.ListClientProjectsUseCase
	listHiredUC  *project.ListFreelancerProjectsUseCase
	completeUC   *project.CompleteProjectUseCase
	attachUC     *project.AddAttachmentUseCase
}

func NewProjectHandler(
	createUC *project.CreateProjectUseCase,
	getUC *project.GetProjectUseCase,
	listOpenUC *project.ListOpenProjectsUseCase,
	listClientUC *project.ListClientProjectsUseCase,
	listHiredUC *project.ListFreelancerProjectsUseCase,
	completeUC *project.CompleteProjectUseCase,
	attachUC *project.AddAttachmentUseCase,
) *ProjectHandler {
	return &ProjectHandler{
		createUC:     createUC,
		getUC:        getUC,
		listOpenUC:   listOpenUC,
		listClientUC: listClientUC,
		listHiredUC:  listHiredUC,
		completeUC:   completeUC,
		attachUC:     attachUC,
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProjectResponse(created))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathUUID(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	p, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(p))
}

// ListOpenProjects обрабатывает GET /api/projects?category_id=&skill_id=&limit=&offset=.
func (h *ProjectHandler) ListOpenProjects(c *gin.Context) {
	categoryID, err := parseUUIDQuery(c, "category_id")
	if err != nil {
		response.BadRequest(c, "некорректный category_id")
		return
	}
	skillID, err := parseUUIDQuery(c, "skill_id")
	if err != nil {
		response.BadRequest(c, "некорректный skill_id")
		return
	}

	limit := parseIntQuery(c, "limit", defaultPageLimit)
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	offset := parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	projects, total, err := h.listOpenUC.Execute(c.Request.Context(), project.ListOpenProjectsInput{
		CategoryID: categoryID,
		SkillID:    skillID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToProjectSummaryResponses(projects), total, limit, offset)
}

// ListMyProjects для фрилансера отдаёт проекты с принятым предложением, для клиента свои.
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if getRole(c) == valueobject.RoleFreelancer {
		hired, err := h.listHiredUC.Execute(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, dto.ToProjectSummaryResponses(hired))
		return
	}

	projects, err := h.listClientUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponses(projects))
}

// CompleteProject обрабатывает POST /api/projects/:id/complete. Вызывает фрилансер.
func (h *ProjectHandler) CompleteProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	p, err := h.completeUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(p))
}

// UploadAttachment обрабатывает multipart POST /api/projects/:id/attachments, поле file.
func (h *ProjectHandler) UploadAttachment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "файл обязателен")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	stored, err := h.attachUC.Execute(c.Request.Context(), id, userID, header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToAttachmentResponse(stored))
}
