package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/middleware"
	"jobhunt_backend/internal/services"
	"jobhunt_backend/internal/services/dto"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		// Публичные
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)

		// Администратор
		jobs.POST("", h.RequireAuth(), middleware.RequireAction(auth.ActionManageJobs), h.CreateJob)
		jobs.DELETE("/:id", h.RequireAuth(), middleware.RequireAction(auth.ActionManageJobs), h.DeleteJob)

		// Пользователь
		jobs.POST("/save/:id", h.RequireAuth(), middleware.RequireAction(auth.ActionSaveJob), h.SaveJob)
		jobs.DELETE("/save/:id", h.RequireAuth(), middleware.RequireAction(auth.ActionSaveJob), h.UnsaveJob)
	}
}

// ListJobs godoc
// @Summary Список вакансий
// @Description Новые первыми. Общее количество в заголовке X-Total-Count.
// @Tags jobs
// @Produce json
// @Param q query string false "Поиск по названию, компании, городу"
// @Param type query string false "Тип занятости"
// @Param location query string false "Локация"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {array} models.Job
// @Router /api/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	query := &dto.JobListQuery{
		Query:    strings.TrimSpace(c.Query("q")),
		Type:     strings.TrimSpace(c.Query("type")),
		Location: strings.TrimSpace(c.Query("location")),
		Page:     page,
		PageSize: pageSize,
	}

	jobs, total, err := h.jobService.ListJobs(c.Request.Context(), h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, jobs)
}

// GetJob godoc
// @Summary Вакансия по ID
// @Tags jobs
// @Produce json
// @Param id path string true "ID вакансии"
// @Success 200 {object} models.Job
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CreateJob godoc
// @Summary Создать вакансию
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Вакансия"
// @Success 201 {object} models.Job
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /api/jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Job deleted successfully"})
}

// SaveJob возвращает актуальный список сохраненных вакансий
func (h *JobHandler) SaveJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	saved, err := h.jobService.SaveJob(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

func (h *JobHandler) UnsaveJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	saved, err := h.jobService.UnsaveJob(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}
