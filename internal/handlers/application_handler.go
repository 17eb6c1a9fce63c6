package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/middleware"
	"jobhunt_backend/internal/services"
	"jobhunt_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	jobs.Use(h.RequireAuth())
	{
		jobs.POST("/apply/:id", middleware.RequireAction(auth.ActionApply), h.Apply)
		jobs.GET("/user/dashboard", middleware.RequireAction(auth.ActionViewDashboard), h.Dashboard)
		jobs.GET("/:id/applicants", middleware.RequireAction(auth.ActionViewApplicants), h.ListApplicants)
		jobs.GET("/application/:appId", middleware.RequireAction(auth.ActionViewApplication), h.GetApplication)
		jobs.PATCH("/application/:appId/status", middleware.RequireAction(auth.ActionUpdateStatus), h.UpdateStatus)
	}
}

// Apply godoc
// @Summary Откликнуться на вакансию
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Param resume formData file true "Резюме"
// @Param coverLetter formData string false "Сопроводительное письмо"
// @Success 201 {object} models.Application
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/jobs/apply/{id} [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}

	resumeFile, ok := h.OptionalFile(c, "resume")
	if !ok {
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req, resumeFile)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListApplicants godoc
// @Summary Отклики на вакансию
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID вакансии"
// @Success 200 {object} dto.ApplicantsResponse
// @Router /api/jobs/{id}/applicants [get]
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	resp, err := h.applicationService.ListApplicants(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	view, err := h.applicationService.GetApplication(c.Request.Context(), h.GetDB(c), c.Param("appId"), userID, h.GetRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateStatus godoc
// @Summary Сменить статус отклика
// @Description Если письмо кандидату не отправлено, ответ 200 с полем warning
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param appId path string true "ID отклика"
// @Param request body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} dto.StatusUpdateResponse
// @Router /api/jobs/application/{appId}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), c.Param("appId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary Сохраненные вакансии и отклики с таймлайном
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Router /api/jobs/user/dashboard [get]
func (h *ApplicationHandler) Dashboard(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.applicationService.Dashboard(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
