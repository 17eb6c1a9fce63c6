package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/middleware"
	"jobhunt_backend/internal/services"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/jobs/admin/stats", h.RequireAuth(), middleware.RequireAction(auth.ActionViewStats), h.GetAdminStats)
}

// GetAdminStats godoc
// @Summary Статистика платформы
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminStatsResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /api/jobs/admin/stats [get]
func (h *AnalyticsHandler) GetAdminStats(c *gin.Context) {
	stats, err := h.analyticsService.GetAdminStats(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
