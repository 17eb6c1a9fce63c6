package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/logger"
	"jobhunt_backend/internal/middleware"
	"jobhunt_backend/internal/services"
	"jobhunt_backend/internal/storage"
	"jobhunt_backend/pkg/apperrors"
)

type FileHandler struct {
	*BaseHandler
	storage            storage.Storage
	applicationService services.ApplicationService
}

func NewFileHandler(base *BaseHandler, storage storage.Storage, applicationService services.ApplicationService) *FileHandler {
	return &FileHandler{
		BaseHandler:        base,
		storage:            storage,
		applicationService: applicationService,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	files.Use(h.RequireAuth())
	{
		files.GET("/resumes/:name", middleware.RequireAction(auth.ActionReadResume), h.ServeResume)
	}
}

// ServeResume godoc
// @Summary Скачать резюме
// @Description Доступно администратору и владельцу файла
// @Tags files
// @Produce application/octet-stream
// @Security BearerAuth
// @Param name path string true "Имя файла"
// @Success 200 {file} file
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/files/resumes/{name} [get]
func (h *FileHandler) ServeResume(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	name := c.Param("name")
	if name == "" || name == "." || name == ".." {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file name"))
		return
	}
	key := path.Join("resumes", name)

	if err := h.applicationService.AuthorizeResumeAccess(c.Request.Context(), h.GetDB(c), key, userID, h.GetRole(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			apperrors.HandleError(c, apperrors.ErrFileNotFound)
		case errors.Is(err, storage.ErrInvalidKey):
			apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file name"))
		default:
			h.HandleServiceError(c, err)
		}
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, no-store")
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	} else {
		c.Header("Content-Disposition", "inline")
	}
	c.Status(http.StatusOK)

	// Заголовки уже отправлены, ошибку только логируем
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.CtxWarn(c.Request.Context(), "resume streaming interrupted", "key", key, "error", err.Error())
		_ = c.Error(err)
	}
}
