package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("importer.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("importer.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("import request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func callerRole(c *gin.Context) (domain.Role, bool) {
	role, err := domain.ParseRole(c.GetString("role"))
	if err != nil {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Unknown caller role", nil)
		c.Abort()
		return "", false
	}
	return role, true
}

// Import accepts multipart form data: a "file" part with the CSV and an
// optional "mapping" part holding a JSON header-to-field object.
func (h *Handler) Import(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, "Missing file upload", nil)
		return
	}

	var mapping Mapping
	if raw := c.PostForm("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, "Invalid mapping JSON", nil)
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer file.Close()

	result, err := h.service.ImportEmployees(c.Request.Context(), role, file, mapping)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Export(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("employees-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.service.ExportEmployees(c.Request.Context(), role, c.Writer); err != nil {
		h.writeServiceError(c, err)
		return
	}
}
