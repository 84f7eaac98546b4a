package column

import (
	"net/http"
	"sort"
	"strings"

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
	l := zap.L().Named("column.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("column.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("column request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
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

func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// Optional category filter and stable name ordering for the settings UI.
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		filtered := make([]ColumnResponse, 0, len(resp))
		for _, col := range resp {
			if strings.EqualFold(col.Category, cat) {
				filtered = append(filtered, col)
			}
		}
		resp = filtered
	}
	sort.Slice(resp, func(i, j int) bool {
		return strings.ToLower(resp[i].Name) < strings.ToLower(resp[j].Name)
	})

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create column validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), role, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update column validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), role, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SetPermissions(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http set permissions validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.SetPermissions(c.Request.Context(), role, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Hide(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	resp, err := h.service.Hide(c.Request.Context(), role, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Unhide(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req UnhideColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http unhide column validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Unhide(c.Request.Context(), role, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	resp, err := h.service.Delete(c.Request.Context(), role, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
