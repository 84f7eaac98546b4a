package partydata

import (
	"net/http"

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
	l := zap.L().Named("partydata.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("partydata.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("party data request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// callerRole binds the operation to the authenticated caller's own store.
// There is no path that reads another party's table.
func callerRole(c *gin.Context) (domain.Role, bool) {
	role, err := domain.ParseRole(c.GetString("role"))
	if err != nil {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Unknown caller role", nil)
		c.Abort()
		return "", false
	}
	return role, true
}

func (h *Handler) Get(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), role, c.Param("employeeId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Patch(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req PatchPartyDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http patch party data validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Patch(c.Request.Context(), role, c.Param("employeeId"), req.Updates)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteKeys(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req DeleteKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http delete party data keys validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	if err := h.service.DeleteKeys(c.Request.Context(), role, c.Param("employeeId"), req.ColumnNames); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
