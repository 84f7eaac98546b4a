package employee

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
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
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

func (h *Handler) Create(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
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

func (h *Handler) GetAll(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp = filterEmployees(resp,
		strings.TrimSpace(c.Query("q")),
		c.Query("include_archived") == "true",
		c.Query("include_terminated") == "true",
	)
	sortEmployees(resp, c.Query("sort"))

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), role, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update employee validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), role, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateFields(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update employee fields validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.UpdateFields(c.Request.Context(), role, c.Param("id"), req.Updates)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Archive(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req ArchiveEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http archive employee validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Archive(c.Request.Context(), role, c.Param("id"), *req.Archived)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Terminate(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		return
	}

	var req TerminateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http terminate employee validation failed", zap.Error(err))
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Terminate(c.Request.Context(), role, c.Param("id"), req)
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

	if err := h.service.Delete(c.Request.Context(), role, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

// filterEmployees applies the list query params: free-text search over the
// visible columns and the archived/terminated toggles (both hidden by
// default).
func filterEmployees(empls []ProjectedEmployeeResponse, q string, includeArchived, includeTerminated bool) []ProjectedEmployeeResponse {
	out := make([]ProjectedEmployeeResponse, 0, len(empls))
	needle := strings.ToLower(q)
	for _, e := range empls {
		if e.IsArchived && !includeArchived {
			continue
		}
		if e.IsTerminated && !includeTerminated {
			continue
		}
		if needle != "" && !matchesQuery(e, needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesQuery(e ProjectedEmployeeResponse, needle string) bool {
	for _, v := range e.Columns {
		s, ok := v.(string)
		if ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func sortEmployees(empls []ProjectedEmployeeResponse, key string) {
	if key == "" {
		key = "Last Name"
	}
	sort.SliceStable(empls, func(i, j int) bool {
		a, _ := empls[i].Columns[key].(string)
		b, _ := empls[j].Columns[key].(string)
		if strings.EqualFold(a, b) {
			return empls[i].ID < empls[j].ID
		}
		return strings.ToLower(a) < strings.ToLower(b)
	})
}
