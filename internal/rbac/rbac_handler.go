package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rthunborg/Masterdata-sub001/internal/domain"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
	"github.com/rthunborg/Masterdata-sub001/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, "Unknown role", nil)
		return
	}

	allowed, err := h.service.Enforce(role, req.Resource, req.Action)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

func (h *Handler) ListPolicies(c *gin.Context) {
	role, err := domain.ParseRole(c.Query("role"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, "Unknown role", nil)
		return
	}

	rows := h.service.PoliciesForRole(role)
	resp := make([]PolicyResponse, 0, len(rows))
	for _, row := range rows {
		if len(row) != 3 {
			continue
		}
		resp = append(resp, PolicyResponse{Role: row[0], Resource: row[1], Action: row[2]})
	}

	response.Success(c, http.StatusOK, resp, nil)
}
