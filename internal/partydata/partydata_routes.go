package partydata

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/middleware"
	"github.com/rthunborg/Masterdata-sub001/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	partyData := r.Group("/party-data")
	partyData.Use(middleware.AuthMiddleware())
	partyData.Use(middleware.ContextLogger(logger))
	{
		partyData.GET("/:employeeId",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "partydata", "read"),
			handler.Get,
		)

		partyData.PATCH("/:employeeId",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "partydata", "write"),
			handler.Patch,
		)

		partyData.DELETE("/:employeeId/keys",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "partydata", "write"),
			handler.DeleteKeys,
		)
	}
}
