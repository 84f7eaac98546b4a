package column

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
	columns := r.Group("/columns")
	columns.Use(middleware.AuthMiddleware())
	columns.Use(middleware.ContextLogger(logger))
	{
		columns.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "column", "read"),
			handler.List,
		)

		columns.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "column", "create"),
			handler.Create,
		)

		columns.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "column", "update"),
			handler.Update,
		)

		columns.PUT("/:id/permissions",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "column", "manage"),
			handler.SetPermissions,
		)

		columns.POST("/:id/hide",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "column", "manage"),
			handler.Hide,
		)

		columns.POST("/:id/unhide",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "column", "manage"),
			handler.Unhide,
		)

		columns.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "column", "manage"),
			handler.Delete,
		)
	}
}
