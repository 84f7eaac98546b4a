package rbac

import (
	"github.com/gin-gonic/gin"

	"github.com/rthunborg/Masterdata-sub001/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/policies",
			middleware.RBACAuthorize(service, "user", "manage"),
			handler.ListPolicies,
		)
	}
}
