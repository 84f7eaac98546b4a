package notify

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	group := r.Group("/notify")
	group.Use(middleware.AuthMiddleware())
	group.Use(middleware.ContextLogger(logger))
	{
		group.PUT("/session", middleware.RateLimitByUser(5, 20), handler.RegisterSession)
		group.DELETE("/session/:sessionId", middleware.RateLimitByUser(5, 20), handler.RemoveSession)
		group.GET("/stream", handler.Stream)
	}
}
