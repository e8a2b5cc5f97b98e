package routes

import (
	"github.com/gin-gonic/gin"

	"prd_planner/internal/handlers"
)

// RegisterRoutes mounts every route. authRoutes may be nil when no
// revocation store is configured.
func RegisterRoutes(router *gin.Engine, prdRoutes *PrdRoutes, authRoutes *AuthRoutes) {
	api := router.Group("/api/v1")

	prdRoutes.RegisterRoutes(api)
	if authRoutes != nil {
		authRoutes.RegisterRoutes(api)
	}

	router.GET("/", handlers.Health)
}
