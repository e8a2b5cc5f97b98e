package routes

import (
	"github.com/gin-gonic/gin"

	"prd_planner/internal/handlers"
)

type AuthRoutes struct {
	handler *handlers.AuthHandler
	auth    gin.HandlerFunc
}

func NewAuthRoutes(handler *handlers.AuthHandler, auth gin.HandlerFunc) *AuthRoutes {
	return &AuthRoutes{handler: handler, auth: auth}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/logout", r.auth, r.handler.Logout)
	}
}
