package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prd_planner/internal/middlewares"
	"prd_planner/internal/responses"
	"prd_planner/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middlewares.ContextTokenID)
	expiresAt := c.GetTime(middlewares.ContextTokenExpiry)

	if err := h.authService.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		fail(c, err, "Failed to logout")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Logged out successfully")
}

// Health handles GET /
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
