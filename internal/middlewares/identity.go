package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CurrentUserID returns the user ID set by Authenticate.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}

	switch v := userID.(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, false
		}
		return parsed, true
	default:
		return uuid.Nil, false
	}
}
