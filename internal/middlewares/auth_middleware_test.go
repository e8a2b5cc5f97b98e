package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prd_planner/internal/utils"
)

var secret = []byte("middleware-secret")

type revocationList struct {
	revoked map[string]bool
	err     error
}

func (r *revocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.revoked[jti], r.err
}

func newRouter(revocations RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", Authenticate(secret, revocations), func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID.String())
	})
	return router
}

func get(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	token, _, err := utils.GenerateAccessToken(userID, secret, time.Minute)
	require.NoError(t, err)

	w := get(newRouter(nil), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestAuthenticateRejects(t *testing.T) {
	expired, _, err := utils.GenerateAccessToken(uuid.New(), secret, -time.Minute)
	require.NoError(t, err)
	foreign, _, err := utils.GenerateAccessToken(uuid.New(), []byte("other"), time.Minute)
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"garbage":        "Bearer not.a.token",
		"expired":        "Bearer " + expired,
		"wrong secret":   "Bearer " + foreign,
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			w := get(newRouter(nil), header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthenticateRevocation(t *testing.T) {
	token, jti, err := utils.GenerateAccessToken(uuid.New(), secret, time.Minute)
	require.NoError(t, err)

	w := get(newRouter(&revocationList{revoked: map[string]bool{jti: true}}), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")

	w = get(newRouter(&revocationList{revoked: map[string]bool{}}), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(newRouter(&revocationList{err: errors.New("redis down")}), "Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
