package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"prd_planner/internal/apperrors"
	"prd_planner/internal/middlewares"
	"prd_planner/internal/responses"
	"prd_planner/internal/utils"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindGeneration, apperrors.KindUpdate:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err using the envelope. Core errors carry their own message;
// anything else gets fallback.
func fail(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)

	message := fallback
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path": c.FullPath(),
			"kind": apperrors.KindOf(err),
		}).WithError(err).Error(fallback)
	}

	responses.Fail(c, status, err, message)
}

// requestIDs resolves the authenticated user and the :id path parameter.
func requestIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	prdID, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid PRD ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, prdID, true
}
