package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foresttrack/internal/service"
)

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and reported as internal.
func (h HandlerSet) writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_server_error"

	switch {
	case errors.Is(err, service.ErrDuplicateAccount):
		status, code = http.StatusConflict, "duplicate_account"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, service.ErrNoSession):
		status, code = http.StatusUnauthorized, "no_session"
	case errors.Is(err, service.ErrOffline):
		status, code = http.StatusConflict, "offline"
	case errors.Is(err, service.ErrLocationUnavailable):
		status, code = http.StatusUnprocessableEntity, "location_unavailable"
	case errors.Is(err, service.ErrReference):
		status, code = http.StatusUnprocessableEntity, "reference"
	case errors.Is(err, service.ErrInvalidRole):
		status, code = http.StatusBadRequest, "invalid_role"
	case errors.Is(err, service.ErrInvalidHealth):
		status, code = http.StatusBadRequest, "invalid_health"
	case errors.Is(err, service.ErrTreeNotFound):
		status, code = http.StatusNotFound, "tree_not_found"
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": code})
}

func badRequest(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": code})
}
