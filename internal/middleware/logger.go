package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"foresttrack/internal/models"
	"foresttrack/internal/security"
)

func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		withRequest(event, c).
			Int("status", status).
			Dur("latency", latency).
			Msg("http request")
	}
}

// withRequest attaches the request line, request id and, once Auth has run,
// the session user to event.
func withRequest(event *zerolog.Event, c *gin.Context) *zerolog.Event {
	event = event.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("client_ip", c.ClientIP()).
		Str("request_id", c.GetString(requestIDHeader))

	if user, ok := c.Value(CurrentUserKey).(models.User); ok {
		event = event.Str("user_id", user.ID)
	}
	if claims, ok := c.Value(AccessClaimsKey).(security.AccessClaims); ok {
		event = event.Str("session_id", claims.SessionID)
	}
	return event
}
