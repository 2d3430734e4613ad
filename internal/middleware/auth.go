package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"foresttrack/internal/models"
	"foresttrack/internal/security"
)

const (
	CurrentUserKey  = "current_user"
	AccessClaimsKey = "access_claims"
)

// SessionSource reports who holds the session slot.
type SessionSource interface {
	Current(ctx context.Context) (models.User, error)
}

// Auth accepts a bearer token only while the user it was issued to still
// holds the session, so logging out or switching accounts revokes it.
func Auth(secret string, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := sessions.Current(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no_session"})
			return
		}

		if user.ID != claims.UserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_mismatch"})
			return
		}

		c.Set(AccessClaimsKey, *claims)
		c.Set(CurrentUserKey, user)

		c.Next()
	}
}
