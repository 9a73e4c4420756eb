package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "imagesim/internal/domain/image"
)

const (
	apiKeyHeader   = "X-API-Key"
	userContextKey = "auth.user"
)

// UserLookup resolves an API key to a stored user.
type UserLookup interface {
	FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// APIKeyAuth validates the X-API-Key header against the user table. Requests
// without a matching key are rejected before reaching any handler.
func APIKeyAuth(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(apiKeyHeader)
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		user, err := users.FindByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(c *gin.Context) (*domain.User, bool) {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
