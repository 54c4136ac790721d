package delivery

import (
	"net/http"
	"strings"

	"pushgate-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid bearer token and stores
// the resolved user and session on the context.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		user, session, err := authUsecase.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("session", session)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller's identity when a bearer token
// is present but lets anonymous requests through. Token registration uses
// this: the same endpoint serves signed-in devices and anonymous ones.
func OptionalAuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		user, session, err := authUsecase.ValidateToken(c.Request.Context(), token)
		if err != nil {
			// A stale token degrades to an anonymous request rather than
			// blocking the registration.
			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("session", session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
