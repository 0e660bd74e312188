package middleware

import (
	"net/http"
	"strings"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/auth"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"

	"github.com/gin-gonic/gin"
)

const ContextUserKey = "currentUser"

// AuthMiddleware validates the bearer token and loads the acting user into
// the request context.
func AuthMiddleware(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := users.FindByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}
