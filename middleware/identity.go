package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireIdentity trusts the upstream gateway's identity headers. X-User-ID
// must be present; X-User-Email is optional and used for notifications.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set("userID", userID)
		c.Set("userEmail", c.GetHeader("X-User-Email"))
		c.Next()
	}
}
