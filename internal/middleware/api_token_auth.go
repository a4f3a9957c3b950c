package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKeyAuth guards administrator routes with a static x-api-key header.
// An empty key disables the admin API entirely.
func AdminKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		if apiKey == "" {
			logger.Warn("Admin API requested but no admin key is configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin API disabled"})
			return
		}

		provided := c.GetHeader("x-api-key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			logger.Warn("Invalid admin API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Set("authMethod", "api_key")
		c.Next()
	}
}
