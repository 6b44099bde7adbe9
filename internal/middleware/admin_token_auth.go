package middleware

import (
	"net/http"

	"github.com/SscSPs/homeos_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AdminTokenAuth protects setup endpoints with an x-api-key header checked
// against a bcrypt hash. With an empty hash every request is rejected.
func AdminTokenAuth(tokenHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		if tokenHash == "" {
			logger.Warn("Admin endpoint called but no admin token is configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Admin access is disabled"})
			return
		}

		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" || !utils.CheckPasswordHash(apiKey, tokenHash) {
			logger.Warn("Invalid admin api key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid api key"})
			return
		}

		c.Set("authMethod", "admin_token")
		c.Next()
	}
}
