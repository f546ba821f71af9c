package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards cache-management endpoints with a static bearer
// token. An empty configured token disables the guard (local development).
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		// Extract token from "Bearer <token>". Header only: a query param
		// would leak the secret into access logs and proxies.
		authHeader := c.GetHeader("Authorization")
		supplied := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				supplied = parts[1]
			}
		}
		if supplied == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Admin token is required",
			})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid admin token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
