package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
)

// AdminAccess lets a request through with either the X-API-KEY header or an
// admin session token (header, or ?token= for websockets). An empty apiKey disables key access.
func AdminAccess(apiKey string, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-KEY"); apiKey != "" && key != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				c.Set("role", auth.RoleAdmin)
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}

		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			// browsers cannot set headers on websocket upgrades
			raw = c.Query("token")
		}
		claims, err := tokens.Parse(raw)
		if raw == "" || err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
