package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
)

// RequireRole gates a route group on the principal's role: one explicit
// membership check, run after ValidateToken.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "login required", "redirect": "/auth/login"})
			c.Abort()
			return
		}
		role := models.Role(val.(string))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
		c.Abort()
	}
}
