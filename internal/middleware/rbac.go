// rbac.go implements role-based authorization middleware. Roles are read from
// the user row loaded by AuthMiddleware rather than trusted from JWT claims, so
// a role change takes effect on the user's next request.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
)

// RequireRole checks if the authenticated user holds one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid role format",
			})
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Missing required role",
		})
	}
}

// RequireAdmin restricts the route to admin users
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireWriter restricts the route to users who may modify inventory data
func RequireWriter() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin, models.RoleEditor)
}
