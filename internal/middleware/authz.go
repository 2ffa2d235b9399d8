package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/versin01/vertical-systems-crm/internal/authz"
)

// RoleFrom reads the role set by AuthMiddleware.
func RoleFrom(c *gin.Context) (authz.Role, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(authz.Role)
	return role, ok
}

// RequireSection lets the request through only if the caller's role may open section.
func RequireSection(section authz.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		if !authz.Can(role, section) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ReadOnlyGuard rejects unsafe methods for read-only roles.
func ReadOnlyGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := RoleFrom(c)
		if authz.IsReadOnly(role) {
			switch c.Request.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
			default:
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "read-only role"})
				return
			}
		}
		c.Next()
	}
}
