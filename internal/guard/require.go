package guard

import (
	"net/http"

	"market-access-platform/internal/authz"
	"market-access-platform/internal/identity"

	"github.com/gin-gonic/gin"
)

// RequirePageAccess gates a route group on the current company's page-access
// tags. This is the opt-in route-level enforcement the global guard leaves out.
func RequirePageAccess(table authz.Table, required ...identity.PageAccess) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := CurrentSnapshot(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
			return
		}
		held := snap.PageAccess()
		if !authz.HasPageAccess(held, required...) && !authz.CanAccessRoute(table, held, c.Request.URL.Path) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireAnyRole allows access if the current company grants any of the given
// role codes. SUPER_ADMIN bypasses the check.
func RequireAnyRole(required ...identity.RoleCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := CurrentSnapshot(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
			return
		}
		roles := snap.Roles()
		if authz.IsSuperAdmin(roles) {
			c.Next()
			return
		}
		if !authz.HasAnyRole(roles, required...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequirePermission gates a single action on a feature via the capability
// table.
func RequirePermission(table authz.Table, feature authz.Feature, perm authz.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := CurrentSnapshot(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
			return
		}
		if !authz.HasPermission(table, snap.Roles(), feature, perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
