package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-access-platform/internal/authz"
	"market-access-platform/internal/identity"
	"market-access-platform/internal/session"

	"github.com/gin-gonic/gin"
)

func injectSession(t *testing.T, comp identity.Company) gin.HandlerFunc {
	t.Helper()
	return func(c *gin.Context) {
		st := session.NewStore()
		ident := identity.Identity{UserID: "u", Companies: []identity.Company{comp}}
		snap, err := st.Establish(ident, signedToken(t, time.Now().Add(time.Hour)))
		if err != nil {
			t.Fatalf("establish: %v", err)
		}
		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), "sess-1", snap))
		c.Next()
	}
}

func TestRequirePageAccessAllowsHeldArea(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	comp := identity.Company{ID: "c-1", IsDefault: true, PageAccess: []identity.PageAccess{identity.PageProduct}}
	r.GET("/products", injectSession(t, comp), RequirePageAccess(authz.DefaultTable(), identity.PageProduct), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequirePageAccessDeniesUnheldArea(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	comp := identity.Company{ID: "c-1", IsDefault: true, PageAccess: []identity.PageAccess{identity.PageLead}}
	r.GET("/products", injectSession(t, comp), RequirePageAccess(authz.DefaultTable(), identity.PageProduct), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequirePageAccessWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", RequirePageAccess(authz.DefaultTable(), identity.PageProduct), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAnyRoleSuperAdminBypasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	comp := identity.Company{ID: "c-1", Roles: []identity.Role{{Code: identity.RoleSuperAdmin}}}
	r.GET("/admin", injectSession(t, comp), RequireAnyRole(identity.RoleAdmin), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireAnyRoleDeniesMissingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	comp := identity.Company{ID: "c-1", Roles: []identity.Role{{Code: identity.RoleUser}}}
	r.GET("/admin", injectSession(t, comp), RequireAnyRole(identity.RoleAdmin), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequirePermissionChecksCapabilityTable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	comp := identity.Company{ID: "c-1", Roles: []identity.Role{{Code: identity.RoleManager}}}
	r.DELETE("/leads/:id", injectSession(t, comp), RequirePermission(authz.DefaultTable(), authz.FeatureLead, authz.PermDelete), func(c *gin.Context) {
		c.Status(200)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/leads/1", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("manager must not delete leads, got %d", w.Code)
	}
}
