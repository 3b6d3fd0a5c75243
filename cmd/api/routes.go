package main

import (
	"net/http"

	"market-access-platform/internal/audit"
	"market-access-platform/internal/authz"
	"market-access-platform/internal/config"
	"market-access-platform/internal/crm"
	"market-access-platform/internal/guard"
	"market-access-platform/internal/httpapi"
	"market-access-platform/internal/identity"
	"market-access-platform/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(
	r *gin.Engine,
	cfg config.Config,
	crmClient *crm.Client,
	registry *session.Registry,
	auditSvc *audit.Service,
	rdb *redis.Client,
) {
	table := authz.DefaultTable()

	h := httpapi.Handlers{
		CRM:           crmClient,
		Sessions:      registry,
		Switcher:      &session.Switcher{Refresher: crmClient},
		Audit:         auditSvc,
		Redis:         rdb,
		AttemptLimit:  cfg.Session.LoginAttemptLimit,
		AttemptWindow: cfg.Session.LoginAttemptWindow,
		CookieSecret:  cfg.Session.Secret,
		CookieSecure:  cfg.IsProduction(),
	}

	guardCfg := guard.DefaultConfig()
	guardCfg.CookieSecret = cfg.Session.Secret
	r.Use(guard.Middleware(registry, guardCfg))

	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/unauthorized", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"error": "no company scope for this account"})
	})
	r.GET("/login", func(c *gin.Context) {
		// The login page itself is rendered by the browser app; this is the
		// navigation target the guard redirects to.
		c.JSON(http.StatusOK, gin.H{"page": "login"})
	})

	// auth surface
	v1auth := r.Group("/v1/auth")
	{
		v1auth.POST("/login", h.Login)
		v1auth.POST("/switch-company", h.SwitchCompany)
		v1auth.POST("/logout", h.Logout)
	}

	v1 := r.Group("/v1")
	{
		v1.GET("/me", h.Me)
		v1.GET("/session", h.Session)
	}

	// Guarded page areas. The global guard only answers "is there a session";
	// each area opts into page-access enforcement here.
	//
	// NOTE: The area handlers are thin acknowledgements; the CRM UI and its
	// data live behind the external backend, not in this gateway.
	areas := []struct {
		prefix string
		access identity.PageAccess
	}{
		{"/dashboard", identity.PageDashboard},
		{"/leads", identity.PageLead},
		{"/deals", identity.PageDeal},
		{"/organizations", identity.PageOrganization},
		{"/products", identity.PageProduct},
		{"/campaigns", identity.PageCampaign},
		{"/reports", identity.PageReport},
	}
	for _, area := range areas {
		g := r.Group(area.prefix)
		g.Use(guard.RequirePageAccess(table, area.access))
		g.GET("", areaHandler(area.access))
		g.GET("/*rest", areaHandler(area.access))
	}

	// Admin surface: company user management, restricted by role.
	admin := r.Group("/admin")
	admin.Use(guard.RequireAnyRole(identity.RoleAdmin))
	{
		admin.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}

func areaHandler(access identity.PageAccess) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"area": string(access)})
	}
}
