package guard

import (
	"net/http"
	"time"

	"market-access-platform/internal/session"

	"github.com/gin-gonic/gin"
)

// CookieName carries the opaque session id issued at login.
const CookieName = "ma_session"

// Config describes the navigation surface the guard protects.
type Config struct {
	// CookieSecret verifies the HMAC on the session cookie. Must match the
	// secret the login handler signs with.
	CookieSecret string

	// AuthPages are pages an authenticated user should not see again (login,
	// password reset). Prefix-matched with a segment boundary.
	AuthPages []string

	// PublicRoutes are reachable without a session.
	PublicRoutes []string

	LoginPath        string
	DashboardPath    string
	UnauthorizedPath string
}

func DefaultConfig() Config {
	return Config{
		AuthPages:        []string{"/login"},
		PublicRoutes:     []string{"/healthz", "/unauthorized", "/v1/auth/login", "/v1/auth/logout", "/v1/session"},
		LoginPath:        "/login",
		DashboardPath:    "/dashboard",
		UnauthorizedPath: "/unauthorized",
	}
}

// Middleware intercepts every navigation before it reaches a handler.
//
// Decision table:
//   - authenticated on an auth page      -> redirect to dashboard
//   - unauthenticated on a guarded page  -> redirect to login
//   - authenticated with zero companies  -> redirect to unauthorized
//   - otherwise                          -> allow, session attached to context
//
// Route-level page-access enforcement is deliberately NOT applied here; areas
// opt in via RequirePageAccess on their route groups. The guard only answers
// "is there a usable session", not "may this session see this feature".
func Middleware(reg *session.Registry, cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		snap, sessionID, authed := currentSession(c, reg, cfg.CookieSecret)

		onAuthPage := matchesAny(path, cfg.AuthPages)
		onPublic := matchesAny(path, cfg.PublicRoutes)

		if !authed {
			if onAuthPage || onPublic {
				c.Next()
				return
			}
			redirect(c, cfg.LoginPath)
			return
		}

		if onAuthPage {
			redirect(c, cfg.DashboardPath)
			return
		}

		// Authenticated identity with zero companies: no roles or page access
		// can be derived, so every guarded page maps to unauthorized.
		if snap.Company == nil && !onPublic {
			redirect(c, cfg.UnauthorizedPath)
			return
		}

		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), sessionID, snap))
		c.Next()
	}
}

func currentSession(c *gin.Context, reg *session.Registry, secret string) (session.Snapshot, string, bool) {
	value, err := c.Cookie(CookieName)
	if err != nil || value == "" {
		return session.Snapshot{}, "", false
	}
	sessionID, ok := ParseSessionCookie(secret, value)
	if !ok {
		return session.Snapshot{}, "", false
	}
	st, ok := reg.Get(sessionID)
	if !ok {
		return session.Snapshot{}, "", false
	}
	snap, ok := st.Current()
	if !ok {
		return session.Snapshot{}, "", false
	}
	// The sweep owns the expired->unauthenticated transition, but a request
	// racing it must not ride an expired token.
	if snap.Expired(time.Now().UTC()) {
		return session.Snapshot{}, "", false
	}
	return snap, sessionID, true
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if path == p {
			return true
		}
		if len(path) > len(p) && path[:len(p)] == p && path[len(p)] == '/' {
			return true
		}
	}
	return false
}

func redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusFound, to)
	c.Abort()
}
