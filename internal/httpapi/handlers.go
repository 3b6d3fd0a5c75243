package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"market-access-platform/internal/audit"
	"market-access-platform/internal/crm"
	"market-access-platform/internal/guard"
	"market-access-platform/internal/identity"
	"market-access-platform/internal/session"
	"market-access-platform/pkg/logger"
	"market-access-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal modules, return JSON.
type Handlers struct {
	CRM      *crm.Client
	Sessions *session.Registry
	Switcher *session.Switcher
	Audit    *audit.Service

	// Redis backs login throttling. Nil disables throttling (tests, local).
	Redis         *redis.Client
	AttemptLimit  int
	AttemptWindow time.Duration

	// CookieSecret signs the session cookie; the guard verifies with the
	// same secret. CookieSecure should be true outside local envs.
	CookieSecret string
	CookieSecure bool
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// Login performs the credential exchange against the CRM backend and
// establishes a browser session on success.
func (h Handlers) Login(c *gin.Context) {
	if h.CRM == nil || h.Sessions == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.UsernameOrEmail = strings.TrimSpace(req.UsernameOrEmail)
	if req.UsernameOrEmail == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "usernameOrEmail and password required"})
		return
	}

	throttleKey := "login_attempts:" + strings.ToLower(req.UsernameOrEmail)
	if h.Redis != nil {
		allowed, err := utils.AllowLoginAttempt(c.Request.Context(), h.Redis, throttleKey, h.AttemptLimit, h.AttemptWindow)
		if err != nil {
			// Throttling is protective, not load-bearing; a redis outage must
			// not lock everyone out.
			logger.FromGin(c).Warn("login throttle check failed", "err", err)
		} else if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
			return
		}
	}

	ident, token, err := h.CRM.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		h.auditBestEffort(c, func() error {
			return h.Audit.LoginFailed(c.Request.Context(), req.UsernameOrEmail, c.ClientIP(), failureMessage(err))
		})
		var apiErr *crm.APIError
		if errors.As(err, &apiErr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apiErr.Message})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "credential exchange failed"})
		return
	}

	// A re-login replaces whatever session this browser already holds, so
	// repeated logins do not accumulate live stores.
	if prev, cookieErr := c.Cookie(guard.CookieName); cookieErr == nil {
		if prevID, ok := guard.ParseSessionCookie(h.CookieSecret, prev); ok {
			h.Sessions.Remove(prevID)
		}
	}

	sessionID, store := h.Sessions.New()
	snap, err := store.Establish(ident, token)
	if err != nil {
		// An undecodable token has no trustworthy expiry; no session may exist.
		h.Sessions.Remove(sessionID)
		h.auditBestEffort(c, func() error {
			return h.Audit.LoginFailed(c.Request.Context(), req.UsernameOrEmail, c.ClientIP(), "malformed token from backend")
		})
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "backend returned an unusable token"})
		return
	}

	if h.Redis != nil {
		if err := utils.ResetLoginAttempts(c.Request.Context(), h.Redis, throttleKey); err != nil {
			logger.FromGin(c).Warn("login throttle reset failed", "err", err)
		}
	}
	h.setSessionCookie(c, sessionID, snap.ExpiresAt)
	h.auditBestEffort(c, func() error {
		return h.Audit.LoginSucceeded(c.Request.Context(), snap.Identity.UserID, companyID(snap), sessionID, c.ClientIP())
	})

	c.JSON(http.StatusOK, sessionView(snap))
}

type switchCompanyRequest struct {
	CompanyID string `json:"companyId"`
}

// SwitchCompany rotates the session token to one scoped to another company the
// identity belongs to. All-or-nothing: on any failure the session is unchanged.
func (h Handlers) SwitchCompany(c *gin.Context) {
	if h.Switcher == nil || h.Sessions == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	sessionID, err := guard.SessionID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}
	store, ok := h.Sessions.Get(sessionID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}

	var req switchCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CompanyID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "companyId required"})
		return
	}

	snap, err := h.Switcher.SwitchCompany(c.Request.Context(), store, req.CompanyID)
	if err != nil {
		switch {
		case errors.Is(err, crm.ErrUnauthorized):
			// The backend no longer honors our token; the session is dead.
			h.dropSession(c, sessionID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		case errors.Is(err, session.ErrUnknownCompany):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "not a member of that company"})
		case errors.Is(err, session.ErrNoSession):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		default:
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "company switch failed"})
		}
		return
	}

	h.setSessionCookie(c, sessionID, snap.ExpiresAt)
	h.auditBestEffort(c, func() error {
		return h.Audit.CompanySwitched(c.Request.Context(), snap.Identity.UserID, companyID(snap), sessionID, c.ClientIP())
	})
	c.JSON(http.StatusOK, sessionView(snap))
}

// Logout invalidates the backend token best-effort and always clears the local
// session.
func (h Handlers) Logout(c *gin.Context) {
	sessionID, err := guard.SessionID(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	snap, snapErr := guard.CurrentSnapshot(c.Request.Context())
	if snapErr == nil && h.CRM != nil {
		if err := h.CRM.Logout(c.Request.Context(), snap.Token); err != nil {
			logger.FromGin(c).Warn("backend logout failed", "err", err)
		}
	}

	h.dropSession(c, sessionID)
	if snapErr == nil {
		h.auditBestEffort(c, func() error {
			return h.Audit.LoggedOut(c.Request.Context(), snap.Identity.UserID, companyID(snap), sessionID, c.ClientIP())
		})
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me returns the authenticated identity with the active company's grants.
func (h Handlers) Me(c *gin.Context) {
	snap, err := guard.CurrentSnapshot(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}
	c.JSON(http.StatusOK, sessionView(snap))
}

// Session is the lightweight probe the browser polls between navigations.
func (h Handlers) Session(c *gin.Context) {
	snap, err := guard.CurrentSnapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"companyId":     companyID(snap),
		"expiresAt":     snap.ExpiresAt.UnixMilli(),
	})
}

func (h Handlers) setSessionCookie(c *gin.Context, sessionID string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(guard.CookieName, guard.SignSessionID(h.CookieSecret, sessionID), maxAge, "/", "", h.CookieSecure, true)
}

func (h Handlers) dropSession(c *gin.Context, sessionID string) {
	h.Sessions.Remove(sessionID)
	c.SetCookie(guard.CookieName, "", -1, "/", "", h.CookieSecure, true)
}

func (h Handlers) auditBestEffort(c *gin.Context, fn func() error) {
	if h.Audit == nil {
		return
	}
	if err := fn(); err != nil {
		logger.FromGin(c).Warn("audit append failed", "err", err)
	}
}

func companyID(snap session.Snapshot) string {
	if snap.Company == nil {
		return ""
	}
	return snap.Company.ID
}

type companyPayload struct {
	CompanyID   string                `json:"companyId"`
	DisplayName string                `json:"displayName"`
	Roles       []identity.RoleCode   `json:"roles"`
	PageAccess  []identity.PageAccess `json:"pageAccess"`
}

type sessionPayload struct {
	UserID          string           `json:"userId"`
	FullName        string           `json:"fullName"`
	Email           string           `json:"email"`
	Company         *companyPayload  `json:"company,omitempty"`
	CompanyChoices  []companyPayload `json:"companies"`
	ExpiresAtMillis int64            `json:"expiresAt"`
}

func sessionView(snap session.Snapshot) sessionPayload {
	out := sessionPayload{
		UserID:          snap.Identity.UserID,
		FullName:        snap.Identity.FullName,
		Email:           snap.Identity.Email,
		ExpiresAtMillis: snap.ExpiresAt.UnixMilli(),
	}
	for _, comp := range snap.Identity.Companies {
		out.CompanyChoices = append(out.CompanyChoices, companyView(comp))
	}
	if snap.Company != nil {
		v := companyView(*snap.Company)
		out.Company = &v
	}
	return out
}

func companyView(comp identity.Company) companyPayload {
	v := companyPayload{
		CompanyID:   comp.ID,
		DisplayName: comp.DisplayName,
		PageAccess:  comp.PageAccess,
	}
	for _, r := range comp.Roles {
		v.Roles = append(v.Roles, r.Code)
	}
	return v
}

func failureMessage(err error) string {
	var apiErr *crm.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "credential exchange failed"
}
