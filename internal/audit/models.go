package audit

import "time"

// Event is an immutable, append-only record of an authentication-related
// action at the gateway.
//
// Invariants:
// - Events are never updated or deleted.
// - Recording is best-effort; auth flows must not block on audit failures.
//
// Storage (Postgres): table auth_events with an INSERT-only policy.
type Event struct {
	ID string `json:"id" db:"id"`

	// Type categorizes the auth activity.
	Type EventType `json:"type" db:"type"`

	// CompanyID is the active company at the time of the event. Empty for
	// failed logins (no company context exists yet).
	CompanyID string `json:"company_id,omitempty" db:"company_id"`

	// ActorUserID identifies the authenticated user, when known.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	// ActorEmail captures the attempted identifier for failed logins.
	ActorEmail string `json:"actor_email,omitempty" db:"actor_email"`

	SessionID string `json:"session_id,omitempty" db:"session_id"`

	// IPAddress is the resolved client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLoginSucceeded  EventType = "login_succeeded"
	EventTypeLoginFailed     EventType = "login_failed"
	EventTypeCompanySwitched EventType = "company_switched"
	EventTypeLoggedOut       EventType = "logged_out"
	EventTypeSessionExpired  EventType = "session_expired"
)
