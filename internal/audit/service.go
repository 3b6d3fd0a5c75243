package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for auth events.
// It MUST be append-only; no Update/Delete methods exist.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records auth activity. Internal-only; not exposed to end users.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LoginSucceeded records a successful credential exchange.
func (s *Service) LoginSucceeded(ctx context.Context, userID, companyID, sessionID, ip string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeLoginSucceeded,
		ActorUserID: userID,
		CompanyID:   companyID,
		SessionID:   sessionID,
		IPAddress:   ip,
	})
}

// LoginFailed records a rejected credential exchange. Only the attempted
// identifier is known at this point.
func (s *Service) LoginFailed(ctx context.Context, email, ip, message string) error {
	return s.Append(ctx, Event{
		Type:       EventTypeLoginFailed,
		ActorEmail: email,
		IPAddress:  ip,
		Message:    message,
	})
}

// CompanySwitched records a successful company-scoped token rotation.
func (s *Service) CompanySwitched(ctx context.Context, userID, companyID, sessionID, ip string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeCompanySwitched,
		ActorUserID: userID,
		CompanyID:   companyID,
		SessionID:   sessionID,
		IPAddress:   ip,
	})
}

// LoggedOut records an explicit logout.
func (s *Service) LoggedOut(ctx context.Context, userID, companyID, sessionID, ip string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeLoggedOut,
		ActorUserID: userID,
		CompanyID:   companyID,
		SessionID:   sessionID,
		IPAddress:   ip,
	})
}

// SessionExpired records a forced logout by the expiry sweep.
func (s *Service) SessionExpired(ctx context.Context, userID, companyID, sessionID string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeSessionExpired,
		ActorUserID: userID,
		CompanyID:   companyID,
		SessionID:   sessionID,
		Message:     "token expiry reached",
	})
}
