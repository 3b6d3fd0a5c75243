package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownCompany means the requested company is not among the
	// identity's memberships.
	ErrUnknownCompany = errors.New("session: identity does not belong to company")

	// ErrStaleToken means the backend returned a token that is already
	// expired; applying it would create a session that dies immediately.
	ErrStaleToken = errors.New("session: refreshed token already expired")
)

// TokenRefresher requests a new token scoped to a different company context.
// Implemented by the CRM backend client.
type TokenRefresher interface {
	RefreshForCompany(ctx context.Context, token, companyID string) (string, error)
}

// Switcher orchestrates the company-switch refresh flow.
//
// All-or-nothing: the new token must be fully validated (decodable and
// unexpired) BEFORE it replaces the old one, so a broken token is never live.
// On any failure the existing session is untouched.
type Switcher struct {
	Refresher TokenRefresher

	// Now is injectable for deterministic tests.
	Now func() time.Time
}

// SwitchCompany requests a companyID-scoped token and atomically swaps it into
// the store together with the new company selection.
func (s *Switcher) SwitchCompany(ctx context.Context, st *Store, companyID string) (Snapshot, error) {
	snap, ok := st.Current()
	if !ok {
		return Snapshot{}, ErrNoSession
	}

	company, ok := snap.Identity.CompanyByID(companyID)
	if !ok {
		return Snapshot{}, ErrUnknownCompany
	}

	token, err := s.Refresher.RefreshForCompany(ctx, snap.Token, companyID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("session: company switch refresh: %w", err)
	}

	// Validate before rotating.
	info, err := DecodeToken(token)
	if err != nil {
		return Snapshot{}, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if !info.ExpiresAt.After(now().UTC()) {
		return Snapshot{}, ErrStaleToken
	}

	// Rotate fails with ErrNoSession if a logout won the race; the stale
	// response is simply discarded.
	return st.Rotate(token, &company)
}
