package session

import (
	"errors"
	"sync"
	"time"

	"market-access-platform/internal/identity"
)

var (
	// ErrNoSession means the store holds no established session. A company
	// switch whose response lands after logout hits this and is discarded.
	ErrNoSession = errors.New("session: no established session")
)

// Snapshot is an immutable view of a session at one point in time.
// Company is nil when the identity holds zero companies; that is a valid
// authenticated state, not an error.
type Snapshot struct {
	Identity  identity.Identity
	Company   *identity.Company
	Token     string
	ExpiresAt time.Time
}

// Roles returns the current company's roles, or nil without a company.
// Authorization must derive from exactly the current company, never from the
// union across all companies the identity holds.
func (s Snapshot) Roles() []identity.Role {
	if s.Company == nil {
		return nil
	}
	return s.Company.Roles
}

// PageAccess returns the current company's page-access tags, or nil.
func (s Snapshot) PageAccess() []identity.PageAccess {
	if s.Company == nil {
		return nil
	}
	return s.Company.PageAccess
}

// Expired reports whether the session's token expiry has passed.
func (s Snapshot) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store holds one browser session: the authenticated identity, the active
// company selection, and the current token with its decoded expiry.
//
// Establish/Rotate/Clear are the only mutators. All accesses go through the
// mutex so a reader never observes a token paired with the wrong expiry.
type Store struct {
	mu sync.RWMutex

	established bool
	ident       identity.Identity
	company     *identity.Company
	token       string
	expiresAt   time.Time
}

func NewStore() *Store { return &Store{} }

// Current returns the live session snapshot, or false if unauthenticated.
func (s *Store) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.established {
		return Snapshot{}, false
	}
	return s.snapshotLocked(), true
}

// Establish installs a session after a successful credential exchange.
// Current company selection: first company with IsDefault, else first with
// IsPrimary, else first in list, else none.
//
// A malformed token fails the whole call; no session is established.
func (s *Store) Establish(ident identity.Identity, token string) (Snapshot, error) {
	info, err := DecodeToken(token)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.established = true
	s.ident = ident
	s.company = selectCompany(ident.Companies)
	s.token = token
	s.expiresAt = info.ExpiresAt
	return s.snapshotLocked(), nil
}

// Rotate replaces the token and, when company is non-nil, the current company
// selection. Identity is never altered. Last write wins: two in-flight company
// switches are both independently validated before they get here, so applying
// the later one is safe.
func (s *Store) Rotate(token string, company *identity.Company) (Snapshot, error) {
	info, err := DecodeToken(token)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.established {
		return Snapshot{}, ErrNoSession
	}
	s.token = token
	s.expiresAt = info.ExpiresAt
	if company != nil {
		c := *company
		s.company = &c
	}
	return s.snapshotLocked(), nil
}

// Clear destroys the session. Logout is terminal: any in-flight refresh
// response arriving afterwards fails Rotate with ErrNoSession.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.established = false
	s.ident = identity.Identity{}
	s.company = nil
	s.token = ""
	s.expiresAt = time.Time{}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Identity:  s.ident,
		Token:     s.token,
		ExpiresAt: s.expiresAt,
	}
	if s.company != nil {
		c := *s.company
		snap.Company = &c
	}
	return snap
}

func selectCompany(companies []identity.Company) *identity.Company {
	for i := range companies {
		if companies[i].IsDefault {
			c := companies[i]
			return &c
		}
	}
	for i := range companies {
		if companies[i].IsPrimary {
			c := companies[i]
			return &c
		}
	}
	if len(companies) > 0 {
		c := companies[0]
		return &c
	}
	return nil
}
