package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// loginGrace is how long a never-established store survives sweeps. A store is
// only ever in that state between New and Establish during a login, so the
// grace keeps a sweep tick from evicting a login in flight; anything older is
// an abandoned husk (failed logins call Remove themselves).
const loginGrace = time.Minute

type registryEntry struct {
	store   *Store
	created time.Time
}

// Registry maps opaque session IDs (carried in a browser cookie) to per-browser
// stores. It is the server-side rendering of "one session per browser".
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// New creates an empty store under a fresh opaque id.
func (r *Registry) New() (string, *Store) {
	id := uuid.NewString()
	st := NewStore()

	r.mu.Lock()
	r.entries[id] = registryEntry{store: st, created: time.Now()}
	r.mu.Unlock()
	return id, st
}

// Get returns the store for id, or false if unknown.
func (r *Registry) Get(id string) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.store, ok
}

// Remove clears and drops the store for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok {
		e.store.Clear()
	}
}

// ExpiredSession identifies a session cleared by a sweep, for audit purposes.
type ExpiredSession struct {
	SessionID string
	UserID    string
	CompanyID string
}

// Sweep transitions every AUTHENTICATED(expired) session to UNAUTHENTICATED:
// stores whose token expiry has passed are cleared and dropped. Returns the
// swept sessions so the caller can emit forced-logout audit events.
func (r *Registry) Sweep(now time.Time) []ExpiredSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	var swept []ExpiredSession
	for id, e := range r.entries {
		snap, ok := e.store.Current()
		if !ok {
			// Not established: either a login in flight (spare it) or an
			// abandoned husk past the grace (drop it).
			if now.Sub(e.created) >= loginGrace {
				delete(r.entries, id)
			}
			continue
		}
		if !snap.Expired(now) {
			continue
		}
		e.store.Clear()
		delete(r.entries, id)
		exp := ExpiredSession{SessionID: id, UserID: snap.Identity.UserID}
		if snap.Company != nil {
			exp.CompanyID = snap.Company.ID
		}
		swept = append(swept, exp)
	}
	return swept
}

// Len reports the number of live stores.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
