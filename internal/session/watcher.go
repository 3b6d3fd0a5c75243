package session

import (
	"context"
	"time"
)

// Watcher runs the periodic expiry check. Session expiry is handled by this
// sweep, not by exceptions in request paths: a request racing the sweep either
// sees a valid session or none at all.
type Watcher struct {
	Registry *Registry
	Interval time.Duration

	// OnExpired is invoked once per swept session (forced logout). Optional.
	OnExpired func(ExpiredSession)

	// Now is injectable for deterministic tests.
	Now func() time.Time
}

// Run sweeps until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	now := w.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, exp := range w.Registry.Sweep(now().UTC()) {
				if w.OnExpired != nil {
					w.OnExpired(exp)
				}
			}
		}
	}
}
