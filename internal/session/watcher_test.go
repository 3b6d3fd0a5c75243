package session

import (
	"context"
	"testing"
	"time"

	"market-access-platform/internal/identity"
)

func TestWatcherForcesLogoutOnExpiry(t *testing.T) {
	reg := NewRegistry()
	_, st := reg.New()
	if _, err := st.Establish(
		testIdentity(identity.Company{ID: "c-1", IsDefault: true}),
		signedToken(t, time.Now().Add(-time.Minute)),
	); err != nil {
		t.Fatalf("establish: %v", err)
	}

	expired := make(chan ExpiredSession, 1)
	w := &Watcher{
		Registry:  reg,
		Interval:  5 * time.Millisecond,
		OnExpired: func(e ExpiredSession) { expired <- e },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	select {
	case e := <-expired:
		if e.UserID != "user-1" || e.CompanyID != "c-1" {
			t.Fatalf("unexpected sweep record: %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not sweep the expired session")
	}

	if _, ok := st.Current(); ok {
		t.Fatalf("expected store cleared after forced logout")
	}
}
