package guard

import (
	"context"
	"errors"

	"market-access-platform/internal/session"
)

type ctxKey int

const (
	ctxSessionID ctxKey = iota
	ctxSnapshot
)

// WithSession stores the session id and snapshot in the request context.
func WithSession(ctx context.Context, sessionID string, snap session.Snapshot) context.Context {
	ctx = context.WithValue(ctx, ctxSessionID, sessionID)
	ctx = context.WithValue(ctx, ctxSnapshot, snap)
	return ctx
}

// SessionID returns the session id placed by the guard middleware.
func SessionID(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxSessionID).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("session id not in context")
}

// CurrentSnapshot returns the session snapshot placed by the guard middleware.
func CurrentSnapshot(ctx context.Context) (session.Snapshot, error) {
	if snap, ok := ctx.Value(ctxSnapshot).(session.Snapshot); ok {
		return snap, nil
	}
	return session.Snapshot{}, errors.New("session not in context")
}
