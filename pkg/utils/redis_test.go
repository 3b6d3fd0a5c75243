package utils

import (
	"context"
	"testing"
	"time"
)

func TestLoginAttemptScriptInitialized(t *testing.T) {
	// Compile-time smoke test: the script must be initialized at package load.
	if loginAttemptScript == nil {
		t.Fatalf("expected script to be initialized")
	}
}

func TestAllowLoginAttemptValidatesArgs(t *testing.T) {
	ctx := context.Background()
	if _, err := AllowLoginAttempt(ctx, nil, "k", 1, time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if err := ResetLoginAttempts(ctx, nil, "k"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
