package guard

import "testing"

func TestSessionCookieRoundTrip(t *testing.T) {
	value := SignSessionID("secret-1", "sess-abc")
	id, ok := ParseSessionCookie("secret-1", value)
	if !ok || id != "sess-abc" {
		t.Fatalf("expected sess-abc, got %q ok=%v", id, ok)
	}
}

func TestSessionCookieRejectsTampering(t *testing.T) {
	value := SignSessionID("secret-1", "sess-abc")

	if _, ok := ParseSessionCookie("secret-1", "sess-xyz."+value[len("sess-abc."):]); ok {
		t.Fatalf("swapped id must not verify")
	}
	if _, ok := ParseSessionCookie("other-secret", value); ok {
		t.Fatalf("wrong secret must not verify")
	}
	if _, ok := ParseSessionCookie("secret-1", "sess-abc"); ok {
		t.Fatalf("bare unsigned id must not verify")
	}
	if _, ok := ParseSessionCookie("secret-1", ""); ok {
		t.Fatalf("empty value must not verify")
	}
}
