package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := tok.SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func tokenWithoutExpiry(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"})
	s, err := tok.SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestDecodeTokenExtractsExpiry(t *testing.T) {
	exp := time.Unix(1700000000, 0).UTC()
	info, err := DecodeToken(signedToken(t, exp))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, info.ExpiresAt)
	}
}

func TestDecodeTokenIgnoresSignature(t *testing.T) {
	// The gateway never holds the signing secret; a token signed with any key
	// must still decode.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Unix(1700000000, 0)),
	})
	s, err := tok.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := DecodeToken(s); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestDecodeTokenRejectsMalformed(t *testing.T) {
	for _, tok := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if _, err := DecodeToken(tok); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: expected ErrMalformedToken, got %v", tok, err)
		}
	}
}

func TestDecodeTokenRequiresExpiry(t *testing.T) {
	if _, err := DecodeToken(tokenWithoutExpiry(t)); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken for missing exp, got %v", err)
	}
}
