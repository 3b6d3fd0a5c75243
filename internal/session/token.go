package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken means the bearer token could not be decoded. An
// undecodable token has no trustworthy expiry, so callers must treat this as
// "cannot establish session" and force re-authentication.
var ErrMalformedToken = errors.New("session: malformed token")

// TokenInfo is what the gateway extracts from a bearer token.
type TokenInfo struct {
	ExpiresAt time.Time
}

// DecodeToken extracts the expiry from the token's payload segment WITHOUT
// verifying the signature. Verification is the CRM backend's responsibility on
// every API call; the gateway only needs the expiry to schedule local logout.
func DecodeToken(token string) (TokenInfo, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return TokenInfo{}, fmt.Errorf("%w: exp claim missing", ErrMalformedToken)
	}
	return TokenInfo{ExpiresAt: claims.ExpiresAt.Time}, nil
}
