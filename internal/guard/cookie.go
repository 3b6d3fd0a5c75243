package guard

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignSessionID produces the session cookie value: the opaque id followed by
// an HMAC over it, so a forged or tampered cookie never reaches the registry.
func SignSessionID(secret, sessionID string) string {
	return sessionID + "." + cookieMAC(secret, sessionID)
}

// ParseSessionCookie verifies a value produced by SignSessionID and returns
// the embedded session id.
func ParseSessionCookie(secret, value string) (string, bool) {
	id, mac, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(mac), []byte(cookieMAC(secret, id))) {
		return "", false
	}
	return id, true
}

func cookieMAC(secret, sessionID string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}
