package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"
)

const (
	AccessCookieName = "access_token"
	CSRFCookieName   = "csrf"
	CSRFHeaderName   = "X-CSRF-Token"

	CSRFTokenTTL = 24 * time.Hour
)

// GenerateCSRFToken returns 32 random bytes, base64url encoded.
func GenerateCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// IssueCSRF generates a token and sets it as the csrf cookie.
func IssueCSRF(w http.ResponseWriter) (string, error) {
	token, err := GenerateCSRFToken()
	if err != nil {
		return "", err
	}
	SetCSRFCookie(token, time.Now().Add(CSRFTokenTTL), w)
	return token, nil
}
