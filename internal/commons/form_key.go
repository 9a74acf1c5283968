package commons

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
	"time"
)

const (
	FormKeyName   = "form_key"
	formKeyMaxAge = 24 * time.Hour
)

// IssueFormKey returns the form key bound to the client, setting the cookie when none exists yet.
func IssueFormKey(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(FormKeyName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	buf := make([]byte, 24)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	key := base64.RawURLEncoding.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     FormKeyName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(formKeyMaxAge.Seconds()),
	})
	return key, nil
}

// ValidFormKey reports whether the submitted key matches the form key cookie.
func ValidFormKey(r *http.Request, submitted string) bool {
	c, err := r.Cookie(FormKeyName)
	if err != nil || c.Value == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(submitted)) == 1
}
