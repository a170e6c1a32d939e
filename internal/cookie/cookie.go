// Package cookie holds the browser cookie helpers: the session token cookie
// and one-shot flash messages carried across redirects.
package cookie

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Cookie names used throughout the application.
const (
	// SessionCookieName carries the opaque session token.
	SessionCookieName = "bazaar_session"

	// FlashCookieName carries flash messages between redirects.
	FlashCookieName = "bazaar_flash"
)

// Config holds cookie policy shared by all cookies the app sets.
type Config struct {
	// Secure requires HTTPS. True in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// SetSession sets the session token cookie. HttpOnly and SameSite=Lax, so
// the token is invisible to scripts and still sent on top-level navigations.
func (c *Config) SetSession(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes the session cookie.
func (c *Config) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash levels. The level prefixes the encoded cookie value.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message surfaced on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

// SetFlash queues a flash message for the next request. The message is
// base64-encoded because cookie values cannot carry spaces or separators.
func (c *Config) SetFlash(w http.ResponseWriter, level, message string) {
	value := level + "." + base64.URLEncoding.EncodeToString([]byte(message))
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the flash cookie. Returns nil when there is no
// flash or the value does not decode.
func (c *Config) PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	raw := Get(r, FlashCookieName)
	if raw == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	level, encoded, ok := strings.Cut(raw, ".")
	if !ok {
		return nil
	}
	message, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	return &Flash{Level: level, Message: string(message)}
}

// Get retrieves a cookie value from the request. Returns empty string if the
// cookie is not present.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
