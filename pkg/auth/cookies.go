package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the signed session token
const SessionCookieName = "token"

// CookieCarrier binds session tokens to HTTP cookies
type CookieCarrier struct {
	// Secure marks cookies Secure; set in production deployments
	Secure bool
	// MaxAge should match the token TTL so cookie and claims expire together
	MaxAge time.Duration
}

// NewCookieCarrier creates a cookie carrier
func NewCookieCarrier(secure bool, maxAge time.Duration) *CookieCarrier {
	return &CookieCarrier{Secure: secure, MaxAge: maxAge}
}

// Set attaches the token to the response as an HTTP-only cookie
func (c *CookieCarrier) Set(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Get extracts the named cookie value, or "" when absent
func (c *CookieCarrier) Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Clear expires the named cookie immediately
func (c *CookieCarrier) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
