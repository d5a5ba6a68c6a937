package middleware

import (
	"context"
	"net/http"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/contextkeys"
	"github.com/abhaysharma1/Acquisitions/pkg/httputil"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
)

// Authenticator populates request identity from the session cookie
type Authenticator struct {
	tokens  *auth.TokenManager
	cookies *auth.CookieCarrier
	logger  *observability.Logger
}

// NewAuthenticator creates an authentication middleware
func NewAuthenticator(tokens *auth.TokenManager, cookies *auth.CookieCarrier, logger *observability.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, cookies: cookies, logger: logger}
}

// Handler requires a valid session token. A missing cookie yields 401
// "Access token required"; a bad or expired token yields 401 "Invalid or
// expired token". On success the decoded identity is attached to the
// request context and the chain continues.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.cookies.Get(r, auth.SessionCookieName)
		if token == "" {
			httputil.WriteUnauthorized(w, "Access token required")
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			a.logger.WithError(err).WithField("path", r.URL.Path).Warn("authentication failed")
			httputil.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), contextkeys.IdentityKey, claims.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Peek returns the identity carried by the session cookie without rejecting
// the request. Used by the security guard, which runs before Handler and
// falls back to guest when no identity can be established.
func (a *Authenticator) Peek(r *http.Request) *auth.Identity {
	token := a.cookies.Get(r, auth.SessionCookieName)
	if token == "" {
		return nil
	}
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil
	}
	return claims.Identity()
}

// RequireAdmin gates a handler on the admin role. Must run after Handler.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r)
		if identity == nil {
			httputil.WriteUnauthorized(w, "Authentication required")
			return
		}
		if !identity.IsAdmin() {
			httputil.WriteForbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity extracts the authenticated identity from the request context,
// or nil when the authenticate stage has not run.
func GetIdentity(r *http.Request) *auth.Identity {
	identity, ok := r.Context().Value(contextkeys.IdentityKey).(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
