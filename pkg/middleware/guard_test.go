package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// generousGuardConfig keeps the windows wide open so tests can target a
// single detection without tripping the others.
func generousGuardConfig() GuardConfig {
	return GuardConfig{
		BaselineMax:      1000,
		BaselineInterval: time.Minute,
		RoleInterval:     time.Minute,
		RoleLimits: map[auth.Role]int{
			auth.RoleGuest: 1000,
			auth.RoleUser:  1000,
			auth.RoleAdmin: 1000,
		},
	}
}

func newTestGuard(cfg GuardConfig, peeker IdentityPeeker) *Guard {
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	return NewGuard(cfg, peeker, logger, nil)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func guardRequest(target, userAgent, remoteAddr string) *http.Request {
	r := httptest.NewRequest("GET", target, nil)
	if userAgent != "" {
		r.Header.Set("User-Agent", userAgent)
	}
	r.RemoteAddr = remoteAddr
	return r
}

func TestGuardBlocksAutomatedClients(t *testing.T) {
	guard := newTestGuard(generousGuardConfig(), nil)
	handler := guard.Handler(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guardRequest("/users", "curl/8.4.0", "10.1.0.1:4000"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Automated Requests are not Allowed", decodeError(t, rec)["message"])
}

func TestGuardAllowsSearchCrawlers(t *testing.T) {
	guard := newTestGuard(generousGuardConfig(), nil)
	handler := guard.Handler(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guardRequest("/users",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "10.1.0.2:4000"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardShieldBlocksSuspiciousRequests(t *testing.T) {
	guard := newTestGuard(generousGuardConfig(), nil)
	handler := guard.Handler(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guardRequest("/users?id=1+union+select+password_hash+from+users",
		browserUA, "10.1.0.3:4000"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Request Blocked by Security Policy", decodeError(t, rec)["message"])
}

func TestGuardBotDetectionRunsBeforeShield(t *testing.T) {
	guard := newTestGuard(generousGuardConfig(), nil)
	handler := guard.Handler(okHandler())

	// Both detections would fire; the bot denial must win
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guardRequest("/users?id=1+union+select+1", "curl/8.4.0", "10.1.0.4:4000"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Automated Requests are not Allowed", decodeError(t, rec)["message"])
}

func TestGuardBaselineWindow(t *testing.T) {
	cfg := generousGuardConfig()
	cfg.BaselineMax = 3
	cfg.BaselineInterval = time.Minute
	guard := newTestGuard(cfg, nil)
	handler := guard.Handler(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, guardRequest("/users", browserUA, "10.1.0.5:4000"))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guardRequest("/users", browserUA, "10.1.0.5:4000"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Too many Requests", decodeError(t, rec)["message"])

	// A different source address has its own window
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, guardRequest("/users", browserUA, "10.1.0.6:4000"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardRoleWindowUsesPeekedIdentity(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", 15*time.Minute)
	cookies := auth.NewCookieCarrier(false, 15*time.Minute)
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	authn := NewAuthenticator(tokens, cookies, logger)

	cfg := generousGuardConfig()
	cfg.RoleLimits = map[auth.Role]int{
		auth.RoleGuest: 2,
		auth.RoleUser:  4,
		auth.RoleAdmin: 6,
	}
	guard := newTestGuard(cfg, authn)
	handler := guard.Handler(okHandler())

	userCookie := sessionCookie(t, tokens, auth.Identity{ID: "u-1", Email: "ann@x.com", Role: auth.RoleUser})

	send := func(cookie *http.Cookie, addr string) int {
		r := guardRequest("/users", browserUA, addr)
		if cookie != nil {
			r.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec.Code
	}

	// Authenticated users get the larger window
	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, send(userCookie, "10.2.0.1:4000"), "user request %d", i+1)
	}
	assert.Equal(t, http.StatusForbidden, send(userCookie, "10.2.0.1:4000"))

	// Anonymous requests from another address fall back to the guest window
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, send(nil, "10.2.0.2:4000"), "guest request %d", i+1)
	}
	assert.Equal(t, http.StatusForbidden, send(nil, "10.2.0.2:4000"))
}

func TestGuardMonitorMode(t *testing.T) {
	cfg := generousGuardConfig()
	cfg.Monitor = true
	cfg.BaselineMax = 1
	guard := newTestGuard(cfg, nil)
	handler := guard.Handler(okHandler())

	t.Run("bot denials are advisory", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, guardRequest("/users", "curl/8.4.0", "10.3.0.1:4000"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rate-limit denials are advisory", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, guardRequest("/users", browserUA, "10.3.0.2:4000"))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("shield still enforces", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, guardRequest("/files?name=../../etc/passwd", browserUA, "10.3.0.3:4000"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Request Blocked by Security Policy", decodeError(t, rec)["message"])
	})
}

type panickingPeeker struct{}

func (panickingPeeker) Peek(*http.Request) *auth.Identity {
	panic("decision engine failure")
}

func TestGuardFailsClosed(t *testing.T) {
	guard := newTestGuard(generousGuardConfig(), panickingPeeker{})
	handler := guard.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be forwarded when the guard fails")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guardRequest("/users", browserUA, "10.4.0.1:4000"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something Went Wrong with Security Middleware", decodeError(t, rec)["message"])
}
