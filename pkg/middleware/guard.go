package middleware

import (
	"net/http"
	"time"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/httputil"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
)

// GuardConfig tunes the security guard's detections and windows
type GuardConfig struct {
	// Monitor makes bot and rate-limit denials advisory: they are logged
	// and counted but the request proceeds. The shield always enforces.
	Monitor bool

	// Baseline window applied to every requester regardless of role
	BaselineMax      int
	BaselineInterval time.Duration

	// Role-based window over a longer interval
	RoleInterval time.Duration
	RoleLimits   map[auth.Role]int
}

// DefaultGuardConfig returns the stock limits: 5 requests per 2s for
// everyone, plus {guest 5, user 10, admin 20} per rolling minute.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		BaselineMax:      5,
		BaselineInterval: 2 * time.Second,
		RoleInterval:     time.Minute,
		RoleLimits: map[auth.Role]int{
			auth.RoleGuest: 5,
			auth.RoleUser:  10,
			auth.RoleAdmin: 20,
		},
	}
}

// IdentityPeeker supplies a best-effort identity before the authenticate
// stage has run. Errors are swallowed; an unreadable token means guest.
type IdentityPeeker interface {
	Peek(r *http.Request) *auth.Identity
}

// Guard is the request-shaping security layer that fronts the pipeline.
// Detections run in fixed priority order, first denial wins:
//
//  1. automated-client detection (allow-listed crawlers exempt)
//  2. shield anomaly detection
//  3. baseline sliding window (all roles)
//  4. role-based sliding window
//
// Any panic inside the decision engine fails closed: the request is
// answered with 500 and never forwarded.
type Guard struct {
	cfg     GuardConfig
	bots    *BotDetector
	shield  *Shield
	limiter *SlidingWindowLimiter
	peeker  IdentityPeeker
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewGuard assembles the guard. peeker and metrics may be nil.
func NewGuard(cfg GuardConfig, peeker IdentityPeeker, logger *observability.Logger, metrics *observability.Metrics) *Guard {
	if cfg.RoleLimits == nil {
		cfg.RoleLimits = DefaultGuardConfig().RoleLimits
	}
	// Window TTL must outlive the longest interval so a client cannot
	// clear its count by pausing inside an open window.
	ttl := cfg.RoleInterval * 2
	if cfg.BaselineInterval*2 > ttl {
		ttl = cfg.BaselineInterval * 2
	}
	return &Guard{
		cfg:     cfg,
		bots:    NewBotDetector(),
		shield:  NewShield(),
		limiter: NewSlidingWindowLimiter(defaultMaxWindows, ttl),
		peeker:  peeker,
		logger:  logger,
		metrics: metrics,
	}
}

// Handler evaluates the decision chain ahead of authentication
func (g *Guard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				g.logger.WithFields(map[string]interface{}{
					"panic": rec,
					"path":  r.URL.Path,
				}).Error("security guard failure")
				httputil.WriteError(w, http.StatusInternalServerError,
					"Internal Server Error", "Something Went Wrong with Security Middleware")
			}
		}()

		ip := httputil.ClientIP(r)
		role := g.resolveRole(r)

		if detection := g.bots.Detect(r.UserAgent()); detection.Deny() {
			g.denied(r, ip, "bot", detection.Matched)
			if !g.cfg.Monitor {
				httputil.WriteForbidden(w, "Automated Requests are not Allowed")
				return
			}
		}

		if blocked, pattern := g.shield.Inspect(r); blocked {
			g.denied(r, ip, "shield", pattern)
			httputil.WriteForbidden(w, "Request Blocked by Security Policy")
			return
		}

		baseline := g.limiter.Allow("ip:"+ip, g.cfg.BaselineMax, g.cfg.BaselineInterval)
		if g.metrics != nil {
			g.metrics.RecordRateLimitDecision("baseline", baseline.Allowed)
		}
		if !baseline.Allowed {
			g.denied(r, ip, "rate_limit", "baseline window")
			if !g.cfg.Monitor {
				httputil.WriteForbidden(w, "Too many Requests")
				return
			}
		}

		limit, ok := g.cfg.RoleLimits[role]
		if !ok {
			limit = g.cfg.RoleLimits[auth.RoleGuest]
		}
		decision := g.limiter.Allow(string(role)+":"+ip, limit, g.cfg.RoleInterval)
		if g.metrics != nil {
			g.metrics.RecordRateLimitDecision(string(role), decision.Allowed)
		}
		if !decision.Allowed {
			g.denied(r, ip, "rate_limit", string(role)+" window")
			if !g.cfg.Monitor {
				httputil.WriteForbidden(w, "Too many Requests")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// resolveRole uses whatever identity is already established; the guard
// typically runs pre-auth, so this is a best-effort token peek that
// defaults to guest.
func (g *Guard) resolveRole(r *http.Request) auth.Role {
	if identity := GetIdentity(r); identity != nil {
		return identity.Role
	}
	if g.peeker != nil {
		if identity := g.peeker.Peek(r); identity != nil {
			return identity.Role
		}
	}
	return auth.RoleGuest
}

func (g *Guard) denied(r *http.Request, ip, reason, detail string) {
	g.logger.WithFields(map[string]interface{}{
		"ip":         ip,
		"user_agent": r.UserAgent(),
		"path":       r.URL.Path,
		"method":     r.Method,
		"detail":     detail,
	}).Warnf("request denied: %s", reason)

	if g.metrics != nil {
		g.metrics.RecordGuardDenial(reason)
	}
}
