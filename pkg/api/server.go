package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/httputil"
	"github.com/abhaysharma1/Acquisitions/pkg/middleware"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
	"github.com/abhaysharma1/Acquisitions/pkg/users"
)

// Dependencies collects everything the API server needs
type Dependencies struct {
	Accounts  *users.AccountService
	Directory *users.DirectoryService
	Tokens    *auth.TokenManager
	Cookies   *auth.CookieCarrier
	Guard     *middleware.Guard
	Authn     *middleware.Authenticator
	Logger    *observability.Logger
	Metrics   *observability.Metrics // may be nil
}

// Server is the HTTP API surface
type Server struct {
	handler http.Handler
}

// NewServer wires the request pipeline. The recovery, logging and guard
// stages wrap the router itself rather than registering through router.Use:
// mux applies Use middleware to matched routes only, and probes against
// nonexistent paths must still hit the guard. Order (outer to inner):
// recovery, request logging, security guard, router, then per-route
// authenticate/authorize stages ahead of the handlers.
func NewServer(deps Dependencies) *Server {
	router := mux.NewRouter()

	authHandlers := NewAuthHandlers(deps.Accounts, deps.Tokens, deps.Cookies, deps.Logger, deps.Metrics)
	authHandlers.RegisterRoutes(router)

	userHandlers := NewUserHandlers(deps.Directory, deps.Logger)
	userHandlers.RegisterRoutes(router, deps.Authn)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "Route not found")
	})

	var handler http.Handler = router
	handler = deps.Guard.Handler(handler)
	handler = httputil.LoggingMiddleware(deps.Logger, deps.Metrics)(handler)
	handler = httputil.RecoveryMiddleware(deps.Logger)(handler)

	return &Server{handler: handler}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
