package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/httputil"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
	"github.com/abhaysharma1/Acquisitions/pkg/users"
)

// AuthHandlers handles signup, signin and signout
type AuthHandlers struct {
	accounts *users.AccountService
	tokens   *auth.TokenManager
	cookies  *auth.CookieCarrier
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewAuthHandlers creates the auth handler set. metrics may be nil.
func NewAuthHandlers(accounts *users.AccountService, tokens *auth.TokenManager, cookies *auth.CookieCarrier, logger *observability.Logger, metrics *observability.Metrics) *AuthHandlers {
	return &AuthHandlers{
		accounts: accounts,
		tokens:   tokens,
		cookies:  cookies,
		logger:   logger,
		metrics:  metrics,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/signup", h.signup).Methods("POST")
	router.HandleFunc("/signin", h.signin).Methods("POST")
	router.HandleFunc("/signout", h.signout).Methods("POST")
}

// signup handles POST /signup
func (h *AuthHandlers) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	input, details := validateSignup(req)
	if len(details) > 0 {
		httputil.WriteValidationError(w, details)
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), input)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			h.recordAttempt("signup", "conflict")
			httputil.WriteConflict(w, "Email already Exists")
			return
		}
		httputil.RequestLogger(r, h.logger).WithError(err).Error("signup failed")
		h.recordAttempt("signup", "error")
		httputil.WriteInternalError(w)
		return
	}

	if !h.issueSession(w, r, user) {
		return
	}

	httputil.RequestLogger(r, h.logger).WithField("email", user.Email).Info("user registered successfully")
	h.recordAttempt("signup", "success")
	httputil.WriteCreated(w, userResponse{
		Message: "User Registered",
		User:    toAuthUserView(user),
	})
}

// signin handles POST /signin
func (h *AuthHandlers) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if details := validateSignin(req); len(details) > 0 {
		httputil.WriteValidationError(w, details)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			h.recordAttempt("signin", "invalid_credentials")
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "Invalid email or password"})
			return
		}
		httputil.RequestLogger(r, h.logger).WithError(err).Error("signin failed")
		h.recordAttempt("signin", "error")
		httputil.WriteInternalError(w)
		return
	}

	if !h.issueSession(w, r, user) {
		return
	}

	httputil.RequestLogger(r, h.logger).WithField("email", user.Email).Info("user logged in successfully")
	h.recordAttempt("signin", "success")
	httputil.WriteSuccess(w, userResponse{
		Message: "User Logged In",
		User:    toAuthUserView(user),
	})
}

// signout handles POST /signout
func (h *AuthHandlers) signout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w, auth.SessionCookieName)
	httputil.RequestLogger(r, h.logger).Info("user logged out successfully")
	httputil.WriteSuccess(w, messageResponse{Message: "User Logged Out"})
}

// issueSession signs a token for the user and binds it to the session
// cookie. Returns false after writing a 500 when signing fails.
func (h *AuthHandlers) issueSession(w http.ResponseWriter, r *http.Request, user users.Projection) bool {
	token, err := h.tokens.Sign(auth.Identity{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		httputil.RequestLogger(r, h.logger).WithError(err).Error("failed to sign session token")
		httputil.WriteInternalError(w)
		return false
	}
	h.cookies.Set(w, auth.SessionCookieName, token)
	return true
}

func (h *AuthHandlers) recordAttempt(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordAuthAttempt(operation, outcome)
	}
}
