package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/abhaysharma1/Acquisitions/pkg/httputil"
	"github.com/abhaysharma1/Acquisitions/pkg/middleware"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
	"github.com/abhaysharma1/Acquisitions/pkg/users"
)

// UserHandlers handles directory CRUD over user records
type UserHandlers struct {
	directory *users.DirectoryService
	logger    *observability.Logger
}

// NewUserHandlers creates the user handler set
func NewUserHandlers(directory *users.DirectoryService, logger *observability.Logger) *UserHandlers {
	return &UserHandlers{directory: directory, logger: logger}
}

// RegisterRoutes registers user routes behind the authenticate stage.
// Listing additionally requires the admin role; ownership checks for
// update/delete live in the handlers because they need the target id.
func (h *UserHandlers) RegisterRoutes(router *mux.Router, authn *middleware.Authenticator) {
	router.Handle("/users", authn.Handler(middleware.RequireAdmin(http.HandlerFunc(h.list)))).Methods("GET")
	router.Handle("/users/{id}", authn.Handler(http.HandlerFunc(h.get))).Methods("GET")
	router.Handle("/users/{id}", authn.Handler(http.HandlerFunc(h.update))).Methods("PUT")
	router.Handle("/users/{id}", authn.Handler(http.HandlerFunc(h.delete))).Methods("DELETE")
}

// list handles GET /users (admin only)
func (h *UserHandlers) list(w http.ResponseWriter, r *http.Request) {
	projections, err := h.directory.GetAll(r.Context())
	if err != nil {
		httputil.RequestLogger(r, h.logger).WithError(err).Error("failed to fetch users")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, usersResponse{
		Message: "Successfully retrieved Users",
		Users:   projections,
		Count:   len(projections),
	})
}

// get handles GET /users/{id}
func (h *UserHandlers) get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if details := validateUserID(id); details != nil {
		httputil.WriteValidationError(w, details)
		return
	}

	user, err := h.directory.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.RequestLogger(r, h.logger).WithError(err).Error("failed to fetch user")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, userResponse{
		Message: "Successfully retrieved user",
		User:    user,
	})
}

// update handles PUT /users/{id}. Requesters may update their own record;
// admins may update anyone. Role changes are admin-only regardless of
// ownership.
func (h *UserHandlers) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if details := validateUserID(id); details != nil {
		httputil.WriteValidationError(w, details)
		return
	}

	var req updateUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	update, details := validateUpdate(req)
	if len(details) > 0 {
		httputil.WriteValidationError(w, details)
		return
	}

	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	if identity.ID != id && !identity.IsAdmin() {
		httputil.WriteForbidden(w, "You can only update your own information")
		return
	}
	if update.Role != nil && !identity.IsAdmin() {
		httputil.WriteForbidden(w, "Only admins can change user roles")
		return
	}

	user, err := h.directory.Update(r.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, users.ErrEmailTaken):
			httputil.WriteConflict(w, "Email already Exists")
		default:
			httputil.RequestLogger(r, h.logger).WithError(err).Error("failed to update user")
			httputil.WriteInternalError(w)
		}
		return
	}

	httputil.WriteSuccess(w, userResponse{
		Message: "User updated successfully",
		User:    user,
	})
}

// delete handles DELETE /users/{id}. Requesters may delete their own
// account; admins may delete anyone.
func (h *UserHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if details := validateUserID(id); details != nil {
		httputil.WriteValidationError(w, details)
		return
	}

	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	if identity.ID != id && !identity.IsAdmin() {
		httputil.WriteForbidden(w, "You can only delete your own account")
		return
	}

	if err := h.directory.Delete(r.Context(), id); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.RequestLogger(r, h.logger).WithError(err).Error("failed to delete user")
		httputil.WriteInternalError(w)
		return
	}

	httputil.WriteSuccess(w, messageResponse{Message: "User deleted successfully"})
}
