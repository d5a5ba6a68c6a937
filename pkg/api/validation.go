package api

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/users"
)

const (
	minNameLen     = 2
	maxNameLen     = 255
	maxEmailLen    = 255
	minPasswordLen = 6
	maxPasswordLen = 128
)

func validEmail(email string) bool {
	if email == "" || len(email) > maxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// Reject the "Name <addr>" form; only the bare address is acceptable
	return err == nil && addr.Address == email
}

// validateSignup checks the signup body and returns the normalized input.
// The details map is empty when the request is valid.
func validateSignup(req signupRequest) (users.NewUser, map[string]string) {
	details := make(map[string]string)

	name := strings.TrimSpace(req.Name)
	if len(name) < minNameLen || len(name) > maxNameLen {
		details["name"] = "Name must be between 2 and 255 characters"
	}

	email := users.NormalizeEmail(req.Email)
	if !validEmail(email) {
		details["email"] = "Invalid email address"
	}

	if len(req.Password) < minPasswordLen || len(req.Password) > maxPasswordLen {
		details["password"] = "Password must be between 6 and 128 characters"
	}

	role := auth.Role(req.Role)
	if req.Role == "" {
		role = auth.RoleUser
	} else if !role.Valid() {
		details["role"] = "Role must be one of: user, admin"
	}

	return users.NewUser{Name: name, Email: email, Password: req.Password, Role: role}, details
}

// validateSignin checks the signin body
func validateSignin(req signinRequest) map[string]string {
	details := make(map[string]string)

	if !validEmail(users.NormalizeEmail(req.Email)) {
		details["email"] = "Invalid email address"
	}
	if req.Password == "" {
		details["password"] = "Password is required"
	}

	return details
}

// validateUserID checks a path id is a well-formed UUID
func validateUserID(id string) map[string]string {
	if _, err := uuid.Parse(id); err != nil {
		return map[string]string{"id": "Invalid user ID format"}
	}
	return nil
}

// validateUpdate checks the update body: every present field must be valid
// and at least one whitelisted field must be provided.
func validateUpdate(req updateUserRequest) (users.Update, map[string]string) {
	details := make(map[string]string)
	var update users.Update

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < minNameLen || len(name) > maxNameLen {
			details["name"] = "Name must be between 2 and 255 characters"
		} else {
			update.Name = &name
		}
	}

	if req.Email != nil {
		email := users.NormalizeEmail(*req.Email)
		if !validEmail(email) {
			details["email"] = "Invalid email address"
		} else {
			update.Email = &email
		}
	}

	if req.Role != nil {
		role := auth.Role(*req.Role)
		if !role.Valid() {
			details["role"] = "Role must be one of: user, admin"
		} else {
			update.Role = &role
		}
	}

	if len(details) == 0 && update.Empty() {
		details["body"] = "At least one field must be provided for update"
	}

	return update, details
}
