package users

import (
	"strings"
	"time"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
)

// User is a stored account record. PasswordHash never leaves the package;
// callers receive Projections instead.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         auth.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Projection is the sanitized view of a user, safe to return to clients
type Projection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitize strips sensitive fields from the record
func (u *User) Sanitize() Projection {
	return Projection{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Identity returns the auth identity snapshot for token issuance
func (u *User) Identity() auth.Identity {
	return auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// NewUser is the input to account creation
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     auth.Role
}

// Update carries the whitelisted mutable fields. Nil means "leave as is".
type Update struct {
	Name  *string
	Email *string
	Role  *auth.Role
}

// Empty reports whether no field is set
func (u Update) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Role == nil
}

// NormalizeEmail lower-cases and trims an email address. Uniqueness is
// enforced over the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
