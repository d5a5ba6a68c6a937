package auth

// Role is a user's authorization level
type Role string

const (
	// RoleUser is the default role assigned at signup
	RoleUser Role = "user"
	// RoleAdmin grants access to directory-wide operations
	RoleAdmin Role = "admin"
	// RoleGuest is never stored; the security guard assumes it for
	// requests with no established identity
	RoleGuest Role = "guest"
)

// Valid reports whether the role is one a user record may carry
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the authenticated subject attached to a request context.
// It is a snapshot of the user at token issuance time, not a live view.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
