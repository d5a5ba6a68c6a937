package users

import "context"

// Store is the persistence boundary for user records.
//
// Implementations must enforce email uniqueness: CreateUser and UpdateUser
// surface ErrEmailTaken when the normalized email collides with another
// row, even when a concurrent writer slipped past the caller's read-check.
// Lookups on absent rows return ErrUserNotFound.
type Store interface {
	// CreateUser inserts the record as-is (id and timestamps set by caller)
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail finds a record by normalized email
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID finds a record by id
	GetUserByID(ctx context.Context, id string) (*User, error)

	// ListUsers returns all records; order is not specified
	ListUsers(ctx context.Context) ([]User, error)

	// UpdateUser applies the set fields of the update and returns the
	// resulting record
	UpdateUser(ctx context.Context, id string, update Update) (*User, error)

	// DeleteUser removes the record (hard delete)
	DeleteUser(ctx context.Context, id string) error
}
