package users

import "errors"

// Domain errors are discriminated sentinels; callers match with errors.Is
// rather than comparing message strings.
var (
	// ErrEmailTaken is returned when a signup or email change collides
	// with an existing account.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrUserNotFound is returned when no record matches the given id.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
