package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhaysharma1/Acquisitions/pkg/auth"
	"github.com/abhaysharma1/Acquisitions/pkg/observability"
)

// AccountService orchestrates signup and signin against the store and the
// password hasher.
type AccountService struct {
	store  Store
	hasher *auth.PasswordHasher
	logger *observability.Logger
}

// NewAccountService creates an account service
func NewAccountService(store Store, hasher *auth.PasswordHasher, logger *observability.Logger) *AccountService {
	return &AccountService{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

// CreateUser registers a new account. The email is case-normalized before
// the uniqueness check; a duplicate yields ErrEmailTaken. The read-check is
// advisory only: a concurrent signup that slips past it is caught by the
// store's uniqueness constraint and surfaces as the same error.
func (s *AccountService) CreateUser(ctx context.Context, input NewUser) (Projection, error) {
	email := NormalizeEmail(input.Email)

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return Projection{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return Projection{}, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return Projection{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = auth.RoleUser
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Projection{}, ErrEmailTaken
		}
		return Projection{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("email", user.Email).Info("user created successfully")
	return user.Sanitize(), nil
}

// Authenticate verifies credentials. Unknown email and wrong password both
// return ErrInvalidCredentials so callers cannot tell the cases apart.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (Projection, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Projection{}, ErrInvalidCredentials
		}
		return Projection{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return Projection{}, ErrInvalidCredentials
	}

	s.logger.WithField("email", user.Email).Info("user authenticated successfully")
	return user.Sanitize(), nil
}
