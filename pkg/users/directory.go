package users

import (
	"context"
	"fmt"

	"github.com/abhaysharma1/Acquisitions/pkg/observability"
)

// DirectoryService provides CRUD over user records with field-level
// whitelisting. Authorization is the caller's concern; the directory only
// guarantees that nothing outside {name, email, role} can be mutated.
type DirectoryService struct {
	store  Store
	logger *observability.Logger
}

// NewDirectoryService creates a directory service
func NewDirectoryService(store Store, logger *observability.Logger) *DirectoryService {
	return &DirectoryService{store: store, logger: logger}
}

// GetAll returns every user as a sanitized projection
func (s *DirectoryService) GetAll(ctx context.Context) ([]Projection, error) {
	records, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	projections := make([]Projection, 0, len(records))
	for i := range records {
		projections = append(projections, records[i].Sanitize())
	}
	return projections, nil
}

// GetByID returns a single user; absent ids yield ErrUserNotFound
func (s *DirectoryService) GetByID(ctx context.Context, id string) (Projection, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return Projection{}, err
	}
	return user.Sanitize(), nil
}

// Update applies the whitelisted fields to an existing user. The caller
// validates that at least one field is set. A changed email is normalized
// and checked for collisions by the store.
func (s *DirectoryService) Update(ctx context.Context, id string, update Update) (Projection, error) {
	if update.Email != nil {
		normalized := NormalizeEmail(*update.Email)
		update.Email = &normalized
	}

	user, err := s.store.UpdateUser(ctx, id, update)
	if err != nil {
		return Projection{}, err
	}

	s.logger.WithField("user_id", id).Info("user updated successfully")
	return user.Sanitize(), nil
}

// Delete removes a user record. Hard delete; there is no tombstone.
func (s *DirectoryService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("user deleted successfully")
	return nil
}
