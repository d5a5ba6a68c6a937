package users

import (
	"context"
	"sync"
	"time"
)

// memStore is an in-memory Store used by the service tests
type memStore struct {
	mu      sync.Mutex
	byID    map[string]*User
	failing error
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]*User)}
}

func (m *memStore) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	for _, existing := range m.byID {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	for _, user := range m.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	out := make([]User, 0, len(m.byID))
	for _, user := range m.byID {
		out = append(out, *user)
	}
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, id string, update Update) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if update.Email != nil {
		for otherID, other := range m.byID {
			if otherID != id && other.Email == *update.Email {
				return nil, ErrEmailTaken
			}
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	user.UpdatedAt = time.Now().UTC()
	clone := *user
	return &clone, nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	if _, ok := m.byID[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}
