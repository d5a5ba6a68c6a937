package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/abhaysharma1/Acquisitions/pkg/users"
)

// uniqueViolation is the PostgreSQL error code for unique_violation
const uniqueViolation = "23505"

// DBProvider supplies read and write connections. ConnectionManager
// implements it; tests wrap a single *sql.DB.
type DBProvider interface {
	Primary() *sql.DB
	Replica() *sql.DB
}

// SingleDB adapts one connection to DBProvider (tests, single-node setups)
type SingleDB struct {
	DB *sql.DB
}

func (s SingleDB) Primary() *sql.DB { return s.DB }
func (s SingleDB) Replica() *sql.DB { return s.DB }

// UserStore persists user records. Writes go to the primary; reads are
// served from replicas when available.
type UserStore struct {
	db DBProvider
}

// NewUserStore creates a user store over the given connections
func NewUserStore(db DBProvider) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*users.User, error) {
	var u users.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new record. A uniqueness-constraint violation on the
// email column surfaces as users.ErrEmailTaken.
func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Primary().ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail finds a record by normalized email
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.db.Replica().QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID finds a record by id
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.Replica().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// ListUsers returns all records
func (s *UserStore) ListUsers(ctx context.Context) ([]users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	rows, err := s.db.Replica().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var records []users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		records = append(records, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return records, nil
}

// UpdateUser applies the set fields of the update and bumps updated_at.
// Absent rows yield users.ErrUserNotFound; an email collision yields
// users.ErrEmailTaken.
func (s *UserStore) UpdateUser(ctx context.Context, id string, update users.Update) (*users.User, error) {
	setClauses := []string{}
	args := []any{}
	argCount := 1

	if update.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *update.Name)
		argCount++
	}
	if update.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argCount))
		args = append(args, *update.Email)
		argCount++
	}
	if update.Role != nil {
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", argCount))
		args = append(args, *update.Role)
		argCount++
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now().UTC())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argCount)

	result, err := s.db.Primary().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return nil, users.ErrUserNotFound
	}

	// Read back from the primary so the caller sees its own write
	query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.Primary().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the record; absent rows yield users.ErrUserNotFound
func (s *UserStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.Primary().ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// isUniqueViolation detects a uniqueness-constraint failure. The typed
// lib/pq check covers production; the substring check covers the sqlite
// driver used in tests.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
