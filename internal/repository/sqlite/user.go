package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/checkmark/checkmark/internal/model"
	"github.com/checkmark/checkmark/internal/repository"
)

// CreateUser inserts a new user.
// Returns repository.ErrEmailExists if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		nullString(user.Name),
		toMicros(user.CreatedAt),
		toMicros(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		user                 model.User
		name                 sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.Name = stringPtr(name)
	user.CreatedAt = fromMicros(createdAt)
	user.UpdatedAt = fromMicros(updatedAt)
	return &user, nil
}
