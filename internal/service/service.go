// Package service provides business logic for the application.
package service

import (
	"context"
	"time"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/model"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// TodoStore persists todos. Every method is scoped to the owning user.
type TodoStore interface {
	ListTodos(ctx context.Context, userID string) ([]*model.Todo, error)
	GetTodo(ctx context.Context, userID string, id int64) (*model.Todo, error)
	CreateTodo(ctx context.Context, todo *model.Todo) error
	UpdateTodo(ctx context.Context, userID string, id int64, upd model.TodoUpdate, now time.Time) (*model.Todo, error)
	DeleteTodo(ctx context.Context, userID string, id int64) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenIssuer issues access tokens.
type TokenIssuer interface {
	Issue(subject, email string) (auth.IssuedToken, error)
	TTL() time.Duration
}

// utcNow is truncated to the precision both stores keep.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
