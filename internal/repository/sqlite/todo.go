package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/checkmark/checkmark/internal/model"
	"github.com/checkmark/checkmark/internal/repository"
)

const todoColumns = `id, title, description, completed, user_id, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

// ListTodos returns all todos owned by userID, newest first.
func (s *Store) ListTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*model.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

// GetTodo retrieves a single todo owned by userID.
func (s *Store) GetTodo(ctx context.Context, userID string, id int64) (*model.Todo, error) {
	todo, err := scanTodo(s.db.QueryRowContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// CreateTodo inserts todo and sets its storage-assigned ID.
func (s *Store) CreateTodo(ctx context.Context, todo *model.Todo) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (title, description, completed, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		todo.Title,
		nullString(todo.Description),
		todo.Completed,
		todo.UserID,
		toMicros(todo.CreatedAt),
		toMicros(todo.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read todo id: %w", err)
	}
	todo.ID = id
	return nil
}

// UpdateTodo applies the fields present in upd and stamps updated_at with now.
// The ownership check and the update run in one transaction.
func (s *Store) UpdateTodo(ctx context.Context, userID string, id int64, upd model.TodoUpdate, now time.Time) (*model.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := checkOwnedTodo(ctx, tx, userID, id); err != nil {
		return nil, err
	}

	var completed sql.NullBool
	if upd.Completed != nil {
		completed = sql.NullBool{Bool: *upd.Completed, Valid: true}
	}

	todo, err := scanTodo(tx.QueryRowContext(ctx, `
		UPDATE todos
		SET title       = COALESCE(?, title),
		    description = CASE WHEN ? THEN ? ELSE description END,
		    completed   = COALESCE(?, completed),
		    updated_at  = ?
		WHERE id = ? AND user_id = ?
		RETURNING `+todoColumns,
		nullString(upd.Title),
		upd.Description.Set,
		nullString(upd.Description.Value),
		completed,
		toMicros(now),
		id,
		userID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit todo update: %w", err)
	}
	return todo, nil
}

// DeleteTodo removes a todo owned by userID.
func (s *Store) DeleteTodo(ctx context.Context, userID string, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := checkOwnedTodo(ctx, tx, userID, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrTodoNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit todo delete: %w", err)
	}
	return nil
}

func checkOwnedTodo(ctx context.Context, tx *sql.Tx, userID string, id int64) error {
	var found int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM todos WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrTodoNotFound
		}
		return fmt.Errorf("check todo ownership: %w", err)
	}
	return nil
}

func scanTodo(row scanner) (*model.Todo, error) {
	var (
		todo                 model.Todo
		description          sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&todo.Completed,
		&todo.UserID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	todo.Description = stringPtr(description)
	todo.CreatedAt = fromMicros(createdAt)
	todo.UpdatedAt = fromMicros(updatedAt)
	return &todo, nil
}
