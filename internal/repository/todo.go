package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/checkmark/checkmark/internal/model"
	"github.com/jackc/pgx/v5"
)

// Every statement below carries the owner as a predicate. A todo owned by
// someone else is reported exactly like a missing one.

const todoColumns = `id, title, description, completed, user_id, created_at, updated_at`

// ListTodos returns all todos owned by userID, newest first.
func (r *Repository) ListTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*model.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// GetTodo retrieves a single todo owned by userID.
func (r *Repository) GetTodo(ctx context.Context, userID string, id int64) (*model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND user_id = $2
	`

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// CreateTodo inserts todo and sets its storage-assigned ID.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (title, description, completed, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.UserID,
		todo.CreatedAt,
		todo.UpdatedAt,
	).Scan(&todo.ID)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// UpdateTodo applies the fields present in upd and stamps updated_at with now.
// The ownership check and the update run in one transaction.
func (r *Repository) UpdateTodo(ctx context.Context, userID string, id int64, upd model.TodoUpdate, now time.Time) (*model.Todo, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockOwnedTodo(ctx, tx, userID, id); err != nil {
		return nil, err
	}

	query := `
		UPDATE todos
		SET title       = COALESCE($3::text, title),
		    description = CASE WHEN $4::boolean THEN $5::text ELSE description END,
		    completed   = COALESCE($6::boolean, completed),
		    updated_at  = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns

	todo, err := scanTodo(tx.QueryRow(ctx, query,
		id,
		userID,
		upd.Title,
		upd.Description.Set,
		upd.Description.Value,
		upd.Completed,
		now,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit todo update: %w", err)
	}

	return todo, nil
}

// DeleteTodo removes a todo owned by userID.
func (r *Repository) DeleteTodo(ctx context.Context, userID string, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := lockOwnedTodo(ctx, tx, userID, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit todo delete: %w", err)
	}

	return nil
}

// lockOwnedTodo verifies ownership and holds a row lock until the transaction ends.
func lockOwnedTodo(ctx context.Context, tx pgx.Tx, userID string, id int64) error {
	var found int64
	err := tx.QueryRow(ctx,
		`SELECT id FROM todos WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to check todo ownership: %w", err)
	}
	return nil
}

// scanTodo scans a single row into a Todo model.
func scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.UserID,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	todo.CreatedAt = todo.CreatedAt.UTC()
	todo.UpdatedAt = todo.UpdatedAt.UTC()
	return &todo, nil
}
