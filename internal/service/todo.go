package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/checkmark/checkmark/internal/metrics"
	"github.com/checkmark/checkmark/internal/model"
	"github.com/checkmark/checkmark/internal/repository"
)

// Todo service errors.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrNoFieldsProvided = errors.New("no fields to update")
	ErrTodoNotFound     = errors.New("todo not found")
)

// CreateTodoInput defines input for creating a todo.
type CreateTodoInput struct {
	Title       string
	Description *string
}

// TodoService handles todo business logic. The caller supplies the
// authenticated user ID; it is never taken from request bodies.
type TodoService struct {
	store   TodoStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTodoService creates a new TodoService.
func NewTodoService(store TodoStore, recorder metrics.Recorder) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		store:   store,
		metrics: recorder,
		now:     utcNow,
	}
}

// List returns every todo owned by userID, newest first.
func (s *TodoService) List(ctx context.Context, userID string) ([]*model.Todo, error) {
	todos, err := s.store.ListTodos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Get returns one todo owned by userID.
func (s *TodoService) Get(ctx context.Context, userID string, id int64) (*model.Todo, error) {
	todo, err := s.store.GetTodo(ctx, userID, id)
	if err != nil {
		return nil, mapTodoError(err, "get todo")
	}
	return todo, nil
}

// Create adds a new, incomplete todo for userID.
func (s *TodoService) Create(ctx context.Context, userID string, input CreateTodoInput) (*model.Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	description := input.Description
	if description != nil && *description == "" {
		description = nil
	}

	now := s.now()
	todo := &model.Todo{
		Title:       input.Title,
		Description: description,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.metrics.IncTodoCreated()

	return todo, nil
}

// Update applies the fields present in upd.
func (s *TodoService) Update(ctx context.Context, userID string, id int64, upd model.TodoUpdate) (*model.Todo, error) {
	if upd.IsEmpty() {
		return nil, ErrNoFieldsProvided
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleRequired
	}

	todo, err := s.store.UpdateTodo(ctx, userID, id, upd, s.now())
	if err != nil {
		return nil, mapTodoError(err, "update todo")
	}

	s.metrics.IncTodoUpdated()

	return todo, nil
}

// Delete removes a todo owned by userID.
func (s *TodoService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.store.DeleteTodo(ctx, userID, id); err != nil {
		return mapTodoError(err, "delete todo")
	}

	s.metrics.IncTodoDeleted()

	return nil
}

func mapTodoError(err error, op string) error {
	if errors.Is(err, repository.ErrTodoNotFound) {
		return ErrTodoNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
