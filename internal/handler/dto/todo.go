package dto

import (
	"time"

	"github.com/checkmark/checkmark/internal/model"
)

// TimestampLayout renders timestamps in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// CreateTodoRequest represents the request body for creating a todo.
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTodoRequest represents the request body for updating a todo.
// Absent fields are left unchanged; "description": null clears it.
type UpdateTodoRequest struct {
	Title       *string              `json:"title"`
	Description model.OptionalString `json:"description"`
	Completed   *bool                `json:"completed"`
}

// ToModel converts the request into a partial update.
func (r UpdateTodoRequest) ToModel() model.TodoUpdate {
	return model.TodoUpdate{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// TodoResponse represents a todo in API responses.
type TodoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      string  `json:"user_id"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

// ToTodoResponse converts a Todo model to TodoResponse DTO.
func ToTodoResponse(todo *model.Todo) *TodoResponse {
	return &TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		UserID:      todo.UserID,
		CreatedAt:   formatTimestamp(todo.CreatedAt),
		UpdatedAt:   formatTimestamp(todo.UpdatedAt),
	}
}

// ToTodoListResponse converts todos to a JSON array, never null.
func ToTodoListResponse(todos []*model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = *ToTodoResponse(todo)
	}
	return responses
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(TimestampLayout)
	return &s
}
