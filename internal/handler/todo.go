package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/handler/dto"
	"github.com/checkmark/checkmark/internal/middleware"
	"github.com/checkmark/checkmark/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
// Every route is mounted behind middleware.RequireAuth.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	todo, err := h.svc.Create(r.Context(), userID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("todo_created",
		"todo_id", todo.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	todo, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Update handles PUT /todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	todo, err := h.svc.Update(r.Context(), userID, id, req.ToModel())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("todo_updated",
		"todo_id", todo.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("todo_deleted",
		"todo_id", id,
		"user_id", userID,
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Todo deleted successfully"})
}

// todoID parses the {id} path parameter.
func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Todo ID must be an integer")
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *TodoHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "TODO_NOT_FOUND", "Todo not found")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required")
	case errors.Is(err, service.ErrNoFieldsProvided):
		writeError(w, http.StatusBadRequest, "NO_FIELDS", "No fields to update")
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
