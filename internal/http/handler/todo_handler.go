package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
	"github.com/Kokonaut/todo-app-demo/internal/http/httpx"
	"github.com/Kokonaut/todo-app-demo/internal/http/middleware"
	"github.com/Kokonaut/todo-app-demo/internal/repository"
)

type TodoHandler struct {
	repo   repository.TodoRepository
	logger *slog.Logger
}

func NewTodoHandler(repo repository.TodoRepository, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{repo: repo, logger: logger}
}

type CreateTodoRequest struct {
	Title string `json:"title"`
}

type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, "Authentication required")
		return
	}

	todos, err := h.repo.List(r.Context(), identity.UserID)
	if err != nil {
		h.internal(w, r, "list todos", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, "Authentication required")
		return
	}

	todo, err := h.repo.Get(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, httpx.KindNotFound, "Todo not found")
		return
	}
	if err != nil {
		h.internal(w, r, "fetch todo", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, "Authentication required")
		return
	}

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, "Invalid JSON body")
		return
	}

	todo, err := domain.NewTodo(identity.UserID, req.Title)
	if errors.Is(err, domain.ErrEmptyTitle) {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, "Title is required")
		return
	}
	if err != nil {
		h.internal(w, r, "build todo", err)
		return
	}

	if err := h.repo.Create(r.Context(), todo); err != nil {
		h.internal(w, r, "create todo", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, "Authentication required")
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, "Invalid JSON body")
		return
	}

	upd := domain.TodoUpdate{Title: req.Title, Completed: req.Completed}
	if err := upd.Normalize(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, "Title is required")
		return
	}

	todo, err := h.repo.Update(r.Context(), identity.UserID, chi.URLParam(r, "id"), upd)
	if errors.Is(err, domain.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, httpx.KindNotFound, "Todo not found")
		return
	}
	if err != nil {
		h.internal(w, r, "update todo", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, "Authentication required")
		return
	}

	deleted, err := h.repo.Delete(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.internal(w, r, "delete todo", err)
		return
	}
	if !deleted {
		httpx.WriteError(w, http.StatusNotFound, httpx.KindNotFound, "Todo not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// internal logs the cause and answers with a generic 500. Backend detail
// never reaches the client.
func (h *TodoHandler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("store failure", "op", op, "path", r.URL.Path, "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, httpx.KindInternal, "Something went wrong")
}
