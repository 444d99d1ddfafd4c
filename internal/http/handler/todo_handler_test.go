package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kokonaut/todo-app-demo/internal/auth"
	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
	apihttp "github.com/Kokonaut/todo-app-demo/internal/http"
	"github.com/Kokonaut/todo-app-demo/internal/http/handler"
	"github.com/Kokonaut/todo-app-demo/internal/http/httpx"
	"github.com/Kokonaut/todo-app-demo/internal/repository/memory"
)

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewTodoRepository()
	todos := handler.NewTodoHandler(repo, logger)
	return apihttp.NewRouter(todos, &auth.Resolver{DevMode: true}, logger)
}

func doRequest(t *testing.T, router http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+user)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) domain.Todo {
	t.Helper()
	var todo domain.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todo); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return todo
}

func TestHealthNoAuth(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "GET", "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestItemsRequireAuth(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "GET", "/items", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body httpx.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != httpx.KindUnauthorized {
		t.Fatalf("unexpected error kind: %q", body.Error)
	}
}

func TestCreateValidation(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "POST", "/items", "alice", `{"title":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var body httpx.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != httpx.KindValidation {
		t.Fatalf("unexpected error kind: %q", body.Error)
	}
}

func TestCrudLifecycle(t *testing.T) {
	router := newTestRouter()

	// POST /items
	rec := doRequest(t, router, "POST", "/items", "alice", `{"title":"buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeTodo(t, rec)
	if created.ID == "" || created.Title != "buy milk" || created.Completed {
		t.Fatalf("unexpected created todo: %+v", created)
	}

	// GET /items/{id}
	rec = doRequest(t, router, "GET", "/items/"+created.ID, "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	if got := decodeTodo(t, rec); got.ID != created.ID || got.Title != "buy milk" {
		t.Fatalf("get returned a different record: %+v", got)
	}

	// PATCH /items/{id}
	rec = doRequest(t, router, "PATCH", "/items/"+created.ID, "alice", `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	patched := decodeTodo(t, rec)
	if !patched.Completed {
		t.Fatal("patch did not set completed")
	}
	if patched.Title != "buy milk" {
		t.Fatalf("patch touched the title: %q", patched.Title)
	}

	// GET /items
	rec = doRequest(t, router, "GET", "/items", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var todos []domain.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatal(err)
	}
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(todos))
	}

	// DELETE /items/{id}
	rec = doRequest(t, router, "DELETE", "/items/"+created.ID, "alice", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	// Gone now.
	rec = doRequest(t, router, "GET", "/items/"+created.ID, "alice", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	rec = doRequest(t, router, "DELETE", "/items/"+created.ID, "alice", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestPatchMissing(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "PATCH", "/items/nope", "alice", `{"completed":true}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	// The conditional update must not have created anything.
	rec = doRequest(t, router, "GET", "/items", "alice", "")
	var todos []domain.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatal(err)
	}
	if len(todos) != 0 {
		t.Fatalf("expected no todos, got %d", len(todos))
	}
}

func TestTenantIsolationOverHTTP(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, "POST", "/items", "alice", `{"title":"alice's"}`)
	created := decodeTodo(t, rec)

	// Bob cannot see or touch Alice's record.
	if rec = doRequest(t, router, "GET", "/items/"+created.ID, "bob", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign get, got %d", rec.Code)
	}
	if rec = doRequest(t, router, "DELETE", "/items/"+created.ID, "bob", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", rec.Code)
	}
	if rec = doRequest(t, router, "GET", "/items", "bob", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var todos []domain.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatal(err)
	}
	if len(todos) != 0 {
		t.Fatalf("bob sees %d foreign todos", len(todos))
	}
}
