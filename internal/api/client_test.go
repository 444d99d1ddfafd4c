package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/Kokonaut/todo-app-demo/internal/auth"
	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
	apihttp "github.com/Kokonaut/todo-app-demo/internal/http"
	"github.com/Kokonaut/todo-app-demo/internal/http/handler"
	"github.com/Kokonaut/todo-app-demo/internal/repository/memory"
	"github.com/Kokonaut/todo-app-demo/internal/session"
)

// stubSession always produces the same raw bearer subject; the server's dev
// resolver turns it into the caller identity.
type stubSession struct {
	subject string
}

func (s *stubSession) Login(context.Context, string, string) error { return nil }
func (s *stubSession) Signup(context.Context, string, string, string) (bool, error) {
	return true, nil
}
func (s *stubSession) ConfirmSignup(context.Context, string, string) error { return nil }
func (s *stubSession) Logout() error                                       { return nil }
func (s *stubSession) AccessToken(context.Context) (string, error) {
	if s.subject == "" {
		return "", session.ErrNoSession
	}
	return s.subject, nil
}
func (s *stubSession) CurrentUser() (*domain.Identity, bool) { return nil, false }

func newTestClient(t *testing.T, subject string) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	todos := handler.NewTodoHandler(memory.NewTodoRepository(), logger)
	router := apihttp.NewRouter(todos, &auth.Resolver{DevMode: true}, logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, &stubSession{subject: subject})
}

func TestClientRoundtrip(t *testing.T) {
	client := newTestClient(t, "alice")
	ctx := context.Background()

	created, err := client.Create(ctx, "buy milk")
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Completed {
		t.Fatalf("unexpected created todo: %+v", created)
	}

	completed := true
	updated, err := client.Update(ctx, created.ID, nil, &completed)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Completed || updated.Title != "buy milk" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	todos, err := client.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 1 || todos[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", todos)
	}

	if err := client.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	_, err = client.Get(ctx, created.ID)
	if !IsNotFound(err) {
		t.Fatalf("expected a 404 API error, got %v", err)
	}
}

func TestClientDecodesErrorBody(t *testing.T) {
	client := newTestClient(t, "alice")

	_, err := client.Create(context.Background(), "   ")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != 400 || apiErr.Kind != "Validation" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestClientNoSession(t *testing.T) {
	client := newTestClient(t, "")

	// The missing session surfaces before any request is made.
	if _, err := client.List(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
