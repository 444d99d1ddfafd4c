package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kokonaut/todo-app-demo/internal/auth"
	"github.com/Kokonaut/todo-app-demo/internal/http/handler"
	"github.com/Kokonaut/todo-app-demo/internal/http/middleware"
)

// NewRouter wires the route table. /health is open; everything under /items
// requires a resolved identity.
func NewRouter(todos *handler.TodoHandler, resolver *auth.Resolver, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLog(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/items", func(api chi.Router) {
		api.Use(middleware.Auth(resolver))

		api.Get("/", todos.List)
		api.Post("/", todos.Create)
		api.Get("/{id}", todos.Get)
		api.Patch("/{id}", todos.Update)
		api.Delete("/{id}", todos.Delete)
	})

	return r
}
