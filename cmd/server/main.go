package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/Kokonaut/todo-app-demo/internal/auth"
	"github.com/Kokonaut/todo-app-demo/internal/config"
	"github.com/Kokonaut/todo-app-demo/internal/db"
	apihttp "github.com/Kokonaut/todo-app-demo/internal/http"
	"github.com/Kokonaut/todo-app-demo/internal/http/handler"
	"github.com/Kokonaut/todo-app-demo/internal/repository"
	"github.com/Kokonaut/todo-app-demo/internal/repository/memory"
	"github.com/Kokonaut/todo-app-demo/internal/repository/postgres"
	"github.com/Kokonaut/todo-app-demo/internal/repository/sqlite"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.FromEnv()

	repo, cleanup, err := openStore(cfg)
	if err != nil {
		logger.Error("store init failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	resolver := &auth.Resolver{DevMode: cfg.LocalAuth}
	todos := handler.NewTodoHandler(repo, logger)
	router := apihttp.NewRouter(todos, resolver, logger)

	logger.Info("api listening", "addr", cfg.Addr, "driver", cfg.StoreDriver, "local_auth", cfg.LocalAuth)

	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Server) (repository.TodoRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is not set")
		}
		conn, err := db.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewTodoRepository(conn), conn.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.DriverMemory:
		return memory.NewTodoRepository(), nil, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
