// Package config reads all environment configuration in one place. The
// resulting structs are passed explicitly to constructors; nothing else in
// the tree touches the environment.
package config

import "os"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Server is the API server configuration.
type Server struct {
	// Addr is the listen address (ADDR, default ":8080").
	Addr string

	// StoreDriver selects the item store adapter (STORE_DRIVER:
	// memory | sqlite | postgres, default memory).
	StoreDriver string

	// DatabaseURL is the postgres DSN (DATABASE_URL), required for the
	// postgres driver.
	DatabaseURL string

	// SQLitePath is the database file for the sqlite driver (SQLITE_PATH,
	// default "todos.db").
	SQLitePath string

	// LocalAuth enables the unverified dev token paths of the identity
	// resolver (LOCAL_AUTH=true). Must stay off behind the platform
	// authorizer.
	LocalAuth bool
}

// Client configures the todo client binary.
type Client struct {
	// APIBaseURL is the item API root (TODO_API_URL, default
	// "http://localhost:8080").
	APIBaseURL string

	// AuthMode selects the session provider (TODO_AUTH: local | hosted,
	// default local).
	AuthMode string

	// IdentityURL is the hosted identity service root (TODO_IDENTITY_URL),
	// required for hosted auth.
	IdentityURL string
}

func FromEnv() Server {
	return Server{
		Addr:        envOr("ADDR", ":8080"),
		StoreDriver: envOr("STORE_DRIVER", DriverMemory),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  envOr("SQLITE_PATH", "todos.db"),
		LocalAuth:   boolEnv("LOCAL_AUTH"),
	}
}

func ClientFromEnv() Client {
	return Client{
		APIBaseURL:  envOr("TODO_API_URL", "http://localhost:8080"),
		AuthMode:    envOr("TODO_AUTH", "local"),
		IdentityURL: os.Getenv("TODO_IDENTITY_URL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes":
		return true
	}
	return false
}
