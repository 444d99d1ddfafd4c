// Package session manages the signed-in user on the client side. Two
// providers implement the same contract: Hosted delegates to the external
// identity service, Local keeps a registry on disk and fabricates unsigned
// tokens for the server's dev-mode resolver. The provider is chosen by
// configuration at startup and injected into the API client.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kokonaut/todo-app-demo/internal/config"
	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

var (
	// ErrNoSession means no user is signed in (or the session expired).
	ErrNoSession = errors.New("not signed in")

	// ErrUserExists is returned by Signup for an already-registered email.
	ErrUserExists = errors.New("user already exists")

	// ErrLoginFailed covers bad credentials and unknown users.
	ErrLoginFailed = errors.New("login failed")

	// ErrCredentialsRequired is returned by Signup for a missing email or
	// password.
	ErrCredentialsRequired = errors.New("email and password are required")
)

// Session is the client session manager contract shared by both providers.
type Session interface {
	// Login establishes a session or fails with ErrLoginFailed.
	Login(ctx context.Context, email, password string) error

	// Signup registers a new identity. confirmed reports whether the
	// identity is immediately usable or still needs ConfirmSignup.
	Signup(ctx context.Context, email, password, name string) (confirmed bool, err error)

	// ConfirmSignup finalizes a pending identity with an emailed code.
	ConfirmSignup(ctx context.Context, email, code string) error

	// Logout clears the session. Logging out while signed out is a no-op.
	Logout() error

	// AccessToken returns the bearer credential for API calls, or
	// ErrNoSession when signed out.
	AccessToken(ctx context.Context) (string, error)

	// CurrentUser returns the signed-in identity, if any.
	CurrentUser() (*domain.Identity, bool)
}

// New selects the provider for cfg.AuthMode.
func New(cfg config.Client) (Session, error) {
	switch cfg.AuthMode {
	case "local":
		return NewLocal("")
	case "hosted":
		if cfg.IdentityURL == "" {
			return nil, fmt.Errorf("TODO_IDENTITY_URL is not set")
		}
		return NewHosted(cfg.IdentityURL, "")
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
}
