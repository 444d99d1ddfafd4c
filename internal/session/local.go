package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

const (
	usersFileName   = "users.json"
	sessionFileName = "session.json"
)

// Local is the development session provider. Identities live in a JSON
// registry on disk, any non-empty password is accepted, and unknown emails
// are auto-created on first login. Tokens are unsigned but JWT-shaped so the
// server's dev-mode resolver can decode them.
type Local struct {
	dir string
}

// NewLocal stores its state under dir, defaulting to <user config dir>/todoapp.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		dir = filepath.Join(base, "todoapp")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Login(ctx context.Context, email, password string) error {
	_ = ctx

	if email == "" || password == "" {
		return ErrLoginFailed
	}

	users, err := l.loadUsers()
	if err != nil {
		return err
	}

	user, ok := users[email]
	if !ok {
		// Auto-create on first login for convenience.
		user = newLocalIdentity(email, "")
		users[email] = user
		if err := l.saveUsers(users); err != nil {
			return err
		}
	}

	return l.writeJSON(sessionFileName, user)
}

func (l *Local) Signup(ctx context.Context, email, password, name string) (bool, error) {
	_ = ctx

	if email == "" || password == "" {
		return false, ErrCredentialsRequired
	}

	users, err := l.loadUsers()
	if err != nil {
		return false, err
	}
	if _, ok := users[email]; ok {
		return false, ErrUserExists
	}

	users[email] = newLocalIdentity(email, name)
	if err := l.saveUsers(users); err != nil {
		return false, err
	}

	// Local identities are auto-confirmed.
	return true, nil
}

func (l *Local) ConfirmSignup(ctx context.Context, email, code string) error {
	_, _, _ = ctx, email, code
	return nil
}

func (l *Local) Logout() error {
	err := os.Remove(filepath.Join(l.dir, sessionFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// AccessToken mints a fresh unsigned token for the current session. The
// signature is absent (alg "none"); only the dev-mode resolver accepts it.
func (l *Local) AccessToken(ctx context.Context) (string, error) {
	_ = ctx

	user, ok := l.CurrentUser()
	if !ok {
		return "", ErrNoSession
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(jwt.UnsafeAllowNoneSignatureType)
}

func (l *Local) CurrentUser() (*domain.Identity, bool) {
	b, err := os.ReadFile(filepath.Join(l.dir, sessionFileName))
	if err != nil {
		return nil, false
	}
	var user domain.Identity
	if err := json.Unmarshal(b, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func newLocalIdentity(email, name string) domain.Identity {
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return domain.Identity{
		UserID: "local-" + uuid.NewString(),
		Email:  email,
		Name:   name,
	}
}

func (l *Local) loadUsers() (map[string]domain.Identity, error) {
	users := map[string]domain.Identity{}

	b, err := os.ReadFile(filepath.Join(l.dir, usersFileName))
	if errors.Is(err, os.ErrNotExist) {
		return users, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return users, nil
}

func (l *Local) saveUsers(users map[string]domain.Identity) error {
	return l.writeJSON(usersFileName, users)
}

func (l *Local) writeJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
