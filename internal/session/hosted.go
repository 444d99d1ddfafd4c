package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

const credFileName = "credentials.json"

// Hosted delegates authentication to the external identity service and
// caches the issued ID token in a credentials file. The service is consumed
// only through its capability set (login, signup, confirm, current-session,
// sign-out); its internals stay opaque.
type Hosted struct {
	baseURL string
	dir     string
	client  *http.Client
}

// NewHosted talks to the identity service at baseURL and keeps credentials
// under dir, defaulting to <user config dir>/todoapp.
func NewHosted(baseURL, dir string) (*Hosted, error) {
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
	return &Hosted{
		baseURL: baseURL,
		dir:     dir,
		client:  &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// credentials is the on-disk session cache.
type credentials struct {
	Token     string          `json:"token"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      domain.Identity `json:"user"`
}

type tokenResponse struct {
	IDToken   string `json:"idToken"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h *Hosted) Login(ctx context.Context, email, password string) error {
	var resp tokenResponse
	status, err := h.post(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return ErrLoginFailed
	}
	return h.storeToken(resp)
}

func (h *Hosted) Signup(ctx context.Context, email, password, name string) (bool, error) {
	var resp struct {
		UserConfirmed bool `json:"userConfirmed"`
	}
	status, err := h.post(ctx, "/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &resp)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return false, fmt.Errorf("signup failed (status %d)", status)
	}
	return resp.UserConfirmed, nil
}

func (h *Hosted) ConfirmSignup(ctx context.Context, email, code string) error {
	status, err := h.post(ctx, "/confirm", map[string]string{
		"email": email,
		"code":  code,
	}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("confirmation failed (status %d)", status)
	}
	return nil
}

func (h *Hosted) Logout() error {
	creds, err := h.loadCreds()
	if err == nil {
		// Best effort: invalidate the remote session too.
		req, rerr := http.NewRequestWithContext(context.Background(), http.MethodPost, h.baseURL+"/logout", nil)
		if rerr == nil {
			req.Header.Set("Authorization", "Bearer "+creds.Token)
			if resp, derr := h.client.Do(req); derr == nil {
				resp.Body.Close()
			}
		}
	}

	if err := os.Remove(h.credPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// AccessToken returns the cached ID token while it is still valid and asks
// the identity service for the current session once it is not.
func (h *Hosted) AccessToken(ctx context.Context) (string, error) {
	creds, err := h.loadCreds()
	if err != nil {
		return "", ErrNoSession
	}

	if time.Now().Before(creds.ExpiresAt) {
		return creds.Token, nil
	}

	// Expired locally; the remote session may still be alive.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/session", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrNoSession
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if err := h.storeToken(tr); err != nil {
		return "", err
	}
	return tr.IDToken, nil
}

func (h *Hosted) CurrentUser() (*domain.Identity, bool) {
	creds, err := h.loadCreds()
	if err != nil {
		return nil, false
	}
	return &creds.User, true
}

// storeToken caches the issued token and the identity extracted from its
// payload.
func (h *Hosted) storeToken(tr tokenResponse) error {
	if tr.IDToken == "" {
		return fmt.Errorf("identity service returned no token")
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		jwt.RegisteredClaims
	}
	if _, _, err := jwt.NewParser().ParseUnverified(tr.IDToken, &claims); err != nil {
		return fmt.Errorf("parse id token: %w", err)
	}

	now := time.Now()
	creds := credentials{
		Token:     tr.IDToken,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(tr.ExpiresIn) * time.Second),
		User: domain.Identity{
			UserID: claims.Subject,
			Email:  claims.Email,
			Name:   claims.Name,
		},
	}

	b, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(h.credPath(), b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

func (h *Hosted) loadCreds() (*credentials, error) {
	b, err := os.ReadFile(h.credPath())
	if err != nil {
		return nil, err
	}
	var creds credentials
	if err := json.Unmarshal(b, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &creds, nil
}

func (h *Hosted) credPath() string {
	return filepath.Join(h.dir, credFileName)
}

func (h *Hosted) post(ctx context.Context, path string, body any, out any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
