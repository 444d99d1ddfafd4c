package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func issueToken(t *testing.T, sub, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func identityService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	// Method-prefixed ServeMux patterns ("POST /login") need Go 1.22+;
	// check the method explicitly so the mock works on Go 1.21.
	post := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("/login", post(func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"idToken":   issueToken(t, "sub-123", req.Email),
			"expiresIn": 3600,
		})
	}))
	mux.HandleFunc("/signup", post(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"userConfirmed": false})
	}))
	mux.HandleFunc("/confirm", post(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("/logout", post(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHostedLoginAndToken(t *testing.T) {
	srv := identityService(t)
	sess, err := NewHosted(srv.URL, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := sess.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}

	if err := sess.Login(context.Background(), "alice@example.com", "hunter2"); err != nil {
		t.Fatal(err)
	}

	user, ok := sess.CurrentUser()
	if !ok {
		t.Fatal("expected a signed-in user")
	}
	if user.UserID != "sub-123" || user.Email != "alice@example.com" {
		t.Fatalf("identity not extracted from id token: %+v", user)
	}

	token, err := sess.AccessToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("expected the cached token")
	}

	if err := sess.Logout(); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.AccessToken(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestHostedSignupNeedsConfirmation(t *testing.T) {
	srv := identityService(t)
	sess, err := NewHosted(srv.URL, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	confirmed, err := sess.Signup(context.Background(), "bob@example.com", "hunter2", "Bob")
	if err != nil {
		t.Fatal(err)
	}
	if confirmed {
		t.Fatal("service said pending, session reported confirmed")
	}

	if err := sess.ConfirmSignup(context.Background(), "bob@example.com", "123456"); err != nil {
		t.Fatal(err)
	}
}
