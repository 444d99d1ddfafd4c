package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kokonaut/todo-app-demo/internal/auth"
)

func logThrough(t *testing.T, authorize bool) string {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := RequestLog(logger)(Auth(&auth.Resolver{DevMode: true})(inner))

	req := httptest.NewRequest("GET", "/items", nil)
	if authorize {
		req.Header.Set("Authorization", "Bearer alice")
	}
	chain.ServeHTTP(httptest.NewRecorder(), req)

	return buf.String()
}

func TestRequestLogIncludesUser(t *testing.T) {
	line := logThrough(t, true)

	if !strings.Contains(line, "user_id=alice") {
		t.Fatalf("expected user_id in log line, got %q", line)
	}
	if !strings.Contains(line, "status=200") || !strings.Contains(line, "path=/items") {
		t.Fatalf("unexpected log line: %q", line)
	}
}

func TestRequestLogUnauthenticated(t *testing.T) {
	line := logThrough(t, false)

	if strings.Contains(line, "user_id") {
		t.Fatalf("rejected request must not log a user id, got %q", line)
	}
	if !strings.Contains(line, "status=401") {
		t.Fatalf("expected the 401 to be logged, got %q", line)
	}
}
