package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// identityHolder lets inner middleware hand the resolved identity back to
// the log middleware. Auth derives a fresh context for the handler chain, so
// a plain context value set there would never be visible out here; the
// holder is seeded before next runs and filled in by Auth.
type identityHolder struct {
	identity *domain.Identity
}

type holderKeyType struct{}

var holderKey = holderKeyType{}

func fillIdentity(ctx context.Context, identity *domain.Identity) {
	if h, ok := ctx.Value(holderKey).(*identityHolder); ok {
		h.identity = identity
	}
}

// RequestLog logs one line per request. The user id is included when the
// auth middleware resolved one further down the chain.
func RequestLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			holder := &identityHolder{}
			r = r.WithContext(context.WithValue(r.Context(), holderKey, holder))

			next.ServeHTTP(rec, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			}
			if holder.identity != nil {
				attrs = append(attrs, "user_id", holder.identity.UserID)
			}
			logger.Info("request", attrs...)
		})
	}
}
