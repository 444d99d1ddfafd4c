package middleware

import (
	"context"
	"net/http"

	"github.com/Kokonaut/todo-app-demo/internal/auth"
	domain "github.com/Kokonaut/todo-app-demo/internal/domain/model"
	"github.com/Kokonaut/todo-app-demo/internal/http/httpx"
)

type identityKeyType struct{}

var identityKey = identityKeyType{}

// Auth resolves the caller identity once per request and stores it in the
// context. Requests without a resolvable identity never reach the handler.
func Auth(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(r)
			if err != nil {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, "Authentication required")
				return
			}
			fillIdentity(r.Context(), identity)
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity stored by Auth.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*domain.Identity)
	return id, ok
}
