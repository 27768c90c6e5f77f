package auth

import (
	"context"
	"net/http"

	"github.com/clwillhuang/code-projectorium/internal/repository"
)

// Identity is the resolved requester carried in the request context.
type Identity struct {
	UserID   string
	Username string
}

// contextKey is unexported so only this package can read or write the
// identity value in a context.
type contextKey struct{}

var identityKey contextKey

// WithIdentity returns a context carrying the identity. Exposed for tests
// that exercise handlers without the middleware chain.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the requester's identity, or ok=false for an
// anonymous request.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// WithSession resolves the session cookie to an identity on every request.
// Anonymous requests (no cookie, unknown token, expired session, deleted
// account) pass through without an identity; nothing is rejected here.
func WithSession(sessions *SessionService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Resolve(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(r.Context(), session.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID:   user.ID,
				Username: user.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carry no identity with 401. It must run
// after WithSession. Authentication failure short-circuits before any
// ownership or visibility gate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
