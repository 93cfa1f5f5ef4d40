package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/webfinancas/api/internal/models"
	pkghttp "github.com/webfinancas/api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const userIDContextKey contextKey = "user_id"

// UserFetcher loads the current user for the admin gate.
type UserFetcher interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireAuth extracts and validates the bearer token, then injects the
// authenticated user id into the request context.
func RequireAuth(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkghttp.WriteUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				pkghttp.WriteUnauthorized(w, "invalid authorization header format")
				return
			}

			userID, err := tm.Validate(parts[1])
			if err != nil {
				pkghttp.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth. The
// admin flag is looked up fresh on every request rather than trusted from
// the token.
func RequireAdmin(users UserFetcher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				pkghttp.WriteUnauthorized(w, "unauthorized")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteNotFound(w, "user not found")
					return
				}
				pkghttp.WriteInternalError(w, "internal server error")
				return
			}

			if !user.IsAdmin {
				pkghttp.WriteForbidden(w, "admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

// ContextWithUserID returns ctx carrying userID. Exported for handler tests.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
