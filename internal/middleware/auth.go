package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"photoshare/internal/models"
	"photoshare/internal/token"
)

// UserFinder resolves a token subject to a user. Satisfied by
// *store.UserStore.
type UserFinder interface {
	FindByEmail(email string) (*models.User, error)
}

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const principalKey contextKey = "principal"

// Authenticate verifies the Bearer token on the request and loads the
// matching user into the request context. Requests without an
// Authorization header pass through unauthenticated; requests with an
// invalid or expired token are rejected with 401. Enforcement of
// authentication is left to RequireAuth.
func Authenticate(tokens *token.Service, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			email, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.FindByEmail(email)
			if err != nil {
				writeAuthError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401. Must be
// applied after Authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromCtx(r.Context()) == nil {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles rejects authenticated users whose role is not in the
// allowed set with 403. Must be applied after RequireAuth.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := PrincipalFromCtx(r.Context())
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromCtx extracts the authenticated user from the request
// context. Returns nil if the request is unauthenticated.
func PrincipalFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(principalKey).(*models.User)
	return user
}

// WithPrincipal returns a context carrying the given user. Used by
// tests to exercise handlers without a full token round trip.
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    status,
		"message": message,
	})
}
