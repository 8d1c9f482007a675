package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stockroomd/stockroom/internal/core/domain"
)

type contextKey struct{}

// FromContext returns the verified claims of the current request, if any.
func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(Claims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  http.StatusText(code),
		"error":   "unauthorized",
		"message": message,
	})
}

// Middleware verifies the Bearer token and stores the claims in the
// request context.
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeAuthError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "Authorization header must be a Bearer token")
			return
		}

		claims, err := t.Verify(tokenStr)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a handler on the caller's role. It assumes Middleware
// already ran; a request without claims is rejected.
func RequireRole(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if claims.Role != role {
			writeAuthError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next(w, r)
	}
}
