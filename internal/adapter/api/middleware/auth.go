package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/khanhng/taskscope/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFrom extracts the authenticated principal placed into the request
// context by the Auth middleware.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// WithPrincipal returns a copy of ctx carrying the principal.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Auth is a middleware factory that resolves the bearer token into a
// Principal via the session store and injects it into the request context.
// Requests without a resolvable principal never reach the handler.
func Auth(sessions domain.SessionRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn("missing bearer token", "remote_addr", r.RemoteAddr)
				writeAuthError(w, http.StatusUnauthorized)
				return
			}

			principal, err := sessions.Lookup(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					logger.Warn("unknown or expired session token", "remote_addr", r.RemoteAddr)
					writeAuthError(w, http.StatusUnauthorized)
					return
				}
				logger.Error("session lookup failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), *principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func writeAuthError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	code := "UNAUTHORIZED"
	if status == http.StatusInternalServerError {
		code = "INTERNAL"
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   code,
	})
}
