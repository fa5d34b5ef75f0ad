package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/infrastructure/http/response"
)

// KeyValidator checks a presented API key.
// *auth.Authenticator satisfies it.
type KeyValidator interface {
	ValidateAPIKey(ctx context.Context, apiKey string) (*domain.APIKey, error)
}

type apiKeyContextKey struct{}

// APIKeyFromContext returns the key that authenticated the request.
func APIKeyFromContext(ctx context.Context) (*domain.APIKey, bool) {
	key, ok := ctx.Value(apiKeyContextKey{}).(*domain.APIKey)
	return key, ok
}

// Auth is HTTP middleware for API key authentication.
type Auth struct {
	validator KeyValidator
}

// NewAuth creates a new auth middleware.
func NewAuth(validator KeyValidator) *Auth {
	return &Auth{validator: validator}
}

// Validate requires "Authorization: Bearer <api-key>".
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			slog.WarnContext(r.Context(), "authentication failed: missing Authorization header",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "missing Authorization header")
			return
		}

		apiKey, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		key, err := a.validator.ValidateAPIKey(r.Context(), apiKey)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				slog.WarnContext(r.Context(), "authentication failed: invalid or expired API key",
					"path", r.URL.Path,
					"method", r.Method)
			} else {
				slog.ErrorContext(r.Context(), "authentication failed: unexpected error",
					"path", r.URL.Path,
					"error", err)
			}
			response.Unauthorized(w, "invalid or expired API key")
			return
		}

		slog.DebugContext(r.Context(), "authentication successful",
			"key_id", key.ID,
			"key_name", key.Name)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiKeyContextKey{}, key)))
	})
}
