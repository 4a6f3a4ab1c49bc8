// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

const (
	UserIDKey    contextKey = "user_id"
	RequestIDKey contextKey = "request_id"
)

// AuthHeader carries the opaque session token issued at login.
const AuthHeader = "X-Authorization"

// TokenVerifier resolves a session token to the authenticated user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (int64, error)
}

// Authenticator rejects requests without a valid session token.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authentication token"),
				)
				return
			}

			userID, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, core.ErrUnauthorized) ||
					errors.Is(err, core.ErrNotFound) {
					core.JSONError(
						w,
						core.UnauthorizedError("invalid authentication token"),
					)
					return
				}
				core.InternalServerError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a session token when present but lets anonymous
// requests through. Used by endpoints whose response shape depends on the
// caller, such as viewing a user profile.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token != "" {
				userID, err := verifier.VerifyToken(r.Context(), token)
				if err == nil {
					ctx := context.WithValue(r.Context(), UserIDKey, userID)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(AuthHeader))
}

// GetUserID returns the authenticated user id, or 0 for anonymous
// requests.
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}
