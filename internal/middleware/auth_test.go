// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

type fakeVerifier struct {
	tokens map[string]int64
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (int64, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("verify token: %w", core.ErrNotFound)
}

func captureUserID(got *int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]int64{"goodtoken": 7}}

	t.Run("valid token resolves the user", func(t *testing.T) {
		var userID int64
		handler := Authenticator(verifier)(captureUserID(&userID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(AuthHeader, "goodtoken")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(7), userID)
	})

	t.Run("missing header", func(t *testing.T) {
		var userID int64
		handler := Authenticator(verifier)(captureUserID(&userID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		var userID int64
		handler := Authenticator(verifier)(captureUserID(&userID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(AuthHeader, "badtoken")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, userID)
	})
}

func TestOptionalAuth(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]int64{"goodtoken": 7}}

	t.Run("anonymous requests pass through", func(t *testing.T) {
		var userID int64
		handler := OptionalAuth(verifier)(captureUserID(&userID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, userID)
	})

	t.Run("valid token still resolves", func(t *testing.T) {
		var userID int64
		handler := OptionalAuth(verifier)(captureUserID(&userID))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(AuthHeader, "goodtoken")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(7), userID)
	})
}
