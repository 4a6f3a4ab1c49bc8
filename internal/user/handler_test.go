// AngelaMos | 2026
// handler_test.go

package user

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/petition-platform/internal/middleware"
)

func authAs(userID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func patchUser(
	t *testing.T,
	router http.Handler,
	target, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(
		http.MethodPatch,
		target,
		bytes.NewBufferString(body),
	)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateUserPreconditionOrder(t *testing.T) {
	svc, _ := newTestService(t)
	caller := registerTestUser(t, svc)

	other, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "grace@example.com",
		FirstName: "Grace",
		LastName:  "Hopper",
		Password:  "password123",
	})
	require.NoError(t, err)

	handler := NewHandler(svc, 1<<20)
	router := chi.NewRouter()
	handler.RegisterRoutes(router, authAs(caller.ID), authAs(caller.ID))

	t.Run("malformed id is 400", func(t *testing.T) {
		rec := patchUser(t, router, "/users/abc", `{"firstName":"Grace"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user is 404 before the self check", func(t *testing.T) {
		rec := patchUser(t, router, "/users/999", `{"firstName":"Grace"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("another user is 403", func(t *testing.T) {
		target := fmt.Sprintf("/users/%d", other.ID)
		rec := patchUser(t, router, target, `{"firstName":"Grace"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("self update succeeds", func(t *testing.T) {
		target := fmt.Sprintf("/users/%d", caller.ID)
		rec := patchUser(t, router, target, `{"firstName":"Augusta"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
