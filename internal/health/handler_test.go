// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (c *stubChecker) Ping(context.Context) error {
	return c.err
}

func probe(t *testing.T, h http.HandlerFunc, target string) (int, probeResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body probeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestLiveness(t *testing.T) {
	h := NewHandler(&stubChecker{}, &stubChecker{})

	t.Run("running", func(t *testing.T) {
		code, body := probe(t, h.Liveness, "/healthz")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("draining", func(t *testing.T) {
		h.SetShutdown(true)
		defer h.SetShutdown(false)

		code, body := probe(t, h.Liveness, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "shutting_down", body.Status)
	})
}

func TestReadiness(t *testing.T) {
	t.Run("both stores healthy", func(t *testing.T) {
		h := NewHandler(&stubChecker{}, &stubChecker{})

		code, body := probe(t, h.Readiness, "/readyz")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
		require.Len(t, body.Components, 2)
		assert.Equal(t, "postgres", body.Components[0].Name)
		assert.Equal(t, "redis", body.Components[1].Name)
	})

	t.Run("redis failure reports degraded", func(t *testing.T) {
		h := NewHandler(
			&stubChecker{},
			&stubChecker{err: errors.New("connection refused")},
		)

		code, body := probe(t, h.Readiness, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "degraded", body.Status)
		require.Len(t, body.Components, 2)
		assert.True(t, body.Components[0].Healthy)
		assert.False(t, body.Components[1].Healthy)
		assert.Equal(t, "ping failed", body.Components[1].Error)
	})

	t.Run("draining skips the pings", func(t *testing.T) {
		h := NewHandler(&stubChecker{}, &stubChecker{})
		h.SetShutdown(true)

		code, body := probe(t, h.Readiness, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "shutting_down", body.Status)
		assert.Empty(t, body.Components)
	})
}
