// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimitPerWindow(t *testing.T) {
	t.Run("uses the configured window", func(t *testing.T) {
		limit := LimitPerWindow(100, 20, 30*time.Second)
		assert.Equal(t, 100, limit.Rate)
		assert.Equal(t, 20, limit.Burst)
		assert.Equal(t, 30*time.Second, limit.Period)
	})

	t.Run("zero window falls back to a minute", func(t *testing.T) {
		limit := LimitPerWindow(100, 20, 0)
		assert.Equal(t, time.Minute, limit.Period)
	})

	t.Run("negative window falls back to a minute", func(t *testing.T) {
		limit := LimitPerWindow(100, 20, -time.Second)
		assert.Equal(t, time.Minute, limit.Period)
	})
}
