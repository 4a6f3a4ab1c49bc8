// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correcthorse")
	require.NoError(t, err)
	assert.NotContains(t, hash, "correcthorse")

	ok, err := VerifyPassword("correcthorse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrongpassword", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	hash, err := HashPassword("correcthorse")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		ok, _, err := VerifyPasswordTimingSafe("correcthorse", &hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("nil hash always fails", func(t *testing.T) {
		ok, _, err := VerifyPasswordTimingSafe("correcthorse", nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty hash always fails", func(t *testing.T) {
		empty := ""
		ok, _, err := VerifyPasswordTimingSafe("correcthorse", &empty)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSessionTokens(t *testing.T) {
	first, err := GenerateSessionToken()
	require.NoError(t, err)
	second, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	hash := HashToken(first)
	assert.NotEqual(t, first, hash)
	assert.True(t, CompareTokenHash(first, hash))
	assert.False(t, CompareTokenHash(second, hash))
}
