// AngelaMos | 2026
// store_test.go

package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestExtensionForMIME(t *testing.T) {
	cases := []struct {
		contentType string
		wantExt     string
		wantOK      bool
	}{
		{"image/png", ".png", true},
		{"image/jpeg", ".jpg", true},
		{"image/gif", ".gif", true},
		{"IMAGE/PNG", ".png", true},
		{"image/png; charset=binary", ".png", true},
		{"image/webp", "", false},
		{"text/plain", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		ext, ok := ExtensionForMIME(tc.contentType)
		assert.Equal(t, tc.wantOK, ok, tc.contentType)
		assert.Equal(t, tc.wantExt, ext, tc.contentType)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}

	filename, err := store.Save(payload, ".png")
	require.NoError(t, err)
	assert.NotEmpty(t, filename)

	data, mime, err := store.Retrieve(filename)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", mime)
}

func TestStoreSaveRejections(t *testing.T) {
	store := newTestStore(t)

	t.Run("empty payload", func(t *testing.T) {
		_, err := store.Save(nil, ".png")
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := store.Save([]byte{1}, ".svg")
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestStoreRetrieveMissing(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Retrieve("doesnotexist.png")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)

	filename, err := store.Save([]byte{1, 2, 3}, ".gif")
	require.NoError(t, err)

	require.NoError(t, store.Delete(filename))

	_, _, err = store.Retrieve(filename)
	assert.ErrorIs(t, err, core.ErrNotFound)

	t.Run("deleting a missing file is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(filename))
	})
}

func TestStoreRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, filename := range []string{"../secret.png", "a/b.png", ""} {
		_, _, err := store.Retrieve(filename)
		assert.ErrorIs(t, err, core.ErrInvalidInput, filename)
	}
}
