// AngelaMos | 2026
// store.go

// Package images is a flat-file blob store for user and petition hero
// images. Files are named by a random nanoid plus the original extension;
// the database row holds the filename.
package images

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

var ErrUnsupportedType = errors.New("unsupported image type")

var extensionByMIME = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

var mimeByExtension = map[string]string{
	".png": "image/png",
	".jpg": "image/jpeg",
	".gif": "image/gif",
}

// ExtensionForMIME maps an accepted Content-Type to a file extension.
func ExtensionForMIME(contentType string) (string, bool) {
	mediaType := contentType
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	ext, ok := extensionByMIME[strings.TrimSpace(strings.ToLower(mediaType))]
	return ext, ok
}

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("image store: directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image store: create directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Save writes the image bytes under a freshly generated filename and
// returns that filename. A failed write leaves nothing behind.
func (s *Store) Save(data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image store: %w: empty image", core.ErrInvalidInput)
	}
	if _, ok := mimeByExtension[ext]; !ok {
		return "", fmt.Errorf("image store: %w: %s", ErrUnsupportedType, ext)
	}

	name, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("image store: generate filename: %w", err)
	}
	filename := name + ext

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		//nolint:errcheck // best-effort cleanup of a partial write
		_ = os.Remove(filepath.Join(s.dir, filename))
		return "", fmt.Errorf("image store: write %s: %w", filename, err)
	}

	return filename, nil
}

// Retrieve returns the image bytes and MIME type for a stored filename.
func (s *Store) Retrieve(filename string) ([]byte, string, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, "", err
	}

	mimeType, ok := mimeByExtension[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, "", fmt.Errorf("image store: %w: %s", ErrUnsupportedType, filename)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("image store: read %s: %w", filename, core.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("image store: read %s: %w", filename, err)
	}

	return data, mimeType, nil
}

// Delete removes a stored image. Deleting a missing file is a no-op.
func (s *Store) Delete(filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("image store: delete %s: %w", filename, err)
	}

	return nil
}

// path rejects anything that could escape the store directory.
func (s *Store) path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("image store: %w: bad filename %q", core.ErrInvalidInput, filename)
	}
	return filepath.Join(s.dir, filename), nil
}
