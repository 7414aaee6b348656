package capture

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"

	"github.com/viewfinder/viewfinder/internal/composite"
)

// Store keeps capture PNGs on disk under their capture id.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes img as <id>.png and returns the file name.
func (s *Store) Save(id string, img image.Image) (string, error) {
	filename := id + ".png"
	path := filepath.Join(s.dir, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create capture file: %w", err)
	}
	if err := composite.EncodePNG(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close capture file: %w", err)
	}
	return filename, nil
}

// Remove deletes a stored file. Only the base name is honored.
func (s *Store) Remove(fileName string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(fileName)))
}

// Serve returns an http.Handler that serves stored captures with caching headers.
func (s *Store) Serve() http.Handler {
	fs := http.FileServer(http.Dir(s.dir))
	return http.StripPrefix("/captures/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Capture IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}
