package photo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded photos on local disk and hands back the public URL
// they are served under. Filenames are generated, never caller-controlled.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates the upload directory if needed.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory photos are written to, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload to disk under a generated name, keeping only the
// original extension, and returns the public URL.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("unsupported photo type %q", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
