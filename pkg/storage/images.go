package storage

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// ImageStore persists uploaded profile images on disk under a base directory
// that is also mounted as static content.
type ImageStore struct {
	baseDir string
}

// NewImageStore ensures the base directory exists and returns a handle.
func NewImageStore(baseDir string) (*ImageStore, error) {
	if baseDir == "" {
		baseDir = "./public/images"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	return &ImageStore{baseDir: baseDir}, nil
}

// NewFilename derives a collision-resistant stored name from the original
// upload name: <millisecond-timestamp>-<random 0..9999><original extension>.
func NewFilename(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(10000), ext)
}

// Save streams the upload into the store under the given filename.
func (s *ImageStore) Save(filename string, r io.Reader) (string, error) {
	path := s.resolve(filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write image stream: %w", err)
	}
	return filename, nil
}

// Delete removes a stored image if present. A missing file is not an error.
func (s *ImageStore) Delete(filename string) error {
	path := s.resolve(filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// Exists reports whether the named image is on disk.
func (s *ImageStore) Exists(filename string) bool {
	_, err := os.Stat(s.resolve(filename))
	return err == nil
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *ImageStore) Path(filename string) string {
	return s.resolve(filename)
}

// Dir returns the base directory the store writes into.
func (s *ImageStore) Dir() string {
	return s.baseDir
}

func (s *ImageStore) resolve(filename string) string {
	// Uploads are stored flat; strip any path component from the name.
	return filepath.Join(s.baseDir, filepath.Base(filename))
}
