// Package storage implements the blob store backing post media uploads.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore persists uploaded media and serves back public URLs.
type BlobStore interface {
	Save(r io.Reader, ext string) (storagePath string, url string, err error)
	SaveBytes(data []byte, relPath string) (url string, err error)
	Open(storagePath string) (io.ReadCloser, error)
	Delete(storagePath string) error
	URL(storagePath string) string
}

// DiskStore stores blobs on the local filesystem under a base directory and
// serves them from a base URL prefix.
type DiskStore struct {
	baseDir string
	baseURL string
}

// NewDiskStore creates the base directory if needed and returns a DiskStore.
func NewDiskStore(baseDir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the stream under a generated name, sharded by the first two
// characters of the ID to keep directories small.
func (s *DiskStore) Save(r io.Reader, ext string) (string, string, error) {
	id := uuid.NewString()
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	rel := filepath.ToSlash(filepath.Join(id[:2], fmt.Sprintf("%s.%s", id, ext)))

	abs := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create media subdirectory: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return "", "", fmt.Errorf("failed to write media file: %w", err)
	}

	return rel, s.URL(rel), nil
}

// SaveBytes writes data at an explicit relative path (used for derived
// artifacts such as thumbnails placed next to their master).
func (s *DiskStore) SaveBytes(data []byte, relPath string) (string, error) {
	abs := filepath.Join(s.baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media subdirectory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return s.URL(relPath), nil
}

func (s *DiskStore) Open(storagePath string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.baseDir, filepath.FromSlash(storagePath)))
}

// Delete removes a blob. Callers treat failures as best-effort cleanup.
func (s *DiskStore) Delete(storagePath string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(storagePath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) URL(storagePath string) string {
	return s.baseURL + "/" + filepath.ToSlash(storagePath)
}

// BaseDir exposes the root directory for static file serving.
func (s *DiskStore) BaseDir() string {
	return s.baseDir
}
