package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrS3NotConfigured is returned when mirroring is attempted without an
// S3 backend configured.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// LocalStore implements Store using a local output directory. Artifacts
// are named after their work item, so repeated runs overwrite in place
// rather than accumulating orphans.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a LocalStore rooted at dir, creating the
// directory if it doesn't exist. If dir is empty, a demos directory
// under os.TempDir() is used.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "odyssey-demos")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

// Dir returns the output directory path.
func (s *LocalStore) Dir() string {
	return s.dir
}

// ArtifactPath returns the local path for a named artifact.
func (s *LocalStore) ArtifactPath(name, suffix string) string {
	return filepath.Join(s.dir, name+suffix)
}

// Mirror is not supported by LocalStore and returns ErrS3NotConfigured.
func (s *LocalStore) Mirror(_ context.Context, _, _ string) (string, error) {
	return "", ErrS3NotConfigured
}

// Compile-time check that LocalStore implements Store.
var _ Store = (*LocalStore)(nil)
