package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"contractorreg-backend/internal/shared/storage/object"
	"contractorreg-backend/internal/shared/util"
)

// Store implements object.Store on the local filesystem.
type Store struct {
	baseDir string
}

// New creates a local store rooted at baseDir. The directory is created on first save.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

var _ object.Store = (*Store)(nil)

// BaseDir returns the root directory of the store.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Save writes r to "<uuid>-<sanitized fileName>" under the base directory.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (object.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return object.StoredFile{}, err
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return object.StoredFile{}, fmt.Errorf("sanitize file name: %w", err)
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return object.StoredFile{}, fmt.Errorf("mkdir: %w", err)
	}

	key := uuid.NewString() + "-" + sanitized
	fullPath := filepath.Join(s.baseDir, key)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return object.StoredFile{}, fmt.Errorf("open file: %w", err)
	}

	written, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(fullPath)
		return object.StoredFile{}, fmt.Errorf("write body: %w", err)
	}

	return object.StoredFile{Key: key, Path: fullPath, SizeBytes: written}, nil
}

// Remove deletes a stored object. Removing a missing object is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || clean == ".." || filepath.IsAbs(clean) || strings.ContainsAny(clean, `/\`) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}
