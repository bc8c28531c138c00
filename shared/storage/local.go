package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps evidence files on the local filesystem under a
// single flat directory. Object names are uuid-based, so no nesting is
// needed.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (l *LocalStorage) path(objectName string) string {
	// Object names are generated server side, but never trust them as paths.
	return filepath.Join(l.dir, filepath.Base(objectName))
}

func (l *LocalStorage) Save(ctx context.Context, objectName string, reader io.Reader, size int64) error {
	f, err := os.Create(l.path(objectName))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(l.path(objectName))
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (l *LocalStorage) Open(ctx context.Context, objectName string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(objectName))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (l *LocalStorage) Remove(ctx context.Context, objectName string) error {
	err := os.Remove(l.path(objectName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
