// Package storage abstracts where evidence blobs live. The database
// keeps the metadata; this package only moves bytes.
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"auditgate-backend/shared/config"
)

// Service stores, retrieves and removes evidence files by their
// generated object name.
type Service interface {
	Save(ctx context.Context, objectName string, reader io.Reader, size int64) error
	Open(ctx context.Context, objectName string) (io.ReadCloser, error)
	Remove(ctx context.Context, objectName string) error
}

var (
	service     Service
	serviceOnce sync.Once
	serviceErr  error
)

// GetService returns the process-wide storage backend selected by
// EVIDENCE_STORAGE ("local" or "minio").
func GetService() (Service, error) {
	serviceOnce.Do(func() {
		cfg := config.GetConfig()
		switch cfg.EvidenceStorage {
		case "minio":
			service, serviceErr = NewMinIOStorage()
		case "", "local":
			service, serviceErr = NewLocalStorage(cfg.UploadDir)
		default:
			serviceErr = fmt.Errorf("unknown evidence storage backend: %s", cfg.EvidenceStorage)
		}
	})
	return service, serviceErr
}

// SetService overrides the backend, for tests.
func SetService(s Service) {
	serviceOnce.Do(func() {})
	service, serviceErr = s, nil
}
