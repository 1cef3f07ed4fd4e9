// Package blob is the entry point to blob storage. Callers depend on Store
// and obtain one from Open; the concrete backends live under
// internal/infra/blob.
package blob

import (
	"context"
	"fmt"

	"todoapi/internal/blob/core"
	"todoapi/internal/config"
	fsstore "todoapi/internal/infra/blob/fs"
	memorystore "todoapi/internal/infra/blob/memory"
	s3store "todoapi/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
	// S3Config configures the S3 backend.
	S3Config = s3store.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrExists     = core.ErrExists
	ErrNotFound   = core.ErrNotFound
	ErrInvalidKey = core.ErrInvalidKey
)

// ErrDisabled is returned by Open when no blob driver is configured.
var ErrDisabled = fmt.Errorf("blob storage disabled (driver %q)", config.BlobDriverNone)

// Open builds the Store selected by cfg.
func Open(ctx context.Context, cfg config.Blob) (Store, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	switch Driver(cfg.Driver) {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

// NewFilesystem returns a Store rooted at the given directory.
func NewFilesystem(root string) (Store, error) {
	return fsstore.New(root)
}

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memorystore.New() }

// NewS3 returns an S3-backed Store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return s3store.New(ctx, cfg)
}

// NewMockS3ForTests exposes the fake-transport S3 store to other packages'
// tests.
func NewMockS3ForTests() Store { return s3store.NewMockForTests() }
