// Package config resolves runtime settings from the process environment.
//
//	TODOAPI_ADDR               listen address (default 0.0.0.0:3000)
//	TODOAPI_LOG_LEVEL          error|warn|info|debug (default info)
//	TODOAPI_STORAGE_DRIVER     memory|sqlite|postgres (default memory)
//	TODOAPI_SQLITE_PATH        sqlite file (default todoapi.db)
//	DATABASE_URL               postgres DSN, required when driver=postgres
//	TODOAPI_BLOB_DRIVER        none|fs|s3|memory (default none, exports disabled)
//	TODOAPI_BLOB_FS_ROOT       directory for driver=fs (default ./blobdata)
//	TODOAPI_BLOB_S3_BUCKET     bucket for driver=s3 (required)
//	TODOAPI_BLOB_S3_REGION     region (default us-east-1)
//	TODOAPI_BLOB_S3_ENDPOINT   custom endpoint, e.g. MinIO
//	TODOAPI_BLOB_S3_PATH_STYLE true|false
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// StorageDriver identifies a todo repository implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // process memory, lost on exit
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// BlobDriverNone disables todo exports.
const BlobDriverNone = "none"

const (
	defaultAddr       = "0.0.0.0:3000"
	defaultLogLevel   = "info"
	defaultSQLitePath = "todoapi.db"
)

// ErrMissingDatabaseURL is returned when the postgres driver is selected
// without a connection string.
var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required for the postgres storage driver")

// Storage selects and configures the todo repository.
type Storage struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// S3 configures the s3 blob driver.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Blob selects and configures the export blob store.
type Blob struct {
	Driver string
	FSRoot string
	S3     S3
}

// Enabled reports whether a blob driver is configured.
func (b Blob) Enabled() bool { return b.Driver != "" && b.Driver != BlobDriverNone }

// Config is the full runtime configuration.
type Config struct {
	Addr     string
	LogLevel string
	Storage  Storage
	Blob     Blob
}

// FromEnv loads configuration from the process environment.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load resolves configuration through getenv and validates it.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:     valueOr(getenv("TODOAPI_ADDR"), defaultAddr),
		LogLevel: strings.ToLower(valueOr(getenv("TODOAPI_LOG_LEVEL"), defaultLogLevel)),
		Storage: Storage{
			Driver:      StorageDriver(strings.ToLower(valueOr(getenv("TODOAPI_STORAGE_DRIVER"), string(StorageMemory)))),
			SQLitePath:  valueOr(getenv("TODOAPI_SQLITE_PATH"), defaultSQLitePath),
			PostgresDSN: getenv("DATABASE_URL"),
		},
		Blob: Blob{
			Driver: strings.ToLower(valueOr(getenv("TODOAPI_BLOB_DRIVER"), BlobDriverNone)),
			FSRoot: getenv("TODOAPI_BLOB_FS_ROOT"),
			S3: S3{
				Bucket:    getenv("TODOAPI_BLOB_S3_BUCKET"),
				Region:    getenv("TODOAPI_BLOB_S3_REGION"),
				Endpoint:  getenv("TODOAPI_BLOB_S3_ENDPOINT"),
				PathStyle: strings.EqualFold(getenv("TODOAPI_BLOB_S3_PATH_STYLE"), "true"),
			},
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field requirements.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case BlobDriverNone, "fs", "memory":
	case "s3":
		if c.Blob.S3.Bucket == "" {
			return errors.New("config: TODOAPI_BLOB_S3_BUCKET is required for the s3 blob driver")
		}
	default:
		return fmt.Errorf("config: unknown blob driver %q", c.Blob.Driver)
	}
	return nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
