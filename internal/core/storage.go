package core

import (
	"context"
	"fmt"

	"todoapi/internal/config"
	"todoapi/internal/infra/persistence/memory"
	"todoapi/internal/infra/persistence/postgres"
	"todoapi/internal/infra/persistence/sqlite"
	"todoapi/pkg/domain"
)

// CloseFunc releases the resources held by a repository.
type CloseFunc func() error

// OpenRepository constructs the repository selected by cfg. The returned
// CloseFunc is never nil.
func OpenRepository(ctx context.Context, cfg config.Storage) (domain.TodoRepository, CloseFunc, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.StorageMemory
	}
	switch driver {
	case config.StorageMemory:
		return memory.NewStore(), func() error { return nil }, nil
	case config.StorageSQLite:
		store, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		return store, store.Close, nil
	case config.StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres repository: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
