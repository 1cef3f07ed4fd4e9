package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"todoapi/internal/infra/persistence/contracttest"
	"todoapi/pkg/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.db")
	store, err := NewStore(context.Background(), path)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreContract(t *testing.T) {
	contracttest.Run(t, func(t *testing.T) domain.TodoRepository {
		return newTestStore(t)
	})
}

func TestSQLiteStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.db")
	store, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	created, err := store.Create(ctx, domain.CreateTodo{Text: "Persist"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file missing: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("reload sqlite store: %v", err)
	}
	defer func() { _ = reloaded.Close() }()
	todos, err := reloaded.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(todos) != 1 || todos[0] != created {
		t.Fatalf("expected persisted todo %+v, got %+v", created, todos)
	}
	if reloaded.Path() != path {
		t.Fatalf("expected path %s, got %s", path, reloaded.Path())
	}
	if reloaded.DB() == nil {
		t.Fatalf("expected db handle")
	}
}

func TestSQLiteStoreSurfacesClosedDatabaseErrors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	_ = store.DB().Close()

	if _, err := store.Create(ctx, domain.CreateTodo{Text: "x"}); err == nil {
		t.Fatalf("expected create error after closing db")
	}
	if err := store.Delete(ctx, 1); err == nil {
		t.Fatalf("expected delete error after closing db")
	} else if errorsIsNotFound(err) {
		t.Fatalf("closed db must not look like not found: %v", err)
	}
}

func TestSQLiteStoreInMemoryPath(t *testing.T) {
	store, err := NewStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("new in-memory sqlite store: %v", err)
	}
	defer func() { _ = store.Close() }()
	if _, err := store.Create(context.Background(), domain.CreateTodo{Text: "ephemeral"}); err != nil {
		t.Fatalf("create: %v", err)
	}
}
