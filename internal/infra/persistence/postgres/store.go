// Package postgres provides a Postgres-backed todo repository that applies
// the embedded todos DDL on startup and forwards every operation to a single
// parameterised statement.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"todoapi/internal/infra/persistence/sqlrepo"
	"todoapi/internal/schema/sqlbundle"
	"todoapi/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.TodoRepository = (*Store)(nil)

const defaultDriver = "pgx"

// ErrMissingDSN is returned when no connection string is configured.
var ErrMissingDSN = errors.New("postgres: connection string is required")

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

var queries = sqlrepo.Queries{
	Insert:    `INSERT INTO todos(text, completed) VALUES($1, FALSE) RETURNING id, text, completed`,
	Select:    `SELECT id, text, completed FROM todos WHERE id = $1`,
	SelectAll: `SELECT id, text, completed FROM todos ORDER BY id`,
	Update:    `UPDATE todos SET text = COALESCE($1::text, text), completed = COALESCE($2::boolean, completed) WHERE id = $3 RETURNING id, text, completed`,
	Delete:    `DELETE FROM todos WHERE id = $1`,
}

// Store persists todos in Postgres. Connections are pooled by database/sql and
// borrowed per call.
type Store struct {
	*sqlrepo.Repository
}

// NewStore opens a pool for dsn, verifies connectivity and applies the todos DDL.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := sqlrepo.ApplyDDL(ctx, db, sqlbundle.Postgres()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Repository: sqlrepo.New(db, queries)}, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
