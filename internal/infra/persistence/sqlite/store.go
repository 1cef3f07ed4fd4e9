// Package sqlite persists todos to an embedded SQLite database using the pure
// Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"todoapi/internal/infra/persistence/sqlrepo"
	"todoapi/internal/schema/sqlbundle"
	"todoapi/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.TodoRepository = (*Store)(nil)

const defaultPath = "todoapi.db"

var queries = sqlrepo.Queries{
	Insert:    `INSERT INTO todos(text, completed) VALUES(?, 0) RETURNING id, text, completed`,
	Select:    `SELECT id, text, completed FROM todos WHERE id = ?`,
	SelectAll: `SELECT id, text, completed FROM todos ORDER BY id`,
	Update:    `UPDATE todos SET text = COALESCE(?, text), completed = COALESCE(?, completed) WHERE id = ? RETURNING id, text, completed`,
	Delete:    `DELETE FROM todos WHERE id = ?`,
}

// Store is a todo repository backed by a single SQLite file.
type Store struct {
	*sqlrepo.Repository
	path string
}

// NewStore opens (creating if needed) the database at path and applies the
// todos DDL. An empty path falls back to todoapi.db in the working directory.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY and
	// keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if err := sqlrepo.ApplyDDL(ctx, db, sqlbundle.SQLite()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Repository: sqlrepo.New(db, queries), path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
