// Package sqlrepo implements domain.TodoRepository over database/sql. The
// sqlite and postgres adapters supply dialect specific statements and own the
// connection lifecycle.
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todoapi/internal/schema/sqlbundle"
	"todoapi/pkg/domain"
)

// Compile-time contract assertion ensuring the repository satisfies the domain interface.
var _ domain.TodoRepository = (*Repository)(nil)

// Queries holds the parameterised statements for one SQL dialect. Every
// statement that returns a row must select (id, text, completed) in order.
type Queries struct {
	// Insert takes (text) and returns the created row.
	Insert string
	// Select takes (id).
	Select string
	// SelectAll returns every row ordered by id.
	SelectAll string
	// Update takes (text or NULL, completed or NULL, id) and returns the
	// merged row. NULL parameters leave the column unchanged.
	Update string
	// Delete takes (id).
	Delete string
}

// Execer is the subset of *sql.DB used to apply DDL.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repository forwards repository operations to a single todos table.
type Repository struct {
	db *sql.DB
	q  Queries
}

// New wraps db with the supplied dialect statements.
func New(db *sql.DB, q Queries) *Repository {
	return &Repository{db: db, q: q}
}

// DB exposes the underlying pool.
func (r *Repository) DB() *sql.DB { return r.db }

// Close releases the pool.
func (r *Repository) Close() error { return r.db.Close() }

// ApplyDDL executes each statement of a semicolon separated script.
func ApplyDDL(ctx context.Context, db Execer, ddl string) error {
	for _, stmt := range sqlbundle.SplitStatements(ddl) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (domain.Todo, error) {
	var t domain.Todo
	if err := row.Scan(&t.ID, &t.Text, &t.Completed); err != nil {
		return domain.Todo{}, err
	}
	return t, nil
}

// Create inserts a row and returns it with its database generated id.
func (r *Repository) Create(ctx context.Context, payload domain.CreateTodo) (domain.Todo, error) {
	todo, err := scanTodo(r.db.QueryRowContext(ctx, r.q.Insert, payload.Text))
	if err != nil {
		return domain.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return todo, nil
}

// Find selects a single row.
func (r *Repository) Find(ctx context.Context, id int64) (domain.Todo, error) {
	todo, err := scanTodo(r.db.QueryRowContext(ctx, r.q.Select, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.NotFoundError{ID: id}
	}
	if err != nil {
		return domain.Todo{}, fmt.Errorf("select todo %d: %w", id, err)
	}
	return todo, nil
}

// All selects every row ordered by id.
func (r *Repository) All(ctx context.Context) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, r.q.SelectAll)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		out = append(out, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return out, nil
}

// Update merges the payload in a single statement so concurrent writers
// cannot interleave between a read and a write.
func (r *Repository) Update(ctx context.Context, id int64, payload domain.UpdateTodo) (domain.Todo, error) {
	todo, err := scanTodo(r.db.QueryRowContext(ctx, r.q.Update, nullText(payload.Text), nullCompleted(payload.Completed), id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.NotFoundError{ID: id}
	}
	if err != nil {
		return domain.Todo{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	return todo, nil
}

// Delete removes a row. A statement that affects nothing reports NotFound.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q.Delete, id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return domain.NotFoundError{ID: id}
	}
	return nil
}

func nullText(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullCompleted(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
