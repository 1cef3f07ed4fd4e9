// Package testutil provides a stub database/sql driver that emulates the
// todos table closely enough to exercise the postgres store without a server.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var driverSeq atomic.Uint64

// Row is one stored todo row.
type Row struct {
	ID        int64
	Text      string
	Completed bool
}

// StubConn records statements and holds the emulated todos table.
type StubConn struct {
	mu sync.Mutex

	Execs   []string
	Queries []string
	Rows    map[int64]Row
	nextID  int64

	FailPing   bool
	FailExec   bool
	FailQuery  bool
	RowsErr    error
	NoAffected bool
}

// NewStubDB registers a fresh driver and returns a sql.DB backed by it.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Rows: make(map[int64]Row)}
	name := fmt.Sprintf("stubpg%d", driverSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return errors.New("ping fail")
	}
	return nil
}

// Insert seeds a row directly and returns its id.
func (c *StubConn) Insert(text string, completed bool) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.Rows[c.nextID] = Row{ID: c.nextID, Text: text, Completed: completed}
	return c.nextID
}

func normalize(query string) string {
	return strings.ToUpper(strings.Join(strings.Fields(query), " "))
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, errors.New("exec fail")
	}
	q := normalize(query)
	switch {
	case strings.HasPrefix(q, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(q, "DELETE FROM TODOS"):
		id, err := int64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		if _, ok := c.Rows[id]; !ok {
			return driver.RowsAffected(0), nil
		}
		delete(c.Rows, id)
		if c.NoAffected {
			return noAffected{}, nil
		}
		return driver.RowsAffected(1), nil
	}
	return nil, fmt.Errorf("stub: unsupported exec %q", query)
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Queries = append(c.Queries, query)
	if c.FailQuery {
		return nil, errors.New("query fail")
	}
	q := normalize(query)
	switch {
	case strings.HasPrefix(q, "INSERT INTO TODOS"):
		text, ok := args[0].Value.(string)
		if !ok {
			return nil, fmt.Errorf("stub: text arg %T", args[0].Value)
		}
		c.nextID++
		row := Row{ID: c.nextID, Text: text}
		c.Rows[row.ID] = row
		return c.result(row), nil
	case strings.HasPrefix(q, "SELECT") && strings.Contains(q, "WHERE ID"):
		id, err := int64Arg(args, 0)
		if err != nil {
			return nil, err
		}
		row, ok := c.Rows[id]
		if !ok {
			return c.result(), nil
		}
		return c.result(row), nil
	case strings.HasPrefix(q, "SELECT"):
		rows := make([]Row, 0, len(c.Rows))
		for _, r := range c.Rows {
			rows = append(rows, r)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		return c.result(rows...), nil
	case strings.HasPrefix(q, "UPDATE TODOS"):
		id, err := int64Arg(args, 2)
		if err != nil {
			return nil, err
		}
		row, ok := c.Rows[id]
		if !ok {
			return c.result(), nil
		}
		if text, ok := args[0].Value.(string); ok {
			row.Text = text
		}
		if completed, ok := args[1].Value.(bool); ok {
			row.Completed = completed
		}
		c.Rows[id] = row
		return c.result(row), nil
	}
	return nil, fmt.Errorf("stub: unsupported query %q", query)
}

func (c *StubConn) result(rows ...Row) *stubRows {
	values := make([][]driver.Value, 0, len(rows))
	for _, r := range rows {
		values = append(values, []driver.Value{r.ID, r.Text, r.Completed})
	}
	return &stubRows{rows: values, err: c.RowsErr}
}

func int64Arg(args []driver.NamedValue, idx int) (int64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("stub: missing arg %d", idx)
	}
	id, ok := args[idx].Value.(int64)
	if !ok {
		return 0, fmt.Errorf("stub: id arg %T", args[idx].Value)
	}
	return id, nil
}

type noAffected struct{}

func (noAffected) LastInsertId() (int64, error) { return 0, errors.New("unsupported") }
func (noAffected) RowsAffected() (int64, error) { return 0, errors.New("rows affected unavailable") }

type stubRows struct {
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return []string{"id", "text", "completed"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
