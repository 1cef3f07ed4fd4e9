// Package export snapshots the todo list into blob storage as JSON.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"todoapi/internal/blob"
	"todoapi/pkg/domain"
)

// Prefix is the key prefix shared by every export.
const Prefix = "exports/"

const contentType = "application/json"

// Lister yields the todos to export. *core.Service satisfies it, so export
// reads are observed like any other list.
type Lister interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
}

// Document is the JSON body of one export.
type Document struct {
	ExportedAt time.Time     `json:"exported_at"`
	Count      int           `json:"count"`
	Todos      []domain.Todo `json:"todos"`
}

// Exporter writes snapshots of a Lister to a blob.Store.
type Exporter struct {
	todos Lister
	store blob.Store
	now   func() time.Time
	newID func() string
}

// NewExporter returns an exporter reading from todos and writing to store.
func NewExporter(todos Lister, store blob.Store) *Exporter {
	return &Exporter{
		todos: todos,
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Export writes the current todo list under a fresh key and returns its info.
func (e *Exporter) Export(ctx context.Context) (blob.Info, error) {
	todos, err := e.todos.ListTodos(ctx)
	if err != nil {
		return blob.Info{}, fmt.Errorf("list todos: %w", err)
	}
	doc := Document{ExportedAt: e.now().UTC(), Count: len(todos), Todos: todos}
	body, err := json.Marshal(doc)
	if err != nil {
		return blob.Info{}, err
	}
	key := Prefix + "todos-" + doc.ExportedAt.Format("20060102T150405Z") + "-" + e.newID() + ".json"
	info, err := e.store.Put(ctx, key, bytes.NewReader(body), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"count": strconv.Itoa(doc.Count)},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store export %s: %w", key, err)
	}
	return info, nil
}

// List returns every stored export ordered by key, which is also creation
// order.
func (e *Exporter) List(ctx context.Context) ([]blob.Info, error) {
	return e.store.List(ctx, Prefix)
}

// Load reads and decodes a stored export.
func (e *Exporter) Load(ctx context.Context, key string) (Document, error) {
	_, rc, err := e.store.Get(ctx, key)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = rc.Close() }()
	var doc Document
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode export %s: %w", key, err)
	}
	return doc, nil
}
