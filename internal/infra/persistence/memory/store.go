// Package memory provides an in-memory implementation of the todo repository
// used for tests, demos and ephemeral environments.
package memory

import (
	"context"
	"sort"
	"sync"

	"todoapi/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain repository.
var _ domain.TodoRepository = (*Store)(nil)

// Store keeps todos in a map guarded by a single reader/writer lock. Readers
// run concurrently; every mutation holds the exclusive lock.
type Store struct {
	mu     sync.RWMutex
	todos  map[int64]domain.Todo
	lastID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{todos: make(map[int64]domain.Todo)}
}

// Create stores a new incomplete todo. Identifiers come from a high-water
// counter, so an id released by Delete is never handed out again.
func (s *Store) Create(_ context.Context, payload domain.CreateTodo) (domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	todo := domain.NewTodo(s.lastID, payload.Text)
	s.todos[todo.ID] = todo
	return todo, nil
}

// Find returns the todo stored under id.
func (s *Store) Find(_ context.Context, id int64) (domain.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todo, ok := s.todos[id]
	if !ok {
		return domain.Todo{}, domain.NotFoundError{ID: id}
	}
	return todo, nil
}

// All returns every stored todo ordered by id.
func (s *Store) All(_ context.Context) ([]domain.Todo, error) {
	s.mu.RLock()
	out := make([]domain.Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		out = append(out, todo)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update merges payload onto the stored todo.
func (s *Store) Update(_ context.Context, id int64, payload domain.UpdateTodo) (domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.todos[id]
	if !ok {
		return domain.Todo{}, domain.NotFoundError{ID: id}
	}
	next := payload.Apply(current)
	s.todos[id] = next
	return next, nil
}

// Delete removes the todo stored under id.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return domain.NotFoundError{ID: id}
	}
	delete(s.todos, id)
	return nil
}

// Len returns the number of stored todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}
