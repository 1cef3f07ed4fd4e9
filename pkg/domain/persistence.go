package domain

import "context"

// TodoRepository is implemented by every todo storage backend. Implementations
// must agree on observable behaviour: Find, Update and Delete return a
// NotFoundError for unknown identifiers, Update merges with UpdateTodo.Apply,
// and returned values are copies the caller may freely modify.
type TodoRepository interface {
	Create(ctx context.Context, payload CreateTodo) (Todo, error)
	Find(ctx context.Context, id int64) (Todo, error)
	All(ctx context.Context) ([]Todo, error)
	Update(ctx context.Context, id int64, payload UpdateTodo) (Todo, error)
	Delete(ctx context.Context, id int64) error
}
