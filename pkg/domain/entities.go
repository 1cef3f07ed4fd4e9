// Package domain defines the todo records, inputs, and repository contract
// shared by every storage backend and the HTTP layer.
package domain

// Todo is a stored todo item.
type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NewTodo returns an incomplete todo with the given identifier and text.
func NewTodo(id int64, text string) Todo {
	return Todo{ID: id, Text: text}
}

// CreateTodo is the payload accepted when creating a todo. Completed is
// always initialised to false by the store.
type CreateTodo struct {
	Text string `json:"text" validate:"required,max=100"`
}

// UpdateTodo is a partial update. A nil field leaves the stored value unchanged.
type UpdateTodo struct {
	Text      *string `json:"text,omitempty" validate:"omitnil,min=1,max=100"`
	Completed *bool   `json:"completed,omitempty"`
}

// Apply merges the update onto current and returns the result. The identifier
// is never changed.
func (u UpdateTodo) Apply(current Todo) Todo {
	next := current
	if u.Text != nil {
		next.Text = *u.Text
	}
	if u.Completed != nil {
		next.Completed = *u.Completed
	}
	return next
}

// IsEmpty reports whether the update carries no fields.
func (u UpdateTodo) IsEmpty() bool {
	return u.Text == nil && u.Completed == nil
}

// CreateUser is the payload accepted by the user creation stub.
type CreateUser struct {
	Username string `json:"username" validate:"required"`
}

// User is returned by the user creation stub.
type User struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// StubUserID is the fixed identifier assigned to every created user.
const StubUserID uint64 = 1337
