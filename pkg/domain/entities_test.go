package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestUpdateTodoApplyMergesPresentFields(t *testing.T) {
	current := Todo{ID: 7, Text: "buy milk", Completed: true}

	cases := []struct {
		name   string
		update UpdateTodo
		want   Todo
	}{
		{name: "empty update is a no-op", update: UpdateTodo{}, want: current},
		{name: "text only keeps completed", update: UpdateTodo{Text: strPtr("buy bread")}, want: Todo{ID: 7, Text: "buy bread", Completed: true}},
		{name: "completed only keeps text", update: UpdateTodo{Completed: boolPtr(false)}, want: Todo{ID: 7, Text: "buy milk"}},
		{name: "both fields", update: UpdateTodo{Text: strPtr("x"), Completed: boolPtr(false)}, want: Todo{ID: 7, Text: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.update.Apply(current); got != tc.want {
				t.Fatalf("Apply() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNewTodoStartsIncomplete(t *testing.T) {
	todo := NewTodo(1, "hello")
	if todo.Completed {
		t.Fatalf("expected new todo to be incomplete")
	}
}

func TestUpdateTodoJSONDistinguishesAbsentFields(t *testing.T) {
	var u UpdateTodo
	if err := json.Unmarshal([]byte(`{"completed":false}`), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.Text != nil {
		t.Fatalf("expected text to be absent, got %q", *u.Text)
	}
	if u.Completed == nil || *u.Completed {
		t.Fatalf("expected completed=false to be present")
	}
	if u.IsEmpty() {
		t.Fatalf("expected non-empty update")
	}
}

func TestValidation(t *testing.T) {
	long := strings.Repeat("a", MaxTextLength+1)
	exact := strings.Repeat("あ", MaxTextLength)

	cases := []struct {
		name    string
		input   interface{ Validate() error }
		wantErr bool
		field   string
	}{
		{name: "create ok", input: CreateTodo{Text: "buy milk"}},
		{name: "create multibyte at limit", input: CreateTodo{Text: exact}},
		{name: "create empty", input: CreateTodo{}, wantErr: true, field: "text"},
		{name: "create too long", input: CreateTodo{Text: long}, wantErr: true, field: "text"},
		{name: "update absent text", input: UpdateTodo{Completed: boolPtr(true)}},
		{name: "update empty text", input: UpdateTodo{Text: strPtr("")}, wantErr: true, field: "text"},
		{name: "update too long", input: UpdateTodo{Text: &long}, wantErr: true, field: "text"},
		{name: "user ok", input: CreateUser{Username: "田中太郎"}},
		{name: "user empty", input: CreateUser{}, wantErr: true, field: "username"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected field %q, got %+v", tc.field, ve)
			}
		})
	}
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := error(NotFoundError{ID: 3})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound match")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("not found must not match validation")
	}
	if err.Error() != "todo 3 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
