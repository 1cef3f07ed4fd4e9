package memory_test

import (
	"context"
	"testing"

	"todoapi/internal/infra/persistence/contracttest"
	"todoapi/internal/infra/persistence/memory"
	"todoapi/pkg/domain"
)

func TestMemoryStoreContract(t *testing.T) {
	contracttest.Run(t, func(_ *testing.T) domain.TodoRepository {
		return memory.NewStore()
	})
}

func TestMemoryStoreFirstTodoScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	todo, err := store.Create(ctx, domain.CreateTodo{Text: "buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if want := (domain.Todo{ID: 1, Text: "buy milk"}); todo != want {
		t.Fatalf("create returned %+v, want %+v", todo, want)
	}
	completed := true
	todo, err = store.Update(ctx, 1, domain.UpdateTodo{Completed: &completed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if want := (domain.Todo{ID: 1, Text: "buy milk", Completed: true}); todo != want {
		t.Fatalf("update returned %+v, want %+v", todo, want)
	}
	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", store.Len())
	}
}

func TestMemoryStoreHighWaterMark(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, text := range []string{"one", "two"} {
		if _, err := store.Create(ctx, domain.CreateTodo{Text: text}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third, err := store.Create(ctx, domain.CreateTodo{Text: "three"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// a count-based id would be 2 here and overwrite "two".
	if third.ID != 3 {
		t.Fatalf("expected id 3, got %d", third.ID)
	}
	two, err := store.Find(ctx, 2)
	if err != nil || two.Text != "two" {
		t.Fatalf("expected todo 2 intact, got %+v err=%v", two, err)
	}
}
