// Package contracttest holds the behavioural suite every domain.TodoRepository
// implementation must pass.
package contracttest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"todoapi/pkg/domain"
)

// Opener returns a fresh, empty repository for a single subtest.
type Opener func(t *testing.T) domain.TodoRepository

// Run executes the repository contract against repositories produced by open.
func Run(t *testing.T, open Opener) {
	t.Helper()
	cases := []struct {
		name string
		fn   func(t *testing.T, repo domain.TodoRepository)
	}{
		{"CRUDScenario", testCRUDScenario},
		{"CreateAssignsIncreasingIDs", testCreateAssignsIncreasingIDs},
		{"FindReturnsCreated", testFindReturnsCreated},
		{"AllReturnsEveryTodo", testAllReturnsEveryTodo},
		{"UpdateTextKeepsCompleted", testUpdateTextKeepsCompleted},
		{"EmptyUpdateIsNoop", testEmptyUpdateIsNoop},
		{"DeleteThenFindNotFound", testDeleteThenFindNotFound},
		{"MissingIDsAreNotFound", testMissingIDsAreNotFound},
		{"IDsNotReusedAfterDelete", testIDsNotReusedAfterDelete},
		{"ConcurrentCreatesYieldUniqueIDs", testConcurrentCreates},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func mustCreate(t *testing.T, repo domain.TodoRepository, text string) domain.Todo {
	t.Helper()
	todo, err := repo.Create(context.Background(), domain.CreateTodo{Text: text})
	if err != nil {
		t.Fatalf("create %q: %v", text, err)
	}
	return todo
}

func requireNotFound(t *testing.T, err error, id int64) {
	t.Helper()
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for %d, got %v", id, err)
	}
	var nf domain.NotFoundError
	if !errors.As(err, &nf) || nf.ID != id {
		t.Fatalf("expected NotFoundError{%d}, got %v", id, err)
	}
}

func testCRUDScenario(t *testing.T, repo domain.TodoRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, "buy milk")
	if created.Text != "buy milk" || created.Completed || created.ID <= 0 {
		t.Fatalf("unexpected created todo %+v", created)
	}
	updated, err := repo.Update(ctx, created.ID, domain.UpdateTodo{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := domain.Todo{ID: created.ID, Text: "buy milk", Completed: true}
	if updated != want {
		t.Fatalf("update returned %+v, want %+v", updated, want)
	}
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = repo.Find(ctx, created.ID)
	requireNotFound(t, err, created.ID)
}

func testCreateAssignsIncreasingIDs(t *testing.T, repo domain.TodoRepository) {
	var prev int64
	seen := make(map[int64]struct{})
	for i := 0; i < 5; i++ {
		todo := mustCreate(t, repo, fmt.Sprintf("todo %d", i))
		if todo.ID <= prev {
			t.Fatalf("id %d not greater than previous %d", todo.ID, prev)
		}
		if _, dup := seen[todo.ID]; dup {
			t.Fatalf("duplicate id %d", todo.ID)
		}
		seen[todo.ID] = struct{}{}
		prev = todo.ID
	}
}

func testFindReturnsCreated(t *testing.T, repo domain.TodoRepository) {
	created := mustCreate(t, repo, "todo test")
	found, err := repo.Find(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != created {
		t.Fatalf("find returned %+v, want %+v", found, created)
	}
}

func testAllReturnsEveryTodo(t *testing.T, repo domain.TodoRepository) {
	ctx := context.Background()
	empty, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all on empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
	a := mustCreate(t, repo, "a")
	b := mustCreate(t, repo, "b")
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 todos, got %+v", all)
	}
	if all[0] != a || all[1] != b {
		t.Fatalf("expected [%+v %+v] ordered by id, got %+v", a, b, all)
	}
	for _, todo := range all {
		if todo.Completed {
			t.Fatalf("expected new todos to be incomplete: %+v", todo)
		}
	}
	all[0].Text = "mutated"
	again, err := repo.Find(ctx, a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if again.Text != "a" {
		t.Fatalf("store observed caller mutation: %+v", again)
	}
}

func testUpdateTextKeepsCompleted(t *testing.T, repo domain.TodoRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, "first")
	if _, err := repo.Update(ctx, created.ID, domain.UpdateTodo{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	updated, err := repo.Update(ctx, created.ID, domain.UpdateTodo{Text: strPtr("second")})
	if err != nil {
		t.Fatalf("update text: %v", err)
	}
	if updated.Text != "second" || !updated.Completed {
		t.Fatalf("expected text replaced and completed kept, got %+v", updated)
	}
	found, err := repo.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != updated {
		t.Fatalf("stored %+v differs from returned %+v", found, updated)
	}
}

func testEmptyUpdateIsNoop(t *testing.T, repo domain.TodoRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, "unchanged")
	updated, err := repo.Update(ctx, created.ID, domain.UpdateTodo{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated != created {
		t.Fatalf("empty update changed todo: %+v -> %+v", created, updated)
	}
}

func testDeleteThenFindNotFound(t *testing.T, repo domain.TodoRepository) {
	ctx := context.Background()
	created := mustCreate(t, repo, "gone")
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := repo.Find(ctx, created.ID)
	requireNotFound(t, err, created.ID)
	requireNotFound(t, repo.Delete(ctx, created.ID), created.ID)
}

func testMissingIDsAreNotFound(t *testing.T, repo domain.TodoRepository) {
	ctx := context.Background()
	const missing int64 = 404
	_, err := repo.Find(ctx, missing)
	requireNotFound(t, err, missing)
	_, err = repo.Update(ctx, missing, domain.UpdateTodo{Text: strPtr("x")})
	requireNotFound(t, err, missing)
	requireNotFound(t, repo.Delete(ctx, missing), missing)
}

// Deleting an entry and creating another must not hand out an id that is
// still held by a surviving entry.
func testIDsNotReusedAfterDelete(t *testing.T, repo domain.TodoRepository) {
	ctx := context.Background()
	first := mustCreate(t, repo, "one")
	second := mustCreate(t, repo, "two")
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third := mustCreate(t, repo, "three")
	if third.ID == second.ID || third.ID == first.ID {
		t.Fatalf("id %d reused (first=%d second=%d)", third.ID, first.ID, second.ID)
	}
	if third.ID <= second.ID {
		t.Fatalf("expected id above high-water mark %d, got %d", second.ID, third.ID)
	}
	survivor, err := repo.Find(ctx, second.ID)
	if err != nil {
		t.Fatalf("find survivor: %v", err)
	}
	if survivor != second {
		t.Fatalf("survivor overwritten: %+v", survivor)
	}
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 todos after delete+create, got %+v", all)
	}
}

func testConcurrentCreates(t *testing.T, repo domain.TodoRepository) {
	const workers = 8
	const perWorker = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{})
	)
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				todo, err := repo.Create(context.Background(), domain.CreateTodo{Text: fmt.Sprintf("w%d-%d", w, i)})
				if err != nil {
					errs <- err
					return
				}
				if _, err := repo.All(context.Background()); err != nil {
					errs <- err
					return
				}
				mu.Lock()
				ids[todo.ID] = struct{}{}
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}
	if len(ids) != workers*perWorker {
		t.Fatalf("expected %d unique ids, got %d", workers*perWorker, len(ids))
	}
}
