package integration

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"todoapi/internal/blob"
	"todoapi/internal/config"
	"todoapi/internal/core"
	"todoapi/internal/export"
	"todoapi/internal/httpapi"
	"todoapi/pkg/domain"
)

// TestIntegrationSmoke runs one write/read/export cycle for every in-process
// repository and blob backend combination.
func TestIntegrationSmoke(t *testing.T) {
	ctx := context.Background()

	repoVariants := []struct {
		name    string
		storage func(t *testing.T) config.Storage
	}{
		{name: "memory", storage: func(*testing.T) config.Storage { return config.Storage{Driver: config.StorageMemory} }},
		{name: "sqlite", storage: func(t *testing.T) config.Storage {
			return config.Storage{Driver: config.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "todos.db")}
		}},
	}
	blobVariants := []struct {
		name string
		open func(t *testing.T) blob.Store
	}{
		{name: "memory", open: func(*testing.T) blob.Store { return blob.NewMemory() }},
		{name: "fs", open: func(t *testing.T) blob.Store {
			s, err := blob.NewFilesystem(t.TempDir())
			if err != nil {
				t.Fatalf("new filesystem blob: %v", err)
			}
			return s
		}},
		{name: "mock-s3", open: func(*testing.T) blob.Store { return blob.NewMockS3ForTests() }},
	}

	for _, rv := range repoVariants {
		for _, bv := range blobVariants {
			t.Run(rv.name+"/"+bv.name, func(t *testing.T) {
				repo, closeRepo, err := core.OpenRepository(ctx, rv.storage(t))
				if err != nil {
					t.Fatalf("open repository: %v", err)
				}
				defer func() { _ = closeRepo() }()

				metrics := core.NewExpvarMetricsRecorder("")
				var traces bytes.Buffer
				tracer := core.NewRecordingJSONTracer(&traces)
				svc := core.NewService(repo, core.WithMetricsRecorder(metrics), core.WithTracer(tracer))
				exporter := export.NewExporter(svc, bv.open(t))
				handler, err := httpapi.NewHandler(svc, httpapi.WithExporter(exporter))
				if err != nil {
					t.Fatalf("new handler: %v", err)
				}
				srv := httptest.NewServer(handler)
				defer srv.Close()

				resp, err := http.Post(srv.URL+"/todos", "application/json", strings.NewReader(`{"text":"buy milk"}`))
				if err != nil {
					t.Fatalf("create: %v", err)
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusCreated {
					t.Fatalf("create status %d", resp.StatusCode)
				}

				req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/todos/1", strings.NewReader(`{"completed":true}`))
				resp, err = http.DefaultClient.Do(req)
				if err != nil {
					t.Fatalf("patch: %v", err)
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					t.Fatalf("patch status %d", resp.StatusCode)
				}

				resp, err = http.Post(srv.URL+"/todos/exports", "application/json", nil)
				if err != nil {
					t.Fatalf("export: %v", err)
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusCreated {
					t.Fatalf("export status %d", resp.StatusCode)
				}

				infos, err := exporter.List(ctx)
				if err != nil || len(infos) != 1 {
					t.Fatalf("list exports: %+v err=%v", infos, err)
				}
				doc, err := exporter.Load(ctx, infos[0].Key)
				if err != nil {
					t.Fatalf("load export: %v", err)
				}
				want := domain.Todo{ID: 1, Text: "buy milk", Completed: true}
				if doc.Count != 1 || doc.Todos[0] != want {
					t.Fatalf("unexpected export %+v", doc)
				}

				snap := metrics.Snapshot()
				if snap.Results[core.OpCreateTodo]["success"] != 1 || snap.Results[core.OpUpdateTodo]["success"] != 1 {
					t.Fatalf("unexpected metrics %+v", snap.Results)
				}
				if snap.Results[core.OpListTodos]["success"] != 1 {
					t.Fatalf("export read was not observed: %+v", snap.Results)
				}
				entries := tracer.Entries()
				if traces.Len() == 0 || len(entries) != 3 || entries[2].Operation != core.OpListTodos {
					t.Fatalf("expected create, update and list spans, got %+v", entries)
				}
			})
		}
	}
}
