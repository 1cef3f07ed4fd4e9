package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImportPredicates(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"internal", InternalImportForbidden, "todoapi/internal/core", true},
		{"internal pkg", InternalImportForbidden, "todoapi/pkg/domain", false},
		{"persistence memory", PersistenceImportForbidden, "todoapi/internal/infra/persistence/memory", true},
		{"persistence blob", PersistenceImportForbidden, "todoapi/internal/infra/blob/s3", false},
		{"driver sql", DriverImportForbidden, "database/sql", true},
		{"driver pgx", DriverImportForbidden, "github.com/jackc/pgx/v5/stdlib", true},
		{"driver sqlite", DriverImportForbidden, "modernc.org/sqlite", true},
		{"driver context", DriverImportForbidden, "context", false},
	}
	for _, c := range cases {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("%s: predicate(%q)=%v want %v", c.name, c.in, got, c.want)
		}
	}
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport \"fmt\"\nfunc X(){fmt.Println(1)}")
	if err := os.WriteFile(filepath.Join(dir, "x.go"), src, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	AssertNoDirectImports(t, dir, DriverImportForbidden, "none")
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, _ ...any) { r.msg = format }

func TestDirectImportViolationsReportsOffenders(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport _ \"database/sql\"\n")
	if err := os.WriteFile(filepath.Join(dir, "db.go"), src, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	test := []byte("package tmp\nimport _ \"modernc.org/sqlite\"\n")
	if err := os.WriteFile(filepath.Join(dir, "db_test.go"), test, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	viols, err := directImportViolations(dir, DriverImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.HasPrefix(viols[0], "database/sql") {
		t.Fatalf("expected only the non-test offender, got %v", viols)
	}
	rec := &recordingFatal{}
	failIfViolations(rec, "reason", viols)
	if rec.msg == "" {
		t.Fatalf("expected fatal to be reported")
	}
}
