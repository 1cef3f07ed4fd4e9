package sqlbundle

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	for name, ddl := range map[string]string{"sqlite": SQLite(), "postgres": Postgres()} {
		stmts := SplitStatements(ddl)
		if len(stmts) == 0 {
			t.Fatalf("%s: expected DDL to produce statements", name)
		}
		for _, stmt := range stmts {
			if strings.HasPrefix(strings.TrimSpace(stmt), "--") {
				t.Fatalf("%s: statement unexpectedly starts with comment: %q", name, stmt)
			}
			if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
				t.Fatalf("%s: statement missing semicolon terminator: %q", name, stmt)
			}
		}
	}
}

func TestBundlesDeclareTodosTable(t *testing.T) {
	for name, ddl := range map[string]string{"sqlite": SQLite(), "postgres": Postgres()} {
		if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS todos") {
			t.Fatalf("%s: expected todos table DDL", name)
		}
	}
}

func TestSplitStatementsKeepsUnterminatedTail(t *testing.T) {
	ddl := "-- header\nCREATE TABLE a (id INT);\n\nCREATE TABLE b (id INT)"
	stmts := SplitStatements(ddl)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[1] != "CREATE TABLE b (id INT)" {
		t.Fatalf("unexpected tail statement %q", stmts[1])
	}
}
