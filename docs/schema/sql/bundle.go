// Package sqldocs exposes the todo table DDL directly from the docs tree.
package sqldocs

import _ "embed"

// SQLite contains the SQLite DDL for the todos table.
//
//go:embed sqlite.sql
var SQLite string

// Postgres contains the Postgres DDL for the todos table.
//
//go:embed postgres.sql
var Postgres string
