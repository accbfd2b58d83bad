// Package schema maps inferred column types onto SQL types and renders the
// statements a load run executes.
package schema

import "github.com/vvka-141/tabload/pkg/tabload"

// MapType returns the canonical SQL type token for t. Unknown types map to TEXT.
func MapType(t tabload.ColumnType) string {
	switch t {
	case tabload.ColumnTypeInteger:
		return "INTEGER"
	case tabload.ColumnTypeFloat:
		return "FLOAT"
	case tabload.ColumnTypeBoolean:
		return "BOOLEAN"
	case tabload.ColumnTypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

var canonical = Dialect{Driver: tabload.DriverPostgres}

// CreateTableStatement renders the canonical
// CREATE TABLE IF NOT EXISTS statement with identifiers emitted verbatim.
func CreateTableStatement(table *tabload.Table, name string) string {
	return canonical.CreateTableStatement(table, name)
}

// InsertStatement renders the canonical single-row insert with $n placeholders.
func InsertStatement(table *tabload.Table, name string) string {
	return canonical.InsertStatement(table, name)
}
