package dialect

import "slices"

// Dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
	DuckDB   = "duckdb"
)

// Dialects lists every supported dialect.
var Dialects = []string{Postgres, MySQL, SQLite, DuckDB}

// Valid reports whether name is a supported dialect.
func Valid(name string) bool {
	return slices.Contains(Dialects, name)
}
