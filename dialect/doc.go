// Package dialect names the SQL dialects that migration plans and the
// sqlddl adapter can target.
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.DuckDB   = "duckdb"
//
// The core never renders SQL itself. A dialect travels with a migration
// plan so the adapter that renders it knows the target.
package dialect
