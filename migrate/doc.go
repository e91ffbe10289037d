// Package migrate compares two versions of a schema and plans the column
// and constraint operations that move data from one to the other.
//
//	diff, err := migrate.DiffSchemas(v1, v2)
//	if err != nil {
//		return err
//	}
//	plan, err := migrate.GenerateMigrationPlan(diff, migrate.WithDialect(dialect.SQLite))
//	if plan.Breaking() {
//		// require manual review
//	}
//
// Planning is dialect-agnostic. Rendering operations to DDL is done by the
// sqlddl adapter.
package migrate
