// Package adapter defines the contract between assembled schemas and the
// code that turns them into another representation, and the table that
// maps adapter names to implementations.
//
// Adapters are registered explicitly:
//
//	reg, err := adapter.NewRegistry(sqlddl.New(), graphql.New(), gostruct.New())
//	if err != nil {
//		return err
//	}
//	out, err := reg.Generate(ctx, "sqlddl", schemas, schemaReg, adapter.WithDialect(dialect.SQLite))
//
// Generate validates every schema before an adapter sees it.
package adapter
