// Package compiler assembles IceType schemas from raw definitions.
//
// Each field string is lexed and parsed, the directives are checked for
// shape, and the result is stamped with identity, version and timestamps:
//
//	defs, err := load.FromYAML(data)
//	if err != nil {
//		return err
//	}
//	schemas, err := compiler.ParseSchemas(defs)
//
// Assembly is fail-fast and returns the first parse error. Cross-schema
// checks are left to package validate, which needs the full registry.
package compiler
