// Package schema holds the validated, immutable in-memory form of an
// IceType entity.
//
// A Schema is built once (normally by the compiler package from a raw
// definition) and never mutated afterwards. A new version of an entity is
// a new Schema value produced by Next:
//
//	v1, _ := schema.New("User", fields, schema.Directives{})
//	v2, _ := v1.Next(newFields, v1.Directives(), time.Now())
//	v2.Version() // 2
//
// The subpackages describe the parts of a schema:
//
//   - [field]: field definitions and the closed type model
//   - [edge]: relations between entities
//   - [index]: index and vector directives
//
// # System fields
//
// Adapters materialize five reserved columns for every entity: $id,
// $type, $version, $createdAt and $updatedAt. They never appear in
// Schema.Fields and user definitions may not declare them.
package schema
