// Package edge describes relations between IceType entities.
//
// A relation is declared in a field string with one of four operators:
//
//	author: '-> User'            // forward: this entity points at a User
//	related: '~> Article'        // fuzzy forward: resolved by similarity, not a key
//	posts: '<- Post.author[]'    // backward: Posts whose "author" points here
//	mentions: '<~ Note'          // fuzzy backward
//
// The target entity is resolved lazily; it does not need to exist when the
// owning schema is parsed. An array suffix on a backward relation denotes a
// one-to-many back-reference.
//
// Relations can also be built in code:
//
//	edge.From("Post").Inverse("author").Descriptor()
//	edge.To("User").OnDelete(edge.Cascade).Descriptor()
package edge
