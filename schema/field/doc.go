// Package field describes IceType field definitions.
//
// A field definition is written as a compact string:
//
//	id: 'uuid!'                      // required
//	email: 'string#'                 // unique and indexed
//	bio: 'text?'                     // optional
//	price: 'decimal(10,2)! = 0.00'   // parametric with default
//	tags: 'string[]'                 // array
//	attrs: 'map<string,list<int>>'   // generic, nests arbitrarily
//
// The parsed form is a Descriptor whose Kind is one of four closed
// variants:
//
//	field.Primitive{Type: field.TypeString}
//	field.Parametric{Kind: field.Decimal, Set: true, Precision: 10, Scale: 2}
//	field.Generic{Kind: field.Map, Args: []field.TypeKind{...}}
//	field.Reference{Name: "Address"}
//
// Descriptor.String renders the canonical form, which parses back to an
// equal Descriptor.
//
// # Modifiers
//
// At most one modifier is allowed per field. The pair "#?" is accepted by
// the parser and rejected by validation as conflicting.
//
// # Building in code
//
//	field.String("email").Unique().Descriptor()
//	field.New("price", field.DecimalOf(10, 2)).Required().Default(field.NumberDefault("0.00")).Descriptor()
package field
