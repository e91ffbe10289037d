package field

import (
	"strings"

	"github.com/syssam/icetype/schema/edge"
)

// Modifier is the trailing field modifier character.
type Modifier byte

// List of modifiers. ModNone leaves nullability to the adapter.
const (
	ModNone     Modifier = 0
	ModRequired Modifier = '!'
	ModUnique   Modifier = '#'
	ModOptional Modifier = '?'
)

// String returns the modifier character, or "" for ModNone.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	return string(rune(m))
}

// LookupModifier resolves a modifier character.
func LookupModifier(s string) (Modifier, bool) {
	switch s {
	case "!":
		return ModRequired, true
	case "#":
		return ModUnique, true
	case "?":
		return ModOptional, true
	}
	return ModNone, false
}

// TypeRelation is the tag reported by Type for relation fields.
const TypeRelation = "relation"

// Descriptor is a parsed field definition.
type Descriptor struct {
	Name       string
	Kind       TypeKind
	Modifier   Modifier
	IsArray    bool
	IsOptional bool
	IsUnique   bool
	IsIndexed  bool
	Default    *Default
	Relation   *edge.Descriptor
}

// Type returns the type tag of the field.
func (d *Descriptor) Type() string {
	if d.Relation != nil {
		return TypeRelation
	}
	if d.Kind == nil {
		return ""
	}
	return d.Kind.Tag()
}

// IsRequired reports whether the field carries the required modifier.
func (d *Descriptor) IsRequired() bool { return d.Modifier == ModRequired }

// IsRelation reports whether the field is a relation.
func (d *Descriptor) IsRelation() bool { return d.Relation != nil }

// Precision returns the decimal precision, if set.
func (d *Descriptor) Precision() (int, bool) {
	if p, ok := d.Kind.(Parametric); ok && p.Set && p.Kind == Decimal {
		return p.Precision, true
	}
	return 0, false
}

// Scale returns the decimal scale, if set.
func (d *Descriptor) Scale() (int, bool) {
	if p, ok := d.Kind.(Parametric); ok && p.Set && p.Kind == Decimal {
		return p.Scale, true
	}
	return 0, false
}

// Length returns the varchar, char or fixed length, if set.
func (d *Descriptor) Length() (int, bool) {
	if p, ok := d.Kind.(Parametric); ok && p.Set && p.Kind != Decimal {
		return p.Length, true
	}
	return 0, false
}

// Modifiers renders the modifier suffix. A unique optional field renders
// as "#?" so it survives a round-trip to validation.
func (d *Descriptor) Modifiers() string {
	if d.IsUnique && d.IsOptional {
		return "#?"
	}
	return d.Modifier.String()
}

// String renders the field definition in canonical form.
func (d *Descriptor) String() string {
	var b strings.Builder
	if d.Relation != nil {
		b.WriteString(d.Relation.String())
		if d.IsArray {
			b.WriteString("[]")
		}
		return b.String()
	}
	if d.Kind != nil {
		b.WriteString(d.Kind.String())
	}
	if d.IsArray {
		b.WriteString("[]")
	}
	b.WriteString(d.Modifiers())
	if d.Default != nil {
		b.WriteString(" = ")
		b.WriteString(d.Default.String())
	}
	return b.String()
}

// Equal reports whether two descriptors define the same field.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Name == o.Name &&
		EqualKinds(d.Kind, o.Kind) &&
		d.Modifier == o.Modifier &&
		d.IsArray == o.IsArray &&
		d.IsOptional == o.IsOptional &&
		d.IsUnique == o.IsUnique &&
		d.IsIndexed == o.IsIndexed &&
		d.Default.Equal(o.Default) &&
		d.Relation.Equal(o.Relation)
}

// Clone returns a deep copy of d. Type kinds are values and shared.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Default = d.Default.Clone()
	cp.Relation = d.Relation.Clone()
	return &cp
}

// Builder builds field descriptors in code.
type Builder struct {
	desc *Descriptor
}

// New starts a field of the given kind.
func New(name string, kind TypeKind) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Kind: kind}}
}

// String starts a string field.
func String(name string) *Builder { return New(name, Of(TypeString)) }

// Text starts a text field.
func Text(name string) *Builder { return New(name, Of(TypeText)) }

// Int starts an int field.
func Int(name string) *Builder { return New(name, Of(TypeInt)) }

// BigInt starts a bigint field.
func BigInt(name string) *Builder { return New(name, Of(TypeBigInt)) }

// Bool starts a boolean field.
func Bool(name string) *Builder { return New(name, Of(TypeBoolean)) }

// UUID starts a uuid field.
func UUID(name string) *Builder { return New(name, Of(TypeUUID)) }

// Relation starts a relation field.
func Relation(name string, rel *edge.Descriptor) *Builder {
	b := New(name, Reference{Name: rel.Target})
	b.desc.Relation = rel
	return b
}

// Required marks the field with "!".
func (b *Builder) Required() *Builder { return b.modifier(ModRequired) }

// Unique marks the field with "#".
func (b *Builder) Unique() *Builder { return b.modifier(ModUnique) }

// Optional marks the field with "?".
func (b *Builder) Optional() *Builder { return b.modifier(ModOptional) }

// Array marks the field as an array.
func (b *Builder) Array() *Builder {
	b.desc.IsArray = true
	return b
}

// Default sets the default value.
func (b *Builder) Default(d *Default) *Builder {
	b.desc.Default = d
	return b
}

// Descriptor returns the built descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc.Clone()
}

func (b *Builder) modifier(m Modifier) *Builder {
	ApplyModifier(b.desc, m)
	return b
}

// ApplyModifier records m on d and updates the derived flags. Combining
// ModUnique and ModOptional keeps both flags, with Modifier set to
// ModUnique, so validation can report the conflict.
func ApplyModifier(d *Descriptor, m Modifier) {
	switch m {
	case ModRequired:
		d.Modifier = m
		d.IsOptional, d.IsUnique, d.IsIndexed = false, false, false
	case ModUnique:
		d.Modifier = m
		d.IsUnique, d.IsIndexed = true, true
	case ModOptional:
		if d.Modifier != ModUnique {
			d.Modifier = m
		}
		d.IsOptional = true
	}
}
