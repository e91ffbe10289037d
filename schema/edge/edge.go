package edge

import "strings"

// Operator is a relation operator.
type Operator string

const (
	Forward       Operator = "->"
	FuzzyForward  Operator = "~>"
	Backward      Operator = "<-"
	FuzzyBackward Operator = "<~"
)

// Operators lists every relation operator.
var Operators = []Operator{Forward, FuzzyForward, Backward, FuzzyBackward}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	switch o {
	case Forward, FuzzyForward, Backward, FuzzyBackward:
		return true
	}
	return false
}

// IsBackward reports whether the relation is declared on the referenced side.
func (o Operator) IsBackward() bool { return o == Backward || o == FuzzyBackward }

// IsFuzzy reports whether the relation is resolved by similarity.
func (o Operator) IsFuzzy() bool { return o == FuzzyForward || o == FuzzyBackward }

// String returns the operator text.
func (o Operator) String() string { return string(o) }

// DeletePolicy controls what happens to referencing rows when the target is deleted.
type DeletePolicy string

const (
	Cascade  DeletePolicy = "cascade"
	SetNull  DeletePolicy = "set_null"
	Restrict DeletePolicy = "restrict"
)

// Valid reports whether p is a known policy. The empty policy is valid
// and means "adapter default".
func (p DeletePolicy) Valid() bool {
	switch p {
	case "", Cascade, SetNull, Restrict:
		return true
	}
	return false
}

// Descriptor is the parsed form of a relation.
type Descriptor struct {
	Operator Operator
	Target   string       // Name of the target entity, resolved lazily.
	Inverse  string       // Back-reference field on the target, if any.
	OnDelete DeletePolicy // Optional.
}

// IsBackward reports whether the relation is a back-reference.
func (d *Descriptor) IsBackward() bool { return d.Operator.IsBackward() }

// IsFuzzy reports whether the relation is fuzzy.
func (d *Descriptor) IsFuzzy() bool { return d.Operator.IsFuzzy() }

// String renders the relation in canonical field-string form, without the
// array suffix which belongs to the owning field.
func (d *Descriptor) String() string {
	var b strings.Builder
	b.WriteString(string(d.Operator))
	b.WriteByte(' ')
	b.WriteString(d.Target)
	if d.Inverse != "" {
		b.WriteByte('.')
		b.WriteString(d.Inverse)
	}
	return b.String()
}

// Equal reports whether two descriptors describe the same relation.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if d == nil || o == nil {
		return d == o
	}
	return *d == *o
}

// Clone returns a copy of d.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

// Builder builds a relation descriptor.
type Builder struct {
	desc *Descriptor
}

// To starts a forward relation to target.
func To(target string) *Builder {
	return &Builder{desc: &Descriptor{Operator: Forward, Target: target}}
}

// ToFuzzy starts a fuzzy forward relation to target.
func ToFuzzy(target string) *Builder {
	return &Builder{desc: &Descriptor{Operator: FuzzyForward, Target: target}}
}

// From starts a backward relation from target.
func From(target string) *Builder {
	return &Builder{desc: &Descriptor{Operator: Backward, Target: target}}
}

// FromFuzzy starts a fuzzy backward relation from target.
func FromFuzzy(target string) *Builder {
	return &Builder{desc: &Descriptor{Operator: FuzzyBackward, Target: target}}
}

// Inverse sets the back-reference field name on the target.
func (b *Builder) Inverse(name string) *Builder {
	b.desc.Inverse = name
	return b
}

// OnDelete sets the delete policy.
func (b *Builder) OnDelete(p DeletePolicy) *Builder {
	b.desc.OnDelete = p
	return b
}

// Descriptor returns the built descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc.Clone()
}
