package migrate

import (
	"github.com/syssam/icetype/schema/field"
	"github.com/syssam/icetype/schema/index"
)

// Severity is the safety class of a change.
type Severity int

const (
	// Safe changes can be applied to existing data as is.
	Safe Severity = iota
	// Breaking changes may fail on, or lose, existing data.
	Breaking
)

// String returns the severity name.
func (s Severity) String() string {
	if s == Safe {
		return "safe"
	}
	return "breaking"
}

// Classify returns the severity of one change to a field. from is nil for
// added fields and to is nil for removed ones. Unknown change kinds are
// breaking.
func Classify(kind ChangeKind, from, to *field.Descriptor) Severity {
	switch kind {
	case ChangeAddField:
		if to != nil && to.IsRequired() && to.Default == nil {
			return Breaking
		}
		return Safe
	case ChangeRemoveField:
		return Breaking
	case ChangeType, ChangePrecision, ChangeScale, ChangeLength:
		if from != nil && to != nil && Widens(from.Kind, to.Kind) {
			return Safe
		}
		return Breaking
	case ChangeModifier:
		if from == nil || to == nil {
			return Breaking
		}
		if to.IsRequired() && !from.IsRequired() && to.Default == nil {
			return Breaking
		}
		if to.IsUnique && !from.IsUnique {
			return Breaking
		}
		return Safe
	case ChangeDefault:
		return Safe
	case ChangeArray, ChangeRelation:
		return Breaking
	case ChangeAddIndex, ChangeRemoveIndex:
		return Safe
	default:
		return Breaking
	}
}

// ClassifyIndex returns the severity of adding or removing an index. A new
// unique index may be violated by existing rows.
func ClassifyIndex(kind ChangeKind, idx index.Descriptor) Severity {
	switch kind {
	case ChangeAddIndex:
		if idx.Unique {
			return Breaking
		}
		return Safe
	case ChangeRemoveIndex:
		return Safe
	default:
		return Breaking
	}
}

// Widens reports whether every value of type from is representable in type
// to. Identical types widen trivially.
func Widens(from, to field.TypeKind) bool {
	if field.EqualKinds(from, to) {
		return true
	}
	switch f := from.(type) {
	case field.Primitive:
		t, ok := to.(field.Primitive)
		return ok && primitiveWidens(f.Type, t.Type)
	case field.Parametric:
		return parametricWidens(f, to)
	}
	return false
}

var primitiveWidening = map[field.Type][]field.Type{
	field.TypeInt:       {field.TypeBigInt},
	field.TypeFloat:     {field.TypeDouble},
	field.TypeString:    {field.TypeText},
	field.TypeText:      {field.TypeString},
	field.TypeTimestamp: {field.TypeTimestampTZ},
}

func primitiveWidens(from, to field.Type) bool {
	for _, t := range primitiveWidening[from] {
		if t == to {
			return true
		}
	}
	return false
}

func parametricWidens(from field.Parametric, to field.TypeKind) bool {
	switch t := to.(type) {
	case field.Primitive:
		switch from.Kind {
		case field.Varchar, field.Char:
			return t.Type.Textual()
		case field.Fixed:
			return t.Type == field.TypeBinary
		}
	case field.Parametric:
		if !from.Set {
			return false
		}
		switch {
		case from.Kind == field.Decimal && t.Kind == field.Decimal:
			return t.Set && t.Precision >= from.Precision && t.Scale == from.Scale
		case (from.Kind == field.Varchar || from.Kind == field.Char) && t.Kind == field.Varchar:
			return !t.Set || t.Length >= from.Length
		}
	}
	return false
}
