package validate

import (
	"strconv"
	"unicode/utf8"

	"github.com/syssam/icetype/schema/field"
)

func typeString(f *field.Descriptor) string {
	if f.Kind == nil {
		return f.Type()
	}
	s := f.Kind.String()
	if f.IsArray {
		s += "[]"
	}
	return s
}

func textual(k field.TypeKind) bool {
	switch k := k.(type) {
	case field.Primitive:
		return k.Type.Textual()
	case field.Parametric:
		return k.Kind == field.Varchar || k.Kind == field.Char
	}
	return false
}

func floatType(k field.TypeKind) bool {
	p, ok := k.(field.Primitive)
	return ok && (p.Type == field.TypeFloat || p.Type == field.TypeDouble)
}

// floatVector reports whether f can hold an embedding: float[] or
// list<float>, or the double variants.
func floatVector(f *field.Descriptor) bool {
	if f.IsArray {
		return floatType(f.Kind)
	}
	g, ok := f.Kind.(field.Generic)
	return ok && g.Kind == field.List && len(g.Args) == 1 && floatType(g.Args[0])
}

// defaultFits reports whether the default literal of f is compatible with
// its type. Function defaults are opaque and always fit.
func defaultFits(f *field.Descriptor) bool {
	d := f.Default
	switch d.Kind {
	case field.DefaultFunc:
		return true
	case field.DefaultNull:
		return !f.IsRequired()
	}
	if f.IsArray || f.Relation != nil {
		return false
	}
	switch k := f.Kind.(type) {
	case field.Primitive:
		return primitiveFits(k.Type, d)
	case field.Parametric:
		switch {
		case k.Kind == field.Decimal:
			if d.Kind != field.DefaultNumber {
				return false
			}
			if !k.Set {
				_, err := d.Decimal()
				return err == nil
			}
			return d.FitsDecimal(k.Precision, k.Scale)
		case d.Kind != field.DefaultString:
			return false
		case k.Set:
			return utf8.RuneCountInString(d.Raw) <= k.Length
		}
		return true
	case field.Generic:
		return k.Kind == field.Enum && d.Kind == field.DefaultString
	}
	return false
}

func primitiveFits(t field.Type, d *field.Default) bool {
	switch t {
	case field.TypeInt, field.TypeBigInt:
		if d.Kind != field.DefaultNumber {
			return false
		}
		_, err := strconv.ParseInt(d.Raw, 10, 64)
		return err == nil
	case field.TypeFloat, field.TypeDouble:
		return d.Kind == field.DefaultNumber
	case field.TypeBoolean:
		return d.Kind == field.DefaultBool
	case field.TypeJSON:
		return true
	default:
		return d.Kind == field.DefaultString
	}
}
