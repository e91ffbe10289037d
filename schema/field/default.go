package field

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultKind is the literal kind of a default value.
type DefaultKind uint8

// List of default literal kinds.
const (
	DefaultString DefaultKind = iota + 1
	DefaultNumber
	DefaultBool
	DefaultNull
	DefaultFunc
)

// String returns the kind name.
func (k DefaultKind) String() string {
	switch k {
	case DefaultString:
		return "string"
	case DefaultNumber:
		return "number"
	case DefaultBool:
		return "bool"
	case DefaultNull:
		return "null"
	case DefaultFunc:
		return "func"
	}
	return "invalid"
}

// Default is a default-value literal. Raw holds the unquoted string, the
// number as written, "true"/"false", "null", or the function name.
type Default struct {
	Kind DefaultKind
	Raw  string
}

// StringDefault returns a string default.
func StringDefault(s string) *Default { return &Default{Kind: DefaultString, Raw: s} }

// NumberDefault returns a numeric default as written, e.g. "0.00".
func NumberDefault(raw string) *Default { return &Default{Kind: DefaultNumber, Raw: raw} }

// BoolDefault returns a boolean default.
func BoolDefault(v bool) *Default { return &Default{Kind: DefaultBool, Raw: strconv.FormatBool(v)} }

// NullDefault returns the null default.
func NullDefault() *Default { return &Default{Kind: DefaultNull, Raw: "null"} }

// FuncDefault returns a function-call default, e.g. now().
func FuncDefault(name string) *Default { return &Default{Kind: DefaultFunc, Raw: name} }

// String renders the literal in canonical form.
func (d *Default) String() string {
	switch d.Kind {
	case DefaultString:
		return strconv.Quote(d.Raw)
	case DefaultFunc:
		return d.Raw + "()"
	default:
		return d.Raw
	}
}

// Value returns the literal as a Go value: string, int64 or float64, bool,
// nil, or the function name for function defaults.
func (d *Default) Value() any {
	switch d.Kind {
	case DefaultNumber:
		if i, err := strconv.ParseInt(d.Raw, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(d.Raw, 64); err == nil {
			return f
		}
		return d.Raw
	case DefaultBool:
		return d.Raw == "true"
	case DefaultNull:
		return nil
	default:
		return d.Raw
	}
}

// Decimal returns a numeric default as an exact decimal.
func (d *Default) Decimal() (decimal.Decimal, error) {
	if d.Kind != DefaultNumber {
		return decimal.Zero, fmt.Errorf("default %s is not numeric", d)
	}
	return decimal.NewFromString(d.Raw)
}

// Equal reports whether two defaults are the same literal.
func (d *Default) Equal(o *Default) bool {
	if d == nil || o == nil {
		return d == o
	}
	return *d == *o
}

// Clone returns a copy of d.
func (d *Default) Clone() *Default {
	if d == nil {
		return nil
	}
	cp := *d
	return &cp
}

// FitsDecimal reports whether a numeric default fits decimal(precision,scale).
func (d *Default) FitsDecimal(precision, scale int) bool {
	v, err := d.Decimal()
	if err != nil {
		return false
	}
	if -v.Exponent() > int32(scale) && !v.Equal(v.Truncate(int32(scale))) {
		return false
	}
	digits := len(v.Truncate(0).Abs().String())
	if v.Truncate(0).IsZero() {
		digits = 0
	}
	return digits <= precision-scale
}
