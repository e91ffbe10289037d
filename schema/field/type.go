package field

import (
	"strconv"
	"strings"
)

// A Type is a primitive field type.
type Type uint8

// List of primitive types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeText
	TypeInt
	TypeBigInt
	TypeFloat
	TypeDouble
	TypeBoolean
	TypeUUID
	TypeTimestamp
	TypeTimestampTZ
	TypeDate
	TypeTime
	TypeJSON
	TypeBinary
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:     "invalid",
	TypeString:      "string",
	TypeText:        "text",
	TypeInt:         "int",
	TypeBigInt:      "bigint",
	TypeFloat:       "float",
	TypeDouble:      "double",
	TypeBoolean:     "boolean",
	TypeUUID:        "uuid",
	TypeTimestamp:   "timestamp",
	TypeTimestampTZ: "timestamptz",
	TypeDate:        "date",
	TypeTime:        "time",
	TypeJSON:        "json",
	TypeBinary:      "binary",
}

// String returns the canonical name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known primitive.
func (t Type) Valid() bool { return t > TypeInvalid && t < endTypes }

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	switch t {
	case TypeInt, TypeBigInt, TypeFloat, TypeDouble:
		return true
	}
	return false
}

// Textual reports if the given type holds text.
func (t Type) Textual() bool { return t == TypeString || t == TypeText }

var primitives = func() map[string]Type {
	m := make(map[string]Type, int(endTypes))
	for t := TypeString; t < endTypes; t++ {
		m[typeNames[t]] = t
	}
	m["bool"] = TypeBoolean
	return m
}()

// LookupPrimitive resolves a primitive type name, case-insensitively.
func LookupPrimitive(name string) (Type, bool) {
	t, ok := primitives[strings.ToLower(name)]
	return t, ok
}

// ParamKind is a parametric type family.
type ParamKind uint8

// List of parametric types.
const (
	ParamInvalid ParamKind = iota
	Decimal
	Varchar
	Char
	Fixed
)

var paramNames = [...]string{
	ParamInvalid: "invalid",
	Decimal:      "decimal",
	Varchar:      "varchar",
	Char:         "char",
	Fixed:        "fixed",
}

// String returns the name of the parametric family.
func (k ParamKind) String() string {
	if int(k) < len(paramNames) {
		return paramNames[k]
	}
	return paramNames[ParamInvalid]
}

// LookupParametric resolves a parametric type name, case-insensitively.
func LookupParametric(name string) (ParamKind, bool) {
	switch strings.ToLower(name) {
	case "decimal":
		return Decimal, true
	case "varchar":
		return Varchar, true
	case "char":
		return Char, true
	case "fixed":
		return Fixed, true
	}
	return ParamInvalid, false
}

// GenericKind is a generic (collection or named) type family.
type GenericKind uint8

// List of generic types.
const (
	GenericInvalid GenericKind = iota
	Map
	List
	Struct
	Enum
	Ref
)

var genericNames = [...]string{
	GenericInvalid: "invalid",
	Map:            "map",
	List:           "list",
	Struct:         "struct",
	Enum:           "enum",
	Ref:            "ref",
}

// String returns the name of the generic family.
func (k GenericKind) String() string {
	if int(k) < len(genericNames) {
		return genericNames[k]
	}
	return genericNames[GenericInvalid]
}

// Arity returns the number of type arguments the family takes.
func (k GenericKind) Arity() int {
	if k == Map {
		return 2
	}
	return 1
}

// Named reports whether the family takes a user type name as its argument.
func (k GenericKind) Named() bool { return k == Struct || k == Enum || k == Ref }

// LookupGeneric resolves a generic type name, case-insensitively.
func LookupGeneric(name string) (GenericKind, bool) {
	switch strings.ToLower(name) {
	case "map":
		return Map, true
	case "list":
		return List, true
	case "struct":
		return Struct, true
	case "enum":
		return Enum, true
	case "ref":
		return Ref, true
	}
	return GenericInvalid, false
}

// IsTypeName reports whether name is a reserved type name of any family.
func IsTypeName(name string) bool {
	if _, ok := LookupPrimitive(name); ok {
		return true
	}
	if _, ok := LookupParametric(name); ok {
		return true
	}
	_, ok := LookupGeneric(name)
	return ok
}

// TypeKind is the resolved type of a field. The set of implementations is
// closed: Primitive, Parametric, Generic and Reference.
type TypeKind interface {
	// Tag returns the short type tag, e.g. "string", "decimal" or "map".
	Tag() string
	// String returns the canonical rendering, e.g. "decimal(10,2)".
	String() string
	typeKind()
}

// Primitive is a primitive type.
type Primitive struct {
	Type Type
}

// Parametric is a type with integer parameters. Set reports whether
// parameters were given at all; a bare "decimal" has Set false.
type Parametric struct {
	Kind      ParamKind
	Set       bool
	Precision int // decimal only.
	Scale     int // decimal only.
	Length    int // varchar, char and fixed.
}

// Generic is a collection or named type with type arguments.
type Generic struct {
	Kind GenericKind
	Args []TypeKind
}

// Reference names a user-defined type.
type Reference struct {
	Name string
}

func (Primitive) typeKind()  {}
func (Parametric) typeKind() {}
func (Generic) typeKind()    {}
func (Reference) typeKind()  {}

// Tag implements TypeKind.
func (p Primitive) Tag() string { return p.Type.String() }

// String implements TypeKind.
func (p Primitive) String() string { return p.Type.String() }

// Tag implements TypeKind.
func (p Parametric) Tag() string { return p.Kind.String() }

// String implements TypeKind.
func (p Parametric) String() string {
	if !p.Set {
		return p.Kind.String()
	}
	if p.Kind == Decimal {
		return p.Kind.String() + "(" + strconv.Itoa(p.Precision) + "," + strconv.Itoa(p.Scale) + ")"
	}
	return p.Kind.String() + "(" + strconv.Itoa(p.Length) + ")"
}

// Tag implements TypeKind.
func (g Generic) Tag() string { return g.Kind.String() }

// String implements TypeKind.
func (g Generic) String() string {
	var b strings.Builder
	b.WriteString(g.Kind.String())
	b.WriteByte('<')
	for i, a := range g.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}

// Tag implements TypeKind.
func (Reference) Tag() string { return "ref" }

// String implements TypeKind.
func (r Reference) String() string { return r.Name }

// EqualKinds reports whether two kinds are structurally equal.
func EqualKinds(a, b TypeKind) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String() && kindClass(a) == kindClass(b)
}

func kindClass(k TypeKind) int {
	switch k.(type) {
	case Primitive:
		return 1
	case Parametric:
		return 2
	case Generic:
		return 3
	default:
		return 4
	}
}

// Of returns the primitive kind of t.
func Of(t Type) TypeKind { return Primitive{Type: t} }

// DecimalOf returns decimal(precision,scale).
func DecimalOf(precision, scale int) TypeKind {
	return Parametric{Kind: Decimal, Set: true, Precision: precision, Scale: scale}
}

// VarcharOf returns varchar(n).
func VarcharOf(n int) TypeKind { return Parametric{Kind: Varchar, Set: true, Length: n} }

// CharOf returns char(n).
func CharOf(n int) TypeKind { return Parametric{Kind: Char, Set: true, Length: n} }

// FixedOf returns fixed(n).
func FixedOf(n int) TypeKind { return Parametric{Kind: Fixed, Set: true, Length: n} }

// MapOf returns map<k,v>.
func MapOf(k, v TypeKind) TypeKind { return Generic{Kind: Map, Args: []TypeKind{k, v}} }

// ListOf returns list<t>.
func ListOf(t TypeKind) TypeKind { return Generic{Kind: List, Args: []TypeKind{t}} }

// StructOf returns struct<name>.
func StructOf(name string) TypeKind {
	return Generic{Kind: Struct, Args: []TypeKind{Reference{Name: name}}}
}

// EnumOf returns enum<name>.
func EnumOf(name string) TypeKind {
	return Generic{Kind: Enum, Args: []TypeKind{Reference{Name: name}}}
}

// RefOf returns ref<name>.
func RefOf(name string) TypeKind {
	return Generic{Kind: Ref, Args: []TypeKind{Reference{Name: name}}}
}
