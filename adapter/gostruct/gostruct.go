// Package gostruct renders schemas as Go model structs using jennifer.
package gostruct

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/icetype/adapter"
	"github.com/syssam/icetype/adapter/sqlddl"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/edge"
	"github.com/syssam/icetype/schema/field"
)

// Name is the registry key of the adapter.
const Name = "gostruct"

const (
	uuidPkg    = "github.com/google/uuid"
	decimalPkg = "github.com/shopspring/decimal"
)

// File is the intermediate representation: one generated Go file per schema.
type File struct {
	Entity  string
	Package string
	F       *jen.File
}

// Adapter is the Go struct adapter.
type Adapter struct{}

var _ adapter.Adapter = (*Adapter)(nil)

// New returns the Go struct adapter.
func New() *Adapter { return &Adapter{} }

// Name implements adapter.Adapter.
func (*Adapter) Name() string { return Name }

// Version implements adapter.Adapter.
func (*Adapter) Version() string { return "1.0.0" }

// Transform implements adapter.Adapter.
func (*Adapter) Transform(s *schema.Schema, opts ...adapter.Option) (any, error) {
	cfg, err := adapter.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	typ := Pascal(s.Name())
	f := jen.NewFile(cfg.Package)
	f.HeaderComment("Code generated by icetype. DO NOT EDIT.")

	var fields []jen.Code
	if cfg.SystemFields && !s.HasField("id") {
		fields = append(fields, jen.Id("ID").Qual(uuidPkg, "UUID").Tag(tags("id", "uuid!")))
	}
	for _, fd := range s.Fields() {
		code, err := structFields(fd)
		if err != nil {
			return nil, fmt.Errorf("gostruct: %s.%s: %w", s.Name(), fd.Name, err)
		}
		fields = append(fields, code...)
	}
	if cfg.SystemFields {
		fields = append(fields,
			jen.Id("Version").Int().Tag(tags("version", "int!")),
			jen.Id("CreatedAt").Qual("time", "Time").Tag(tags("createdAt", "timestamp!")),
			jen.Id("UpdatedAt").Qual("time", "Time").Tag(tags("updatedAt", "timestamp!")),
		)
	}
	f.Commentf("%s is the model for the %s schema.", typ, s.Name())
	f.Type().Id(typ).Struct(fields...)

	recv := receiver(typ)
	f.Comment("TableName returns the SQL table of the model.")
	f.Func().Params(jen.Id(recv).Op("*").Id(typ)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(sqlddl.TableName(s.Name()))),
	)
	cfg.Logger.Debug("go struct built", "schema", s.Name(), "package", cfg.Package, "fields", len(fields))
	return &File{Entity: s.Name(), Package: cfg.Package, F: f}, nil
}

// Serialize implements adapter.Adapter. The output is gofmt-formatted.
func (*Adapter) Serialize(ir any) (string, error) {
	file, ok := ir.(*File)
	if !ok || file == nil || file.F == nil {
		return "", fmt.Errorf("gostruct: unexpected representation %T", ir)
	}
	var buf bytes.Buffer
	if err := file.F.Render(&buf); err != nil {
		return "", fmt.Errorf("gostruct: render %s: %w", file.Entity, err)
	}
	return buf.String(), nil
}

func tags(name, def string) map[string]string {
	return map[string]string{"json": name, "icetype": def}
}

// structFields returns the struct fields of a descriptor. An owning
// relation also gets its foreign key field.
func structFields(fd *field.Descriptor) ([]jen.Code, error) {
	name := Pascal(fd.Name)
	if rel := fd.Relation; rel != nil {
		target := Pascal(rel.Target)
		e := jen.Id(name)
		if fd.IsArray {
			e.Index().Op("*").Id(target)
		} else {
			e.Op("*").Id(target)
		}
		e.Tag(map[string]string{"json": fd.Name + ",omitempty", "icetype": fd.String()})
		if rel.Operator != edge.Forward || fd.IsArray {
			return []jen.Code{e}, nil
		}
		key := jen.Id(name + "ID")
		if !fd.IsRequired() {
			key.Op("*")
		}
		key.Qual(uuidPkg, "UUID").Tag(map[string]string{"json": fd.Name + "Id"})
		return []jen.Code{key, e}, nil
	}
	t, ref, err := goType(fd.Kind)
	if err != nil {
		return nil, err
	}
	code := jen.Id(name)
	switch {
	case fd.IsArray:
		code.Index()
	case !fd.IsRequired() && !ref:
		code.Op("*")
	}
	tag := fd.Name
	if !fd.IsRequired() {
		tag += ",omitempty"
	}
	def := fd.Kind.String()
	if fd.IsArray {
		def += "[]"
	}
	return []jen.Code{code.Add(t).Tag(map[string]string{"json": tag, "icetype": def + fd.Modifiers()})}, nil
}

// goType maps a kind to its Go type. ref reports whether the zero value
// of the type is already nil.
func goType(k field.TypeKind) (t jen.Code, ref bool, err error) {
	switch k := k.(type) {
	case field.Primitive:
		switch k.Type {
		case field.TypeString, field.TypeText:
			return jen.String(), false, nil
		case field.TypeInt:
			return jen.Int(), false, nil
		case field.TypeBigInt:
			return jen.Int64(), false, nil
		case field.TypeFloat:
			return jen.Float32(), false, nil
		case field.TypeDouble:
			return jen.Float64(), false, nil
		case field.TypeBoolean:
			return jen.Bool(), false, nil
		case field.TypeUUID:
			return jen.Qual(uuidPkg, "UUID"), false, nil
		case field.TypeTimestamp, field.TypeTimestampTZ, field.TypeDate, field.TypeTime:
			return jen.Qual("time", "Time"), false, nil
		case field.TypeJSON:
			return jen.Qual("encoding/json", "RawMessage"), true, nil
		case field.TypeBinary:
			return jen.Index().Byte(), true, nil
		}
	case field.Parametric:
		switch k.Kind {
		case field.Decimal:
			return jen.Qual(decimalPkg, "Decimal"), false, nil
		case field.Varchar, field.Char:
			return jen.String(), false, nil
		case field.Fixed:
			if !k.Set {
				return jen.Index().Byte(), true, nil
			}
			return jen.Index(jen.Lit(k.Length)).Byte(), false, nil
		}
	case field.Generic:
		switch k.Kind {
		case field.Map:
			key, _, err := goType(k.Args[0])
			if err != nil {
				return nil, false, err
			}
			val, _, err := goType(k.Args[1])
			if err != nil {
				return nil, false, err
			}
			return jen.Map(key).Add(val), true, nil
		case field.List:
			elem, _, err := goType(k.Args[0])
			if err != nil {
				return nil, false, err
			}
			return jen.Index().Add(elem), true, nil
		default:
			return goType(k.Args[0])
		}
	case field.Reference:
		return jen.Id(Pascal(k.Name)), false, nil
	}
	return nil, false, fmt.Errorf("unsupported type %v", k)
}
