package sqlddl

import (
	atlas "ariga.io/atlas/sql/schema"

	"github.com/syssam/icetype/dialect"
	"github.com/syssam/icetype/schema/field"
)

// typeNames maps primitive types to the column type of each dialect.
var typeNames = map[field.Type]map[string]string{
	field.TypeString:      {dialect.Postgres: "varchar", dialect.MySQL: "varchar", dialect.SQLite: "text"},
	field.TypeText:        {dialect.Postgres: "text", dialect.MySQL: "longtext", dialect.SQLite: "text"},
	field.TypeInt:         {dialect.Postgres: "integer", dialect.MySQL: "int", dialect.SQLite: "integer"},
	field.TypeBigInt:      {dialect.Postgres: "bigint", dialect.MySQL: "bigint", dialect.SQLite: "integer"},
	field.TypeFloat:       {dialect.Postgres: "real", dialect.MySQL: "float", dialect.SQLite: "real"},
	field.TypeDouble:      {dialect.Postgres: "double precision", dialect.MySQL: "double", dialect.SQLite: "real"},
	field.TypeBoolean:     {dialect.Postgres: "boolean", dialect.MySQL: "bool", dialect.SQLite: "boolean"},
	field.TypeUUID:        {dialect.Postgres: "uuid", dialect.MySQL: "char", dialect.SQLite: "uuid"},
	field.TypeTimestamp:   {dialect.Postgres: "timestamp", dialect.MySQL: "timestamp", dialect.SQLite: "datetime"},
	field.TypeTimestampTZ: {dialect.Postgres: "timestamptz", dialect.MySQL: "timestamp", dialect.SQLite: "datetime"},
	field.TypeDate:        {dialect.Postgres: "date", dialect.MySQL: "date", dialect.SQLite: "date"},
	field.TypeTime:        {dialect.Postgres: "time", dialect.MySQL: "time", dialect.SQLite: "time"},
	field.TypeJSON:        {dialect.Postgres: "jsonb", dialect.MySQL: "json", dialect.SQLite: "json"},
	field.TypeBinary:      {dialect.Postgres: "bytea", dialect.MySQL: "blob", dialect.SQLite: "blob"},
}

// columnType returns the column type of a field. Arrays and composite
// types are stored as JSON.
func columnType(d string, f *field.Descriptor) atlas.Type {
	if f.IsArray {
		return jsonType(d)
	}
	return kindType(d, f.Kind)
}

func kindType(d string, k field.TypeKind) atlas.Type {
	switch k := k.(type) {
	case field.Primitive:
		return primitiveType(d, k.Type)
	case field.Parametric:
		return parametricType(d, k)
	case field.Generic:
		if k.Kind == field.Enum {
			return textType(d)
		}
		return jsonType(d)
	}
	return jsonType(d)
}

func primitiveType(d string, t field.Type) atlas.Type {
	name := typeNames[t][d]
	switch t {
	case field.TypeString:
		st := &atlas.StringType{T: name}
		if d == dialect.MySQL {
			st.Size = 255
		}
		return st
	case field.TypeText:
		return &atlas.StringType{T: name}
	case field.TypeInt, field.TypeBigInt:
		return &atlas.IntegerType{T: name}
	case field.TypeFloat, field.TypeDouble:
		return &atlas.FloatType{T: name}
	case field.TypeBoolean:
		return &atlas.BoolType{T: name}
	case field.TypeUUID:
		if d == dialect.MySQL {
			return &atlas.StringType{T: name, Size: 36}
		}
		return &atlas.UUIDType{T: name}
	case field.TypeTimestamp, field.TypeTimestampTZ, field.TypeDate, field.TypeTime:
		return &atlas.TimeType{T: name}
	case field.TypeJSON:
		return &atlas.JSONType{T: name}
	case field.TypeBinary:
		return &atlas.BinaryType{T: name}
	}
	return jsonType(d)
}

func parametricType(d string, p field.Parametric) atlas.Type {
	switch p.Kind {
	case field.Decimal:
		t := &atlas.DecimalType{T: "decimal"}
		if d == dialect.Postgres {
			t.T = "numeric"
		}
		if p.Set {
			t.Precision, t.Scale = p.Precision, p.Scale
		}
		return t
	case field.Varchar, field.Char:
		t := &atlas.StringType{T: p.Kind.String()}
		if d == dialect.SQLite {
			t.T = "text"
		}
		switch {
		case p.Set:
			t.Size = p.Length
		case d == dialect.MySQL:
			t.Size = 255
		}
		return t
	case field.Fixed:
		t := &atlas.BinaryType{T: typeNames[field.TypeBinary][d]}
		if d == dialect.MySQL && p.Set {
			t.T = "binary"
			t.Size = &p.Length
		}
		return t
	}
	return jsonType(d)
}

func jsonType(d string) atlas.Type {
	return &atlas.JSONType{T: typeNames[field.TypeJSON][d]}
}

func textType(d string) atlas.Type {
	return &atlas.StringType{T: typeNames[field.TypeText][d]}
}
