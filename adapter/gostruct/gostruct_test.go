package gostruct_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"strings"
	"testing"

	"github.com/syssam/icetype/adapter"
	"github.com/syssam/icetype/adapter/gostruct"
	"github.com/syssam/icetype/compiler"
	"github.com/syssam/icetype/compiler/load"
	"github.com/syssam/icetype/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shop = `
- $type: Customer
  email: string#
  name: varchar(100)!
  balance: decimal(10,2) = 0.00
  nickname: string
  avatar: binary
  checksum: fixed(16)!
  labels: map<string,int>
  tags: string[]
  status: enum<order_status>!
  orders: '<- Order.customer[]'
- $type: Order
  total: decimal!
  placed_at: timestamptz!
  customer: '-> Customer.orders'
  reviewer: '-> Customer'
  notes: '~> Note'
`

type structField struct {
	Type string
	Tag  reflect.StructTag
}

// generate renders s and returns the parsed fields of its struct.
func generate(t testing.TB, s *schema.Schema, opts ...adapter.Option) (string, []string, map[string]structField) {
	t.Helper()
	a := gostruct.New()
	ir, err := a.Transform(s, opts...)
	require.NoError(t, err)
	out, err := a.Serialize(ir)
	require.NoError(t, err)
	f, err := parser.ParseFile(token.NewFileSet(), "model.go", out, parser.ParseComments)
	require.NoError(t, err, out)

	var names []string
	fields := make(map[string]structField)
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st := ts.Type.(*ast.StructType)
		for _, fd := range st.Fields.List {
			sf := structField{Type: types.ExprString(fd.Type)}
			if fd.Tag != nil {
				sf.Tag = reflect.StructTag(strings.Trim(fd.Tag.Value, "`"))
			}
			for _, id := range fd.Names {
				names = append(names, id.Name)
				fields[id.Name] = sf
			}
		}
		return false
	})
	return out, names, fields
}

func parse(t testing.TB) []*schema.Schema {
	t.Helper()
	defs, err := load.FromYAML([]byte(shop))
	require.NoError(t, err)
	schemas, err := compiler.ParseSchemas(defs)
	require.NoError(t, err)
	return schemas
}

func TestPascal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"user_info", "UserInfo"},
		{"user_id", "UserID"},
		{"createdAt", "CreatedAt"},
		{"http_code", "HTTPCode"},
		{"full-admin", "FullAdmin"},
		{"api_url", "APIURL"},
		{"User", "User"},
		{"a", "A"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, gostruct.Pascal(tt.input))
		})
	}
}

func TestTransform(t *testing.T) {
	t.Parallel()

	schemas := parse(t)
	out, names, fields := generate(t, schemas[0])
	assert.True(t, strings.HasPrefix(out, "// Code generated by icetype. DO NOT EDIT.\n"), out)
	assert.Contains(t, out, "package model\n")
	assert.Contains(t, out, `return "customers"`)
	assert.Equal(t, []string{
		"ID", "Email", "Name", "Balance", "Nickname", "Avatar", "Checksum",
		"Labels", "Tags", "Status", "Orders", "Version", "CreatedAt", "UpdatedAt",
	}, names)

	tests := map[string]string{
		"ID":        "uuid.UUID",
		"Email":     "*string",
		"Name":      "string",
		"Balance":   "*decimal.Decimal",
		"Nickname":  "*string",
		"Avatar":    "[]byte",
		"Checksum":  "[16]byte",
		"Labels":    "map[string]int",
		"Tags":      "[]string",
		"Status":    "OrderStatus",
		"Orders":    "[]*Order",
		"Version":   "int",
		"CreatedAt": "time.Time",
	}
	for name, typ := range tests {
		assert.Equal(t, typ, fields[name].Type, name)
	}
	assert.Equal(t, "email,omitempty", fields["Email"].Tag.Get("json"))
	assert.Equal(t, "string#", fields["Email"].Tag.Get("icetype"))
	assert.Equal(t, "name", fields["Name"].Tag.Get("json"))
	assert.Equal(t, "varchar(100)!", fields["Name"].Tag.Get("icetype"))
	assert.Equal(t, "string[]", fields["Tags"].Tag.Get("icetype"))
	assert.Equal(t, "<- Order.customer[]", fields["Orders"].Tag.Get("icetype"))
	assert.Contains(t, out, `"github.com/google/uuid"`)
	assert.Contains(t, out, `"github.com/shopspring/decimal"`)
}

func TestTransformRelations(t *testing.T) {
	t.Parallel()

	schemas := parse(t)
	_, names, fields := generate(t, schemas[1], adapter.WithSystemFields(false), adapter.WithPackage("entity"))
	assert.Equal(t, []string{"Total", "PlacedAt", "CustomerID", "Customer", "ReviewerID", "Reviewer", "Notes"}, names)
	assert.Equal(t, "decimal.Decimal", fields["Total"].Type)
	assert.Equal(t, "time.Time", fields["PlacedAt"].Type)
	assert.Equal(t, "*uuid.UUID", fields["CustomerID"].Type)
	assert.Equal(t, "customerId", fields["CustomerID"].Tag.Get("json"))
	assert.Equal(t, "*Customer", fields["Customer"].Type)
	assert.Equal(t, "-> Customer.orders", fields["Customer"].Tag.Get("icetype"))
	assert.Equal(t, "*Note", fields["Notes"].Type)
}

func TestTransformDeclaredID(t *testing.T) {
	t.Parallel()

	def := load.New("Tag").Field("id", "uuid!").Field("label", "string!").Definition()
	s, err := compiler.ParseSchema(def)
	require.NoError(t, err)
	out, names, _ := generate(t, s, adapter.WithPackage("tags"))
	assert.Equal(t, []string{"ID", "Label", "Version", "CreatedAt", "UpdatedAt"}, names)
	assert.Contains(t, out, "package tags\n")
}

func TestErrors(t *testing.T) {
	t.Parallel()

	a := gostruct.New()
	assert.Equal(t, gostruct.Name, a.Name())
	assert.NotEmpty(t, a.Version())

	_, err := a.Serialize(42)
	assert.Error(t, err)
	_, err = a.Serialize((*gostruct.File)(nil))
	assert.Error(t, err)

	s := parse(t)[0]
	_, err = a.Transform(s, adapter.WithPackage("not a package"))
	assert.Error(t, err)
}
