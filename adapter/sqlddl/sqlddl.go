// Package sqlddl renders schemas as SQL DDL for Postgres, MySQL and SQLite.
// Tables are built as atlas schema objects and planned by the atlas driver
// of the target dialect, so the output is the DDL atlas itself would
// execute.
package sqlddl

import (
	"context"
	"fmt"
	"strings"

	atlasmigrate "ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/adapter"
	"github.com/syssam/icetype/dialect"
	"github.com/syssam/icetype/schema"
)

// Name is the registry key of the adapter.
const Name = "sqlddl"

// Table is the intermediate representation produced by Transform.
type Table struct {
	Entity  string
	Dialect string
	T       *atlas.Table
}

// Adapter is the SQL DDL adapter.
type Adapter struct{}

var _ adapter.Adapter = (*Adapter)(nil)

// New returns the SQL DDL adapter.
func New() *Adapter { return &Adapter{} }

// Name implements adapter.Adapter.
func (*Adapter) Name() string { return Name }

// Version implements adapter.Adapter.
func (*Adapter) Version() string { return "1.0.0" }

// Transform implements adapter.Adapter. The result is a *Table.
func (*Adapter) Transform(s *schema.Schema, opts ...adapter.Option) (any, error) {
	cfg, err := adapter.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := planner(cfg.Dialect); err != nil {
		return nil, err
	}
	t, err := builder{dialect: cfg.Dialect, system: cfg.SystemFields}.table(s)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("table built", "schema", s.Name(), "table", t.Name, "dialect", cfg.Dialect, "columns", len(t.Columns))
	return &Table{Entity: s.Name(), Dialect: cfg.Dialect, T: t}, nil
}

// Serialize implements adapter.Adapter. It renders the CREATE TABLE and
// CREATE INDEX statements of a *Table.
func (*Adapter) Serialize(ir any) (string, error) {
	t, ok := ir.(*Table)
	if !ok || t == nil || t.T == nil {
		return "", fmt.Errorf("sqlddl: unexpected representation %T", ir)
	}
	stmts, err := plan(context.Background(), t.Dialect, "create_"+t.T.Name, []atlas.Change{&atlas.AddTable{T: t.T}})
	if err != nil {
		return "", err
	}
	return join(stmts), nil
}

// planner returns the atlas plan applier of a dialect.
func planner(d string) (atlasmigrate.PlanApplier, error) {
	switch d {
	case dialect.Postgres:
		return postgres.DefaultPlan, nil
	case dialect.MySQL:
		return mysql.DefaultPlan, nil
	case dialect.SQLite:
		return sqlite.DefaultPlan, nil
	}
	return nil, icetype.NewConfigError("Dialect", d, "sqlddl supports postgres, mysql and sqlite")
}

// unqualified renders table names without a schema prefix.
func unqualified(o *atlasmigrate.PlanOptions) {
	o.SchemaQualifier = new(string)
}

func plan(ctx context.Context, d, name string, changes []atlas.Change) ([]string, error) {
	pa, err := planner(d)
	if err != nil {
		return nil, err
	}
	p, err := pa.PlanChanges(ctx, name, changes, unqualified)
	if err != nil {
		return nil, fmt.Errorf("sqlddl: plan %s: %w", name, err)
	}
	stmts := make([]string, 0, len(p.Changes))
	for _, c := range p.Changes {
		stmts = append(stmts, c.Cmd)
	}
	return stmts, nil
}

func join(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, ";\n") + ";\n"
}
