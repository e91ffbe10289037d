package sqlddl

import (
	"context"
	"fmt"
	"strings"

	atlas "ariga.io/atlas/sql/schema"
	"github.com/google/go-cmp/cmp"

	"github.com/syssam/icetype/adapter"
	"github.com/syssam/icetype/migrate"
	"github.com/syssam/icetype/schema"
	"github.com/syssam/icetype/schema/field"
)

// Script is a migration plan rendered as SQL.
type Script struct {
	Up   []string
	Down []string
}

// String renders the script with -- up and -- down sections.
func (s *Script) String() string {
	var b strings.Builder
	b.WriteString("-- up\n")
	b.WriteString(join(s.Up))
	b.WriteString("-- down\n")
	b.WriteString(join(s.Down))
	return b.String()
}

// RenderPlan renders a migration plan between two versions of an entity in
// the plan's dialect. from and to must be the versions the plan was
// generated from, since the SQL of a column change depends on the whole
// table.
func (*Adapter) RenderPlan(ctx context.Context, p *migrate.Plan, from, to *schema.Schema, opts ...adapter.Option) (*Script, error) {
	cfg, err := adapter.NewConfig(append(opts[:len(opts):len(opts)], adapter.WithDialect(p.Dialect))...)
	if err != nil {
		return nil, err
	}
	b := builder{dialect: cfg.Dialect, system: cfg.SystemFields}
	fromT, err := b.table(from)
	if err != nil {
		return nil, err
	}
	toT, err := b.table(to)
	if err != nil {
		return nil, err
	}
	up, err := b.render(ctx, "up_"+toT.Name, p.Up, fromT, toT)
	if err != nil {
		return nil, err
	}
	down, err := b.render(ctx, "down_"+toT.Name, p.Down, toT, fromT)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("migration rendered", "entity", p.Entity, "dialect", p.Dialect, "up", len(up), "down", len(down))
	return &Script{Up: up, Down: down}, nil
}

// render plans ops as one modification of dst. Dropped objects are looked
// up in src, added ones in dst.
func (b builder) render(ctx context.Context, name string, ops []migrate.Operation, src, dst *atlas.Table) ([]string, error) {
	var changes []atlas.Change
	for _, op := range ops {
		switch op := op.(type) {
		case *migrate.AddColumn:
			changes = append(changes, addColumn(dst, op.Field)...)
		case *migrate.DropColumn:
			changes = append(changes, dropColumn(src, op.Field)...)
		case *migrate.AlterColumn:
			changes = append(changes, alterColumn(src, dst, op.From, op.To)...)
		case *migrate.AddConstraint:
			idx, ok := dst.Index(IndexName(dst.Name, op.Index))
			if !ok {
				return nil, fmt.Errorf("sqlddl: %s: no index %s", op, IndexName(dst.Name, op.Index))
			}
			changes = append(changes, &atlas.AddIndex{I: idx})
		case *migrate.DropConstraint:
			idx, ok := src.Index(IndexName(src.Name, op.Index))
			if !ok {
				return nil, fmt.Errorf("sqlddl: %s: no index %s", op, IndexName(src.Name, op.Index))
			}
			changes = append(changes, &atlas.DropIndex{I: idx})
		default:
			return nil, fmt.Errorf("sqlddl: unsupported operation %T", op)
		}
	}
	if len(changes) == 0 {
		return nil, nil
	}
	return plan(ctx, b.dialect, name, []atlas.Change{&atlas.ModifyTable{T: dst, Changes: changes}})
}

func addColumn(t *atlas.Table, f *field.Descriptor) []atlas.Change {
	c, ok := t.Column(ColumnName(f))
	if !ok {
		return nil
	}
	changes := []atlas.Change{&atlas.AddColumn{C: c}}
	for _, fk := range c.ForeignKeys {
		changes = append(changes, &atlas.AddForeignKey{F: fk})
	}
	if idx, ok := uniqueIndex(t, c); ok && f.IsUnique {
		changes = append(changes, &atlas.AddIndex{I: idx})
	}
	return changes
}

func dropColumn(t *atlas.Table, f *field.Descriptor) []atlas.Change {
	c, ok := t.Column(ColumnName(f))
	if !ok {
		return nil
	}
	var changes []atlas.Change
	if idx, ok := uniqueIndex(t, c); ok && f.IsUnique {
		changes = append(changes, &atlas.DropIndex{I: idx})
	}
	for _, fk := range c.ForeignKeys {
		changes = append(changes, &atlas.DropForeignKey{F: fk})
	}
	return append(changes, &atlas.DropColumn{C: c})
}

func alterColumn(src, dst *atlas.Table, from, to *field.Descriptor) []atlas.Change {
	cf, okF := src.Column(ColumnName(from))
	ct, okT := dst.Column(ColumnName(to))
	switch {
	case !okF && !okT:
		return nil
	case !okF:
		return addColumn(dst, to)
	case !okT:
		return dropColumn(src, from)
	case cf.Name != ct.Name:
		return append(dropColumn(src, from), addColumn(dst, to)...)
	}
	var (
		changes []atlas.Change
		kind    atlas.ChangeKind
	)
	if !cmp.Equal(cf.Type.Type, ct.Type.Type) {
		kind |= atlas.ChangeType
	}
	if cf.Type.Null != ct.Type.Null {
		kind |= atlas.ChangeNull
	}
	if !cmp.Equal(cf.Default, ct.Default) {
		kind |= atlas.ChangeDefault
	}
	if from.IsUnique && !to.IsUnique {
		if idx, ok := uniqueIndex(src, cf); ok {
			changes = append(changes, &atlas.DropIndex{I: idx})
		}
	}
	if !from.Relation.Equal(to.Relation) {
		for _, fk := range cf.ForeignKeys {
			changes = append(changes, &atlas.DropForeignKey{F: fk})
		}
	}
	if kind != atlas.NoChange {
		changes = append(changes, &atlas.ModifyColumn{From: cf, To: ct, Change: kind})
	}
	if !from.Relation.Equal(to.Relation) {
		for _, fk := range ct.ForeignKeys {
			changes = append(changes, &atlas.AddForeignKey{F: fk})
		}
	}
	if to.IsUnique && !from.IsUnique {
		if idx, ok := uniqueIndex(dst, ct); ok {
			changes = append(changes, &atlas.AddIndex{I: idx})
		}
	}
	return changes
}

// uniqueIndex returns the index created for a unique field.
func uniqueIndex(t *atlas.Table, c *atlas.Column) (*atlas.Index, bool) {
	return t.Index(t.Name + "_" + c.Name + "_key")
}
