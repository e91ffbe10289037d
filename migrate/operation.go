package migrate

import (
	"fmt"
	"strings"

	"github.com/syssam/icetype/schema/field"
	"github.com/syssam/icetype/schema/index"
)

// OpKind identifies the type of a migration operation.
type OpKind string

// Operation kinds.
const (
	OpAddColumn      OpKind = "add_column"
	OpDropColumn     OpKind = "drop_column"
	OpAlterColumn    OpKind = "alter_column"
	OpAddConstraint  OpKind = "add_constraint"
	OpDropConstraint OpKind = "drop_constraint"
)

// Operation is one atomic migration step. The set of implementations is
// closed: *AddColumn, *DropColumn, *AlterColumn, *AddConstraint and
// *DropConstraint.
type Operation interface {
	// Kind returns the operation kind.
	Kind() OpKind
	// Table returns the entity the operation applies to.
	Table() string
	// IsBreaking reports whether the operation may fail on, or lose,
	// existing data.
	IsBreaking() bool
	// Invert returns the operation that undoes this one, with its
	// breaking flag computed for the reverse direction.
	Invert() Operation
	// String describes the operation.
	String() string
	operation()
}

// AddColumn adds a field.
type AddColumn struct {
	Entity   string
	Field    *field.Descriptor
	Breaking bool
}

// DropColumn removes a field. Field holds the removed definition so the
// drop can be inverted.
type DropColumn struct {
	Entity   string
	Field    *field.Descriptor
	Breaking bool
}

// AlterColumn changes the definition of a field in place.
type AlterColumn struct {
	Entity   string
	From     *field.Descriptor
	To       *field.Descriptor
	Changes  []ChangeKind
	Breaking bool
}

// AddConstraint creates an index.
type AddConstraint struct {
	Entity   string
	Index    index.Descriptor
	Breaking bool
}

// DropConstraint removes an index.
type DropConstraint struct {
	Entity   string
	Index    index.Descriptor
	Breaking bool
}

func (*AddColumn) operation()      {}
func (*DropColumn) operation()     {}
func (*AlterColumn) operation()    {}
func (*AddConstraint) operation()  {}
func (*DropConstraint) operation() {}

func newAddColumn(entity string, f *field.Descriptor) *AddColumn {
	return &AddColumn{Entity: entity, Field: f, Breaking: Classify(ChangeAddField, nil, f) == Breaking}
}

func newDropColumn(entity string, f *field.Descriptor) *DropColumn {
	return &DropColumn{Entity: entity, Field: f, Breaking: Classify(ChangeRemoveField, f, nil) == Breaking}
}

func newAlterColumn(entity string, c FieldChange) *AlterColumn {
	return &AlterColumn{Entity: entity, From: c.Old, To: c.New, Changes: c.Changes, Breaking: c.Severity() == Breaking}
}

func newAddConstraint(entity string, idx index.Descriptor) *AddConstraint {
	return &AddConstraint{Entity: entity, Index: idx, Breaking: ClassifyIndex(ChangeAddIndex, idx) == Breaking}
}

func newDropConstraint(entity string, idx index.Descriptor) *DropConstraint {
	return &DropConstraint{Entity: entity, Index: idx, Breaking: ClassifyIndex(ChangeRemoveIndex, idx) == Breaking}
}

// Kind implements Operation.
func (*AddColumn) Kind() OpKind { return OpAddColumn }

// Table implements Operation.
func (o *AddColumn) Table() string { return o.Entity }

// IsBreaking implements Operation.
func (o *AddColumn) IsBreaking() bool { return o.Breaking }

// Invert implements Operation.
func (o *AddColumn) Invert() Operation { return newDropColumn(o.Entity, o.Field) }

// String implements Operation.
func (o *AddColumn) String() string {
	return describe(o, fmt.Sprintf("%s %s", o.Field.Name, o.Field))
}

// Kind implements Operation.
func (*DropColumn) Kind() OpKind { return OpDropColumn }

// Table implements Operation.
func (o *DropColumn) Table() string { return o.Entity }

// IsBreaking implements Operation.
func (o *DropColumn) IsBreaking() bool { return o.Breaking }

// Invert implements Operation.
func (o *DropColumn) Invert() Operation { return newAddColumn(o.Entity, o.Field) }

// String implements Operation.
func (o *DropColumn) String() string { return describe(o, o.Field.Name) }

// Kind implements Operation.
func (*AlterColumn) Kind() OpKind { return OpAlterColumn }

// Table implements Operation.
func (o *AlterColumn) Table() string { return o.Entity }

// IsBreaking implements Operation.
func (o *AlterColumn) IsBreaking() bool { return o.Breaking }

// Invert implements Operation.
func (o *AlterColumn) Invert() Operation {
	return newAlterColumn(o.Entity, FieldChange{Name: o.From.Name, Changes: o.Changes, Old: o.To, New: o.From})
}

// String implements Operation.
func (o *AlterColumn) String() string {
	changes := make([]string, len(o.Changes))
	for i, c := range o.Changes {
		changes[i] = string(c)
	}
	return describe(o, fmt.Sprintf("%s %s -> %s (%s)", o.To.Name, o.From, o.To, strings.Join(changes, ", ")))
}

// Kind implements Operation.
func (*AddConstraint) Kind() OpKind { return OpAddConstraint }

// Table implements Operation.
func (o *AddConstraint) Table() string { return o.Entity }

// IsBreaking implements Operation.
func (o *AddConstraint) IsBreaking() bool { return o.Breaking }

// Invert implements Operation.
func (o *AddConstraint) Invert() Operation { return newDropConstraint(o.Entity, o.Index) }

// String implements Operation.
func (o *AddConstraint) String() string { return describe(o, o.Index.Key()) }

// Kind implements Operation.
func (*DropConstraint) Kind() OpKind { return OpDropConstraint }

// Table implements Operation.
func (o *DropConstraint) Table() string { return o.Entity }

// IsBreaking implements Operation.
func (o *DropConstraint) IsBreaking() bool { return o.Breaking }

// Invert implements Operation.
func (o *DropConstraint) Invert() Operation { return newAddConstraint(o.Entity, o.Index) }

// String implements Operation.
func (o *DropConstraint) String() string { return describe(o, o.Index.Key()) }

func describe(op Operation, detail string) string {
	s := fmt.Sprintf("%s %s.%s", op.Kind(), op.Table(), detail)
	if op.IsBreaking() {
		s += " [BREAKING]"
	}
	return s
}
