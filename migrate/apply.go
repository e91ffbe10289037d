package migrate

import (
	"fmt"
	"slices"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/schema/field"
)

// Apply replays column operations on a field list and returns the result.
// Constraint operations leave the field list unchanged. The input is not
// modified.
func Apply(fields []*field.Descriptor, ops []Operation) ([]*field.Descriptor, error) {
	out := make([]*field.Descriptor, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	find := func(name string) int {
		return slices.IndexFunc(out, func(f *field.Descriptor) bool { return f.Name == name })
	}
	for _, op := range ops {
		switch op := op.(type) {
		case *AddColumn:
			if find(op.Field.Name) >= 0 {
				return nil, fmt.Errorf("%w: %s: column %s already exists", icetype.ErrInvalidOperation, op.Kind(), op.Field.Name)
			}
			out = append(out, op.Field.Clone())
		case *DropColumn:
			i := find(op.Field.Name)
			if i < 0 {
				return nil, fmt.Errorf("%w: %s: column %s does not exist", icetype.ErrInvalidOperation, op.Kind(), op.Field.Name)
			}
			out = slices.Delete(out, i, i+1)
		case *AlterColumn:
			i := find(op.From.Name)
			if i < 0 {
				return nil, fmt.Errorf("%w: %s: column %s does not exist", icetype.ErrInvalidOperation, op.Kind(), op.From.Name)
			}
			out[i] = op.To.Clone()
		case *AddConstraint, *DropConstraint:
		default:
			return nil, fmt.Errorf("%w: unsupported operation %T", icetype.ErrInvalidOperation, op)
		}
	}
	return out, nil
}
