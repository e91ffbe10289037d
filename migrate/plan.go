package migrate

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/syssam/icetype/dialect"
)

// Plan is the ordered list of operations that migrates an entity forward
// (Up) and back (Down).
type Plan struct {
	Entity  string
	Dialect string
	Up      []Operation
	Down    []Operation
}

// Breaking reports whether any forward operation is breaking.
func (p *Plan) Breaking() bool {
	return slices.ContainsFunc(p.Up, Operation.IsBreaking)
}

// String renders the plan one operation per line.
func (p *Plan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- %s (%s)\n-- up\n", p.Entity, p.Dialect)
	for _, op := range p.Up {
		sb.WriteString(op.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("-- down\n")
	for _, op := range p.Down {
		sb.WriteString(op.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// GenerateMigrationPlan turns a diff into operations. Up runs in the order
// drop constraints, drop columns, add columns, alter columns, add
// constraints, each group in declaration order. Down is Up reversed with
// every operation inverted.
func GenerateMigrationPlan(diff *SchemaDiff, opts ...Option) (*Plan, error) {
	cfg := &config{dialect: dialect.Postgres, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	p := &Plan{Entity: diff.Entity, Dialect: cfg.dialect}
	for _, idx := range diff.RemovedIndexes {
		p.Up = append(p.Up, newDropConstraint(diff.Entity, idx))
	}
	for _, f := range diff.RemovedFields {
		p.Up = append(p.Up, newDropColumn(diff.Entity, f))
	}
	for _, f := range diff.AddedFields {
		p.Up = append(p.Up, newAddColumn(diff.Entity, f))
	}
	for _, c := range diff.ModifiedFields {
		p.Up = append(p.Up, newAlterColumn(diff.Entity, c))
	}
	for _, idx := range diff.AddedIndexes {
		p.Up = append(p.Up, newAddConstraint(diff.Entity, idx))
	}
	p.Down = make([]Operation, 0, len(p.Up))
	for _, op := range slices.Backward(p.Up) {
		p.Down = append(p.Down, op.Invert())
	}
	cfg.logger.Debug("migration plan generated",
		"entity", p.Entity, "dialect", p.Dialect, "up", len(p.Up), "down", len(p.Down), "breaking", p.Breaking())
	return p, nil
}
