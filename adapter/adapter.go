package adapter

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/icetype"
	"github.com/syssam/icetype/compiler/validate"
	"github.com/syssam/icetype/schema"
)

// Adapter transforms a validated schema into an intermediate
// representation and serializes that representation to text.
type Adapter interface {
	// Name returns the key the adapter is registered under.
	Name() string
	// Version returns the adapter version.
	Version() string
	// Transform builds the adapter's representation of s.
	Transform(s *schema.Schema, opts ...Option) (any, error)
	// Serialize renders a representation returned by Transform.
	Serialize(ir any) (string, error)
}

// Output is the serialized output of one schema.
type Output struct {
	Schema  string
	Content string
}

// Registry is an immutable table of adapters keyed by name.
type Registry struct {
	adapters map[string]Adapter
	// workers bounds the schemas transformed at once.
	workers int
}

// NewRegistry returns a registry holding the given adapters. Registering
// two adapters under one name fails with icetype.ErrDuplicateAdapter.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters)), workers: 4}
	for _, a := range adapters {
		if _, ok := r.adapters[a.Name()]; ok {
			return nil, fmt.Errorf("%w: %s", icetype.ErrDuplicateAdapter, a.Name())
		}
		r.adapters[a.Name()] = a
	}
	return r, nil
}

// Get returns the adapter registered under name.
func (r *Registry) Get(name string) (Adapter, error) {
	if a, ok := r.adapters[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q (registered: %v)", icetype.ErrUnknownAdapter, name, r.Names())
}

// Names returns the registered adapter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate runs the named adapter over schemas and returns the outputs in
// input order. Every schema is validated against reg first; the first
// invalid schema aborts the run with an error wrapping
// icetype.ErrInvalidSchema, before any adapter output is produced.
func (r *Registry) Generate(ctx context.Context, name string, schemas []*schema.Schema, reg schema.Registry, opts ...Option) ([]Output, error) {
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	for _, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("adapter %s: %w: nil schema", name, icetype.ErrInvalidSchema)
		}
		if err := validate.ValidateSchema(s, reg).Err(); err != nil {
			return nil, fmt.Errorf("adapter %s: schema %s: %w", name, s.Name(), err)
		}
	}
	out := make([]Output, len(schemas))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)
	for i, s := range schemas {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			ir, err := a.Transform(s, opts...)
			if err != nil {
				return fmt.Errorf("adapter %s: transform %s: %w", name, s.Name(), err)
			}
			content, err := a.Serialize(ir)
			if err != nil {
				return fmt.Errorf("adapter %s: serialize %s: %w", name, s.Name(), err)
			}
			out[i] = Output{Schema: s.Name(), Content: content}
			cfg.Logger.Debug("adapter output generated", "adapter", name, "version", a.Version(), "schema", s.Name())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Contents returns the content of every output, in order.
func Contents(outputs []Output) []string {
	contents := make([]string, len(outputs))
	for i, o := range outputs {
		contents[i] = o.Content
	}
	return contents
}
