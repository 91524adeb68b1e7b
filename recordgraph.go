// Package recordgraph builds a queryable, mutable graph schema over an
// in-memory collection of tagged records, from a declarative description
// of entity types, foreign keys and inverse relations.
package recordgraph

import (
	"context"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"github.com/syssam/recordgraph/compiler"
	"github.com/syssam/recordgraph/persist"
	"github.com/syssam/recordgraph/relation"
	"github.com/syssam/recordgraph/schema"
	"github.com/syssam/recordgraph/store"
)

// Graph is the owning context of one record set: the declared schema, the
// record store, the relationship mutator and the compiled query schema.
// Multiple independent graphs can coexist in one process; nothing is held
// in package-level state.
//
// A graph is single-threaded: queries and mutations run to completion
// before returning, and there is no concurrent mutation path. Listeners
// that mutate the graph from inside a change notification are unsupported.
type Graph struct {
	schema   *schema.Schema
	store    *store.Store
	mutator  *relation.Mutator
	compiled graphql.Schema
	logger   *zap.Logger
}

type options struct {
	initial []*store.Record
	adapter persist.Adapter
	logger  *zap.Logger
}

// Option configures graph construction.
type Option func(*options)

// WithInitialRecords seeds the store. Ignored when a persistence adapter
// restores a previously saved record set.
func WithInitialRecords(records ...*store.Record) Option {
	return func(o *options) { o.initial = append(o.initial, records...) }
}

// WithAdapter attaches a persistence adapter. Load runs once during
// construction; a non-nil result replaces the initial records. Save runs
// once per change notification thereafter.
func WithAdapter(a persist.Adapter) Option {
	return func(o *options) { o.adapter = a }
}

// WithLogger sets the logger for soft query-level errors. Defaults to a
// no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New compiles the declared schema and returns a graph bound to it.
// Configuration problems (an invalid schema declaration, an adapter load
// failure) are fatal and fail construction.
func New(sch *schema.Schema, opts ...Option) (*Graph, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	records := o.initial
	if o.adapter != nil {
		loaded, err := o.adapter.Load()
		if err != nil {
			return nil, err
		}
		if loaded != nil {
			records = loaded
		}
	}
	st := store.New(records)
	mut := relation.NewMutator(sch, st)
	compiled, err := compiler.Build(sch, st, mut)
	if err != nil {
		return nil, err
	}
	g := &Graph{
		schema:   sch,
		store:    st,
		mutator:  mut,
		compiled: compiled,
		logger:   o.logger,
	}
	if adapter := o.adapter; adapter != nil {
		st.Subscribe(func() {
			if err := adapter.Save(st.All()); err != nil {
				g.logger.Warn("persist save failed", zap.Error(err))
			}
		})
	}
	return g, nil
}

// Query executes a query document against the compiled schema. Execution
// errors are soft: they are logged, surfaced on the result's error list,
// and the corresponding output fields resolve to null. The result is
// always structurally valid.
func (g *Graph) Query(ctx context.Context, query string, vars map[string]any) *graphql.Result {
	res := graphql.Do(graphql.Params{
		Schema:         g.compiled,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
	for _, qe := range res.Errors {
		g.logger.Warn("query error", zap.String("message", qe.Message))
	}
	return res
}

// Subscribe registers fn on the change event and returns its unsubscribe
// function. When a persistence adapter is attached, its save runs before
// any subscriber registered here.
func (g *Graph) Subscribe(fn func()) func() {
	return g.store.Subscribe(fn)
}

// Records returns the current record set in insertion order.
func (g *Graph) Records() []*store.Record {
	return g.store.All()
}

// Schema returns the compiled query schema for callers that drive the
// execution engine directly.
func (g *Graph) Schema() graphql.Schema {
	return g.compiled
}
