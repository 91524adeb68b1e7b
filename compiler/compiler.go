// Package compiler turns a declarative schema into an executable graph
// schema: one polymorphic node interface, one object type per declared
// record type with relationship fields wired to the relation package, and
// generated root query and mutation operations over a record store.
//
// Compilation happens exactly once, at construction time. Incremental
// schema change is not supported; regenerate the schema instead.
package compiler

import (
	"github.com/graphql-go/graphql"

	"github.com/syssam/recordgraph/relation"
	"github.com/syssam/recordgraph/schema"
	"github.com/syssam/recordgraph/schema/edge"
	"github.com/syssam/recordgraph/schema/field"
	"github.com/syssam/recordgraph/store"
)

// Build compiles the declared schema into an executable graphql.Schema
// whose resolvers read and mutate the given store.
func Build(sch *schema.Schema, st *store.Store, mut *relation.Mutator) (graphql.Schema, error) {
	b := &builder{
		schema:  sch,
		store:   st,
		mutator: mut,
		objects: make(map[string]*graphql.Object, len(sch.Types())),
	}
	b.buildNode()
	b.buildObjects()
	b.buildRelationship()

	types := make([]graphql.Type, 0, len(b.objects))
	for _, t := range sch.Types() {
		types = append(types, b.objects[t.Name()])
	}
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    b.buildQuery(),
		Mutation: b.buildMutation(),
		Types:    types,
	})
}

type builder struct {
	schema  *schema.Schema
	store   *store.Store
	mutator *relation.Mutator

	node         *graphql.Interface
	objects      map[string]*graphql.Object
	relationship *graphql.Object
}

// buildNode creates the polymorphic node interface. It exposes only the
// identifier; the concrete variant is resolved by reading the record's
// type tag against the object registry.
func (b *builder) buildNode() {
	b.node = graphql.NewInterface(graphql.InterfaceConfig{
		Name:        "Node",
		Description: "A record with a stable identifier.",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			if r, ok := p.Value.(*store.Record); ok {
				return b.objects[r.Type()]
			}
			return nil
		},
	})
}

// buildObjects creates one object type per declared record type. Objects
// are created with only their id field first so that relationship fields
// can reference each other cyclically, then filled in a second pass.
func (b *builder) buildObjects() {
	for _, t := range b.schema.Types() {
		b.objects[t.Name()] = graphql.NewObject(graphql.ObjectConfig{
			Name:       t.Name(),
			Interfaces: []*graphql.Interface{b.node},
			Fields: graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return p.Source.(*store.Record).ID(), nil
					},
				},
			},
		})
	}
	for _, t := range b.schema.Types() {
		obj := b.objects[t.Name()]
		for _, f := range t.Fields() {
			obj.AddFieldConfig(f.Name, b.scalarField(f))
		}
		for _, e := range t.Edges() {
			if e.Inverse {
				obj.AddFieldConfig(e.Name, b.inverseField(e))
				continue
			}
			obj.AddFieldConfig(e.Name, b.foreignKeyField(e))
		}
	}
}

func (b *builder) scalarField(f *field.Descriptor) *graphql.Field {
	name := f.Name
	return &graphql.Field{
		Type:        scalarType(f.Kind),
		Description: f.Comment,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			v, _ := p.Source.(*store.Record).Get(name)
			return v, nil
		},
	}
}

// foreignKeyField resolves a stored foreign-key edge. To-many edges read
// the record's identifier array and resolve to a non-null list, silently
// dropping dangling identifiers. To-one edges resolve to the referenced
// record or null, including when the reference dangles.
func (b *builder) foreignKeyField(e *edge.Descriptor) *graphql.Field {
	name, target := e.Name, e.Type
	obj := b.objects[target]
	if e.Rel.ToMany() {
		return &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(obj))),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				r := p.Source.(*store.Record)
				ids := r.Refs(name)
				out := make([]*store.Record, 0, len(ids))
				for _, id := range ids {
					if t := b.store.First(target, id); t != nil {
						out = append(out, t)
					}
				}
				return out, nil
			},
		}
	}
	return &graphql.Field{
		Type: obj,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			r := p.Source.(*store.Record)
			id, ok := r.Ref(name)
			if !ok {
				return nil, nil
			}
			if t := b.store.First(target, id); t != nil {
				return t, nil
			}
			return nil, nil
		},
	}
}

// inverseField resolves a computed reverse view. A single-source inverse
// takes its shape from the source cardinality: single node for oneToOne
// and oneToMany sources, list for manyToOne and manyToMany sources. A
// multi-source inverse always resolves to a deduplicated list, folding
// each source's contribution in ref order and skipping candidates whose
// identifier already appears.
func (b *builder) inverseField(e *edge.Descriptor) *graphql.Field {
	if len(e.Refs) == 1 {
		ref := e.Refs[0]
		fk, _ := b.schema.ForeignKey(ref.Type, ref.Field)
		obj := b.objects[ref.Type]
		switch fk.Rel {
		case edge.O2O, edge.O2M:
			return &graphql.Field{
				Type: obj,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r := p.Source.(*store.Record)
					var holder *store.Record
					if fk.Rel == edge.O2O {
						holder = relation.OneToOne(b.store, ref.Type, ref.Field, r.ID())
					} else {
						holder = relation.OneToMany(b.store, ref.Type, ref.Field, r.ID())
					}
					if holder == nil {
						return nil, nil
					}
					return holder, nil
				},
			}
		default:
			return &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(obj))),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r := p.Source.(*store.Record)
					if fk.Rel == edge.M2M {
						return nonNil(relation.ManyToMany(b.store, ref.Type, ref.Field, r.ID())), nil
					}
					return nonNil(relation.ManyToOne(b.store, ref.Type, ref.Field, r.ID())), nil
				},
			}
		}
	}
	var elem graphql.Type = b.multiSourceElem(e)
	refs := e.Refs
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(elem))),
		Resolve: func(p graphql.ResolveParams) (any, error) {
			r := p.Source.(*store.Record)
			out := make([]*store.Record, 0)
			seen := make(map[string]bool)
			for _, ref := range refs {
				for _, c := range b.referencing(ref, r.ID()) {
					if seen[c.ID()] {
						continue
					}
					seen[c.ID()] = true
					out = append(out, c)
				}
			}
			return out, nil
		},
	}
}

// referencing returns the records holding the target identifier through
// the referenced foreign-key edge, regardless of its cardinality shape.
func (b *builder) referencing(ref edge.Ref, targetID string) []*store.Record {
	fk, ok := b.schema.ForeignKey(ref.Type, ref.Field)
	if !ok {
		return nil
	}
	switch fk.Rel {
	case edge.M2M:
		return relation.ManyToMany(b.store, ref.Type, ref.Field, targetID)
	case edge.M2O:
		return relation.ManyToOne(b.store, ref.Type, ref.Field, targetID)
	case edge.O2O:
		if r := relation.OneToOne(b.store, ref.Type, ref.Field, targetID); r != nil {
			return []*store.Record{r}
		}
	case edge.O2M:
		if r := relation.OneToMany(b.store, ref.Type, ref.Field, targetID); r != nil {
			return []*store.Record{r}
		}
	}
	return nil
}

// multiSourceElem picks the element type of a multi-source inverse list:
// the concrete object when every ref lives on the same type, the node
// interface when sources span types.
func (b *builder) multiSourceElem(e *edge.Descriptor) graphql.Type {
	first := e.Refs[0].Type
	for _, ref := range e.Refs[1:] {
		if ref.Type != first {
			return b.node
		}
	}
	return b.objects[first]
}

// buildRelationship creates the transient source/target pair type emitted
// by the relationships root query. Ends are resolved by identifier lookup
// and may be null when a reference dangles.
func (b *builder) buildRelationship() {
	b.relationship = graphql.NewObject(graphql.ObjectConfig{
		Name:        "Relationship",
		Description: "A source/target pair derived from a stored foreign-key value.",
		Fields: graphql.Fields{
			"source": &graphql.Field{
				Type: b.node,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rel := p.Source.(relation.Relationship)
					if r := b.store.ByID(rel.SourceID); r != nil {
						return r, nil
					}
					return nil, nil
				},
			},
			"target": &graphql.Field{
				Type: b.node,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rel := p.Source.(relation.Relationship)
					if r := b.store.ByID(rel.TargetID); r != nil {
						return r, nil
					}
					return nil, nil
				},
			},
		},
	})
}

// nonNil keeps list resolvers returning empty lists instead of null.
func nonNil(records []*store.Record) []*store.Record {
	if records == nil {
		return []*store.Record{}
	}
	return records
}

func scalarType(k field.Kind) graphql.Output {
	switch k {
	case field.KindNumber:
		return graphql.Float
	case field.KindBoolean:
		return graphql.Boolean
	case field.KindDate:
		return dateScalar
	}
	return graphql.String
}
