package compiler

import (
	"errors"
	"fmt"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/syssam/recordgraph/schema"
	"github.com/syssam/recordgraph/schema/field"
	"github.com/syssam/recordgraph/store"
)

// ErrDuplicateID is returned when a create operation supplies an
// identifier already present in the store.
var ErrDuplicateID = errors.New("compiler: duplicate id")

// buildMutation generates the root mutation type: create, update and
// delete per declared type, plus the two fixed type-agnostic relationship
// mutations.
func (b *builder) buildMutation() *graphql.Object {
	fields := graphql.Fields{
		"addRelationship":    b.relationshipMutation("addRelationship"),
		"removeRelationship": b.relationshipMutation("removeRelationship"),
	}
	for _, t := range b.schema.Types() {
		name := inflect.Camelize(t.Name())
		fields["create"+name] = b.createMutation(t)
		fields["update"+name] = b.updateMutation(t)
		fields["delete"+name] = b.deleteMutation(t)
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: fields,
	})
}

// scalarArgs builds one optional argument per declared scalar field.
// Foreign-key and inverse fields are never settable here; edges are
// mutated through addRelationship and removeRelationship only.
func scalarArgs(t *schema.Type) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{}
	for _, f := range t.Fields() {
		args[f.Name] = &graphql.ArgumentConfig{Type: scalarInput(f.Kind)}
	}
	return args
}

func scalarInput(k field.Kind) graphql.Input {
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

// createMutation builds a new record, generating an identifier when none
// is supplied. A supplied identifier that already exists is rejected.
func (b *builder) createMutation(t *schema.Type) *graphql.Field {
	typ := t.Name()
	args := scalarArgs(t)
	args["id"] = &graphql.ArgumentConfig{Type: graphql.ID}
	scalars := t.Fields()
	return &graphql.Field{
		Type: b.objects[typ],
		Args: args,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			id, _ := p.Args["id"].(string)
			if id == "" {
				id = uuid.NewString()
			} else if b.store.ByID(id) != nil {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
			}
			rec := store.NewRecord(typ, id)
			for _, f := range scalars {
				if v, ok := p.Args[f.Name]; ok {
					rec.Set(f.Name, v)
				}
			}
			b.store.Append(rec)
			b.store.Notify()
			return rec, nil
		},
	}
}

// updateMutation overwrites only the supplied scalar fields in place. A
// change notification is emitted whether or not a record was found; a
// missing record resolves to null.
func (b *builder) updateMutation(t *schema.Type) *graphql.Field {
	typ := t.Name()
	args := scalarArgs(t)
	args["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	scalars := t.Fields()
	return &graphql.Field{
		Type: b.objects[typ],
		Args: args,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			rec := b.store.First(typ, p.Args["id"].(string))
			if rec != nil {
				for _, f := range scalars {
					if v, ok := p.Args[f.Name]; ok {
						rec.Set(f.Name, v)
					}
				}
			}
			b.store.Notify()
			if rec == nil {
				return nil, nil
			}
			return rec, nil
		},
	}
}

// deleteMutation removes the first record with the given identifier. It
// does not cascade: dangling references in other records are left as-is
// and filtered out at resolve time.
func (b *builder) deleteMutation(t *schema.Type) *graphql.Field {
	typ := t.Name()
	return &graphql.Field{
		Type: b.objects[typ],
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (any, error) {
			rec := b.store.Remove(p.Args["id"].(string))
			b.store.Notify()
			if rec == nil {
				return nil, nil
			}
			return rec, nil
		},
	}
}

// relationshipMutation wires the two fixed edge mutations into the
// cardinality-enforcing mutator. Failures (unknown source record, field
// that is not a foreign key) are fatal for the mutation only and surface
// on the result's error list.
func (b *builder) relationshipMutation(op string) *graphql.Field {
	return &graphql.Field{
		Type: b.node,
		Args: graphql.FieldConfigArgument{
			"field":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"source": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"target": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (any, error) {
			var (
				fieldName = p.Args["field"].(string)
				source    = p.Args["source"].(string)
				target    = p.Args["target"].(string)
			)
			mutate := b.mutator.Remove
			if op == "addRelationship" {
				mutate = b.mutator.Add
			}
			rec, err := mutate(fieldName, source, target)
			if rec == nil {
				// Avoid a typed-nil *store.Record in the any return,
				// which graphql-go would treat as non-null data.
				return nil, err
			}
			return rec, err
		},
	}
}
