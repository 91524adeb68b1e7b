package compiler

import (
	"github.com/graphql-go/graphql"

	"github.com/syssam/recordgraph/relation"
	"github.com/syssam/recordgraph/schema"
	"github.com/syssam/recordgraph/store"
)

// buildQuery generates the root query type: a polymorphic node lookup, the
// fixed relationships scan, and one singular and one plural lookup per
// declared type.
func (b *builder) buildQuery() *graphql.Object {
	fields := graphql.Fields{
		"node": &graphql.Field{
			Type:        b.node,
			Description: "Look up any record by identifier.",
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if r := b.store.ByID(p.Args["id"].(string)); r != nil {
					return r, nil
				}
				return nil, nil
			},
		},
		// The foreignKeys filter argument is declared but not applied.
		// It is a known stub kept for wire compatibility, not a contract.
		"relationships": &graphql.Field{
			Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.relationship))),
			Description: "Every source/target pair currently held in a foreign-key field.",
			Args: graphql.FieldConfigArgument{
				"foreignKeys": &graphql.ArgumentConfig{
					Type: graphql.NewList(graphql.NewNonNull(graphql.String)),
				},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				rels := relation.Relationships(b.schema, b.store)
				if rels == nil {
					rels = []relation.Relationship{}
				}
				return rels, nil
			},
		},
	}
	for _, t := range b.schema.Types() {
		fields[t.Singular()] = b.singularQuery(t)
		fields[t.Plural()] = b.pluralQuery(t)
	}
	return graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})
}

func (b *builder) singularQuery(t *schema.Type) *graphql.Field {
	typ := t.Name()
	return &graphql.Field{
		Type: b.objects[typ],
		Args: graphql.FieldConfigArgument{
			"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if r := b.store.First(typ, p.Args["id"].(string)); r != nil {
				return r, nil
			}
			return nil, nil
		},
	}
}

// pluralQuery maps each requested identifier to its record in input order,
// with null holes for absent identifiers. Without an ids argument it
// returns all records of the type.
func (b *builder) pluralQuery(t *schema.Type) *graphql.Field {
	typ := t.Name()
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(b.objects[typ])),
		Args: graphql.FieldConfigArgument{
			"ids": &graphql.ArgumentConfig{
				Type: graphql.NewList(graphql.NewNonNull(graphql.ID)),
			},
		},
		Resolve: func(p graphql.ResolveParams) (any, error) {
			raw, ok := p.Args["ids"]
			if !ok {
				records := b.store.OfType(typ)
				if records == nil {
					records = []*store.Record{}
				}
				return records, nil
			}
			ids := toStrings(raw)
			out := make([]any, len(ids))
			for i, r := range b.store.ByIDs(typ, ids) {
				if r != nil {
					out[i] = r
				}
			}
			return out, nil
		},
	}
}

// toStrings normalizes a coerced list argument.
func toStrings(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
