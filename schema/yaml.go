package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/syssam/recordgraph/schema/edge"
	"github.com/syssam/recordgraph/schema/field"
)

// Declarative YAML form of a schema:
//
//	types:
//	  - name: Group
//	    meta: {singular: group, plural: groups}
//	    fields:
//	      - {name: name, kind: string}
//	      - {name: members, kind: foreignKey, cardinality: manyToMany, type: Person}
//	  - name: Person
//	    fields:
//	      - {name: name, kind: string}
//	      - {name: groups, kind: inverse, refs: [{type: Group, field: members}]}
type (
	yamlSchema struct {
		Types []yamlType `yaml:"types"`
	}

	yamlType struct {
		Name   string      `yaml:"name"`
		Meta   *yamlMeta   `yaml:"meta"`
		Fields []yamlField `yaml:"fields"`
	}

	yamlMeta struct {
		Singular string `yaml:"singular"`
		Plural   string `yaml:"plural"`
	}

	yamlField struct {
		Name        string    `yaml:"name"`
		Kind        string    `yaml:"kind"`
		Cardinality string    `yaml:"cardinality"`
		Type        string    `yaml:"type"`
		Refs        []yamlRef `yaml:"refs"`
	}

	yamlRef struct {
		Type  string `yaml:"type"`
		Field string `yaml:"field"`
	}
)

var cardinalities = map[string]edge.Rel{
	"oneToOne":   edge.O2O,
	"oneToMany":  edge.O2M,
	"manyToOne":  edge.M2O,
	"manyToMany": edge.M2M,
}

// FromYAML parses a declarative YAML schema document and builds a validated
// schema from it. Parse and validation failures are fatal.
func FromYAML(data []byte) (*Schema, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("parse yaml: %v", err)}
	}
	builders := make([]*TypeBuilder, 0, len(doc.Types))
	for _, yt := range doc.Types {
		b := NewType(yt.Name)
		if yt.Meta != nil {
			b.Meta(yt.Meta.Singular, yt.Meta.Plural)
		}
		for _, yf := range yt.Fields {
			switch yf.Kind {
			case "foreignKey":
				rel, ok := cardinalities[yf.Cardinality]
				if !ok {
					return nil, &ConfigError{Type: yt.Name, Field: yf.Name, Reason: fmt.Sprintf("unknown cardinality %q", yf.Cardinality)}
				}
				to := edge.To(yf.Name, yf.Type)
				switch rel {
				case edge.O2O:
					to.O2O()
				case edge.O2M:
					to.O2M()
				case edge.M2O:
					to.M2O()
				case edge.M2M:
					to.M2M()
				}
				b.Edges(to)
			case "inverse":
				from := edge.From(yf.Name)
				for _, ref := range yf.Refs {
					from.Ref(ref.Type, ref.Field)
				}
				b.Edges(from)
			default:
				var fb *field.Builder
				switch field.KindOf(yf.Kind) {
				case field.KindString:
					fb = field.String(yf.Name)
				case field.KindNumber:
					fb = field.Number(yf.Name)
				case field.KindBoolean:
					fb = field.Boolean(yf.Name)
				case field.KindDate:
					fb = field.Date(yf.Name)
				default:
					return nil, &ConfigError{Type: yt.Name, Field: yf.Name, Reason: fmt.Sprintf("unknown field kind %q", yf.Kind)}
				}
				b.Fields(fb)
			}
		}
		builders = append(builders, b)
	}
	return New(builders...)
}
