package compiler

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// dateScalar carries date values verbatim. Records hold either time.Time
// (set through the mutation surface) or RFC 3339 strings (restored from a
// persistence adapter); both shapes serialize to RFC 3339 and both are
// accepted as input.
var dateScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Date",
	Description: "An RFC 3339 timestamp.",
	Serialize: func(value any) any {
		switch v := value.(type) {
		case time.Time:
			return v.Format(time.RFC3339)
		case *time.Time:
			if v == nil {
				return nil
			}
			return v.Format(time.RFC3339)
		case string:
			return v
		}
		return nil
	},
	ParseValue: func(value any) any {
		switch v := value.(type) {
		case string:
			return v
		case time.Time:
			return v
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) any {
		if sv, ok := valueAST.(*ast.StringValue); ok {
			return sv.Value
		}
		return nil
	},
})
