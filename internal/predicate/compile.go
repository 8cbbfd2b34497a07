package predicate

import (
	"strings"

	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/models"
)

// Compile turns p into a query scoped to datasource. An empty set matches
// every element of the datasource. Contradictions such as Key and KeyNot on
// the same key compile as written and simply match nothing.
func Compile(datasource string, p models.PredicateSet) (engine.Query, error) {
	if datasource == "" {
		return nil, models.InvalidPredicate("datasource", "is required")
	}

	q := engine.Bool{Filter: []engine.Query{datasourceTerm(datasource)}}

	if p.Label != "" {
		q.Filter = append(q.Filter, engine.Term{Field: FieldLabel, Value: p.Label})
	}

	if len(p.Labels) > 0 {
		for _, l := range p.Labels {
			if l == "" {
				return nil, models.InvalidPredicate("labels", "must not contain empty labels")
			}
		}
		q.Filter = append(q.Filter, engine.Terms{Field: FieldLabel, Values: append([]string(nil), p.Labels...)})
	}

	if p.Key != "" {
		q.Filter = append(q.Filter, hasKey(p.Key))
	}

	if p.KeyNot != "" {
		q.MustNot = append(q.MustNot, hasKey(p.KeyNot))
	}

	for _, k := range p.Keys {
		if k == "" {
			return nil, models.InvalidPredicate("keys", "must not contain empty keys")
		}
		q.Filter = append(q.Filter, hasKey(k))
	}

	for _, v := range p.Values {
		if strings.TrimSpace(v) == "" {
			return nil, models.InvalidPredicate("values", "must not contain empty values")
		}
		q.Filter = append(q.Filter, hasValue(v))
	}

	for _, kv := range p.KeyValues {
		if kv.Key == "" {
			return nil, models.InvalidPredicate("key", "is required with a value")
		}
		if strings.TrimSpace(kv.Value) == "" {
			return nil, models.InvalidPredicate("value", "is required with a key")
		}
		q.Filter = append(q.Filter, engine.Nested{Path: FieldProperties, Query: engine.Bool{Must: []engine.Query{
			engine.Term{Field: FieldPropertyKey, Value: kv.Key},
			engine.Phrase{Field: FieldPropertyValue, Phrase: strings.ToLower(kv.Value)},
		}}})
	}

	if p.PartialValue != "" {
		q.Filter = append(q.Filter, engine.Nested{Path: FieldProperties, Query: engine.Wildcard{
			Field:   FieldPropertyValue,
			Pattern: "*" + strings.ToLower(p.PartialValue) + "*",
		}})
	}

	return q, nil
}

// CompileEndpoint compiles p for edges touching vertexID in direction dir.
func CompileEndpoint(datasource, vertexID string, dir models.Direction, p models.PredicateSet) (engine.Query, error) {
	if vertexID == "" {
		return nil, models.InvalidPredicate("vertex id", "is required")
	}

	q, err := Compile(datasource, p)
	if err != nil {
		return nil, err
	}

	b := q.(engine.Bool) //nolint:forcetypeassert // Compile always returns engine.Bool.
	b.Filter = append(b.Filter, endpoint(vertexID, dir))

	return b, nil
}

// CompileIDs matches the given ids inside datasource. No ids matches nothing.
func CompileIDs(datasource string, ids []string) (engine.Query, error) {
	if datasource == "" {
		return nil, models.InvalidPredicate("datasource", "is required")
	}

	return engine.Bool{Filter: []engine.Query{
		datasourceTerm(datasource),
		engine.IDs{Values: append([]string(nil), ids...)},
	}}, nil
}

// Datasource matches every element of datasource.
func Datasource(datasource string) (engine.Query, error) {
	return Compile(datasource, models.PredicateSet{})
}

func datasourceTerm(ds string) engine.Query {
	return engine.Term{Field: FieldDatasource, Value: ds}
}

func hasKey(key string) engine.Query {
	return engine.Nested{Path: FieldProperties, Query: engine.Term{Field: FieldPropertyKey, Value: key}}
}

func hasValue(value string) engine.Query {
	return engine.Nested{Path: FieldProperties, Query: engine.Phrase{Field: FieldPropertyValue, Phrase: strings.ToLower(value)}}
}

func endpoint(vertexID string, dir models.Direction) engine.Query {
	switch dir {
	case models.DirectionOut:
		return engine.Term{Field: FieldSource, Value: vertexID}
	case models.DirectionIn:
		return engine.Term{Field: FieldTarget, Value: vertexID}
	default:
		return engine.Bool{Should: []engine.Query{
			engine.Term{Field: FieldSource, Value: vertexID},
			engine.Term{Field: FieldTarget, Value: vertexID},
		}}
	}
}
