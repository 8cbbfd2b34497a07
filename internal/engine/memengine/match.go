package memengine

import (
	"strings"

	"github.com/docgraph/docgraph/internal/engine"
)

// scope is what a query sees: the whole document, or one nested object.
type scope struct {
	id     string
	fields map[string]any
	path   string
	obj    map[string]any
}

func (c *Collection) match(q engine.Query, d doc) bool {
	return c.eval(q, scope{id: d.id, fields: d.fields})
}

func (c *Collection) eval(q engine.Query, s scope) bool { //nolint:gocyclo // one case per query node.
	switch q := q.(type) {
	case nil, engine.MatchAll:
		return true
	case engine.Bool:
		return c.evalBool(q, s)
	case engine.Term:
		return c.anyValue(s, q.Field, func(v string) bool {
			if c.mapping.IsText(q.Field) {
				return containsToken(v, q.Value)
			}
			return v == q.Value
		})
	case engine.Terms:
		return c.anyValue(s, q.Field, func(v string) bool {
			for _, want := range q.Values {
				if v == want {
					return true
				}
			}
			return false
		})
	case engine.IDs:
		for _, id := range q.Values {
			if id == s.id {
				return true
			}
		}
		return false
	case engine.Phrase:
		return c.anyValue(s, q.Field, func(v string) bool {
			if c.mapping.IsText(q.Field) {
				return engine.ContainsPhrase(v, q.Phrase)
			}
			return v == q.Phrase
		})
	case engine.Wildcard:
		return c.anyValue(s, q.Field, func(v string) bool {
			if !c.mapping.IsText(q.Field) {
				return engine.WildcardMatch(q.Pattern, v)
			}
			for _, tok := range engine.Tokenize(v) {
				if engine.WildcardMatch(q.Pattern, tok) {
					return true
				}
			}
			return false
		})
	case engine.Nested:
		for _, obj := range objects(s.fields[q.Path]) {
			if c.eval(q.Query, scope{id: s.id, fields: s.fields, path: q.Path, obj: obj}) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (c *Collection) evalBool(q engine.Bool, s scope) bool {
	for _, sub := range q.Must {
		if !c.eval(sub, s) {
			return false
		}
	}

	for _, sub := range q.Filter {
		if !c.eval(sub, s) {
			return false
		}
	}

	for _, sub := range q.MustNot {
		if c.eval(sub, s) {
			return false
		}
	}

	if q.Required() || len(q.Should) == 0 {
		return true
	}

	for _, sub := range q.Should {
		if c.eval(sub, s) {
			return true
		}
	}

	return false
}

// anyValue applies pred to every string value of field visible from s.
// Outside a Nested scope, fields under a nested path are flattened across objects.
func (c *Collection) anyValue(s scope, field string, pred func(string) bool) bool {
	if s.obj != nil && strings.HasPrefix(field, s.path+".") {
		v, ok := s.obj[field[len(s.path)+1:]].(string)
		return ok && pred(v)
	}

	if path, nested := c.mapping.NestedPath(field); nested {
		sub := field[len(path)+1:]
		for _, obj := range objects(s.fields[path]) {
			if v, ok := obj[sub].(string); ok && pred(v) {
				return true
			}
		}
		return false
	}

	switch v := s.fields[field].(type) {
	case string:
		return pred(v)
	case []string:
		for _, item := range v {
			if pred(item) {
				return true
			}
		}
	}

	return false
}

func containsToken(text, term string) bool {
	for _, tok := range engine.Tokenize(text) {
		if tok == term {
			return true
		}
	}

	return false
}

func objects(v any) []map[string]any {
	return engine.Document{Fields: map[string]any{"v": v}}.Objects("v")
}

func cloneFields(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneFields(v)
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, m := range v {
			out[i] = cloneFields(m)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
