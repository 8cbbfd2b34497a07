package pgengine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docgraph/docgraph/internal/engine"
)

// tokenSplit mirrors engine.Tokenize.
const tokenSplit = `'[^[:alnum:]]+'`

// builder renders a query tree into a WHERE fragment with positional
// arguments. $1 is always the collection name.
type builder struct {
	mapping engine.Mapping
	args    []any
	scope   *nestedScope
	aliases int
}

type nestedScope struct {
	path  string
	alias string
}

func newBuilder(m engine.Mapping, collection string) *builder {
	return &builder{mapping: m, args: []any{collection}}
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)

	return "$" + strconv.Itoa(len(b.args))
}

func (b *builder) text(v string) string {
	return b.arg(v) + "::text"
}

func (b *builder) alias() string {
	b.aliases++

	return "el" + strconv.Itoa(b.aliases)
}

func (b *builder) array(path string) string {
	key := b.text(path)

	return "CASE WHEN jsonb_typeof(body->" + key + ") = 'array' THEN body->" + key + " ELSE '[]'::jsonb END"
}

// where renders q; a nil query matches everything.
func (b *builder) where(q engine.Query) (string, error) {
	if q == nil {
		return "TRUE", nil
	}

	return b.render(q)
}

func (b *builder) render(q engine.Query) (string, error) { //nolint:gocyclo // one case per query node.
	switch q := q.(type) {
	case engine.MatchAll:
		return "TRUE", nil
	case engine.Bool:
		return b.renderBool(q)
	case engine.Term:
		return b.field(q.Field, func(expr string) string {
			if b.mapping.IsText(q.Field) {
				return b.text(q.Value) + " = ANY(regexp_split_to_array(lower(" + expr + "), " + tokenSplit + "))"
			}
			return expr + " = " + b.text(q.Value)
		}), nil
	case engine.Terms:
		if len(q.Values) == 0 {
			return "FALSE", nil
		}
		return b.field(q.Field, func(expr string) string {
			return expr + " = ANY(" + b.arg(q.Values) + "::text[])"
		}), nil
	case engine.IDs:
		if len(q.Values) == 0 {
			return "FALSE", nil
		}
		return "id = ANY(" + b.arg(q.Values) + "::text[])", nil
	case engine.Phrase:
		if !b.mapping.IsText(q.Field) {
			return b.field(q.Field, func(expr string) string { return expr + " = " + b.text(q.Phrase) }), nil
		}
		tokens := engine.Tokenize(q.Phrase)
		if len(tokens) == 0 {
			return "FALSE", nil
		}
		pattern := "% " + strings.Join(tokens, " ") + " %"
		return b.field(q.Field, func(expr string) string {
			return "(' ' || array_to_string(regexp_split_to_array(lower(" + expr + "), " + tokenSplit + "), ' ') || ' ') LIKE " + b.text(pattern)
		}), nil
	case engine.Wildcard:
		pattern := likePattern(q.Pattern)
		if !b.mapping.IsText(q.Field) {
			return b.field(q.Field, func(expr string) string { return expr + " LIKE " + b.text(pattern) }), nil
		}
		return b.field(q.Field, func(expr string) string {
			return "EXISTS (SELECT 1 FROM regexp_split_to_table(lower(" + expr + "), " + tokenSplit + ") AS tok WHERE tok LIKE " + b.text(pattern) + ")"
		}), nil
	case engine.Nested:
		return b.renderNested(q)
	default:
		return "", fmt.Errorf("unsupported query node %T", q)
	}
}

func (b *builder) renderBool(q engine.Bool) (string, error) {
	var parts []string

	for _, sub := range append(append([]engine.Query{}, q.Must...), q.Filter...) {
		s, err := b.render(sub)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+s+")")
	}

	for _, sub := range q.MustNot {
		s, err := b.render(sub)
		if err != nil {
			return "", err
		}
		parts = append(parts, "NOT ("+s+")")
	}

	if !q.Required() && len(q.Should) > 0 {
		should := make([]string, 0, len(q.Should))
		for _, sub := range q.Should {
			s, err := b.render(sub)
			if err != nil {
				return "", err
			}
			should = append(should, "("+s+")")
		}
		parts = append(parts, "("+strings.Join(should, " OR ")+")")
	}

	if len(parts) == 0 {
		return "TRUE", nil
	}

	return strings.Join(parts, " AND "), nil
}

func (b *builder) renderNested(q engine.Nested) (string, error) {
	outer := b.scope
	defer func() { b.scope = outer }()

	alias := b.alias()
	from := b.array(q.Path)
	b.scope = &nestedScope{path: q.Path, alias: alias}

	inner, err := b.where(q.Query)
	if err != nil {
		return "", err
	}

	return "EXISTS (SELECT 1 FROM jsonb_array_elements(" + from + ") AS " + alias + " WHERE " + inner + ")", nil
}

// field resolves the SQL expression for field and applies cond to it. A field
// under a nested path outside its Nested scope is flattened: any object may
// satisfy cond.
func (b *builder) field(field string, cond func(expr string) string) string {
	if b.scope != nil && strings.HasPrefix(field, b.scope.path+".") {
		return cond(b.scope.alias + "->>" + b.text(field[len(b.scope.path)+1:]))
	}

	if path, nested := b.mapping.NestedPath(field); nested {
		alias := b.alias()
		from := b.array(path)
		expr := alias + "->>" + b.text(field[len(path)+1:])

		return "EXISTS (SELECT 1 FROM jsonb_array_elements(" + from + ") AS " + alias + " WHERE " + cond(expr) + ")"
	}

	key := b.text(field)

	return "(" + cond("body->>"+key) + " OR (jsonb_typeof(body->" + key + ") = 'array' AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(body->" + key + ") AS item WHERE " + cond("item") + ")))"
}

// likePattern converts * and ? wildcards into a LIKE pattern.
func likePattern(pattern string) string {
	var sb strings.Builder

	for _, r := range pattern {
		switch r {
		case '\\', '%', '_':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case '*':
			sb.WriteRune('%')
		case '?':
			sb.WriteRune('_')
		default:
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
