package predicate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/engine/memengine"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

var mapping = engine.Mapping{
	Keywords: []string{predicate.FieldDatasource, predicate.FieldLabel, predicate.FieldSource, predicate.FieldTarget, predicate.FieldPropertyKey, predicate.FieldPropertyType},
	Texts:    []string{predicate.FieldPropertyValue},
	Nested:   []string{predicate.FieldProperties},
}

func doc(id, ds, label string, kv ...string) engine.Document {
	props := make([]map[string]any, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		props = append(props, map[string]any{"key": kv[i], "type": "string", "value": kv[i+1]})
	}

	return engine.Document{ID: id, Fields: map[string]any{
		predicate.FieldDatasource: ds,
		predicate.FieldLabel:      label,
		predicate.FieldProperties: props,
	}}
}

func seeded(t *testing.T) *memengine.Collection {
	t.Helper()

	c := memengine.New().Open("vertex", mapping)
	for _, d := range []engine.Document{
		doc("v01", "sample", "person", "technology", "java"),
		doc("v02", "sample", "person", "technology", "TypeScript"),
		doc("v03", "sample", "person", "technology", "html5/css", "nick", "java"),
		doc("v04", "sample", "city", "name", "Java Town"),
		doc("x01", "other", "person", "technology", "java"),
	} {
		if err := c.Create(context.Background(), d); err != nil {
			t.Fatalf("Create(%s): %v", d.ID, err)
		}
	}

	return c
}

func run(t *testing.T, c *memengine.Collection, ds string, p models.PredicateSet) []string {
	t.Helper()

	q, err := predicate.Compile(ds, p)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	docs, err := c.Search(context.Background(), q, models.DefaultResultSize)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCompile_Matching(t *testing.T) {
	c := seeded(t)

	tests := []struct {
		name string
		p    models.PredicateSet
		want []string
	}{
		{"empty set is whole datasource", models.PredicateSet{}, []string{"v01", "v02", "v03", "v04"}},
		{"label", models.PredicateSet{Label: "city"}, []string{"v04"}},
		{"empty labels vacuous", models.PredicateSet{Labels: []string{}}, []string{"v01", "v02", "v03", "v04"}},
		{"labels membership", models.PredicateSet{Labels: []string{"city", "robot"}}, []string{"v04"}},
		{"key", models.PredicateSet{Key: "nick"}, []string{"v03"}},
		{"key not", models.PredicateSet{KeyNot: "technology"}, []string{"v04"}},
		{"keys conjunctive", models.PredicateSet{Keys: []string{"technology", "nick"}}, []string{"v03"}},
		{"empty keys vacuous", models.PredicateSet{Keys: []string{}}, []string{"v01", "v02", "v03", "v04"}},
		{"contradiction yields nothing", models.PredicateSet{Key: "nick", KeyNot: "nick"}, []string{}},
		{"value phrase first pass", models.PredicateSet{Values: []string{"JAVA"}}, []string{"v01", "v03", "v04"}},
		{"key value first pass over-matches", models.PredicateSet{KeyValues: []models.KeyValue{{Key: "technology", Value: "JAVA"}}}, []string{"v01"}},
		{"label key value", models.PredicateSet{Label: "person", KeyValues: []models.KeyValue{{Key: "technology", Value: "typescript"}}}, []string{"v02"}},
		{"partial value", models.PredicateSet{PartialValue: "Script"}, []string{"v02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(t, c, "sample", tt.p); !sameIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		ds   string
		p    models.PredicateSet
	}{
		{"missing datasource", "", models.PredicateSet{}},
		{"empty label in set", "sample", models.PredicateSet{Labels: []string{"person", ""}}},
		{"empty key in set", "sample", models.PredicateSet{Keys: []string{""}}},
		{"blank value", "sample", models.PredicateSet{Values: []string{" "}}},
		{"pair without key", "sample", models.PredicateSet{KeyValues: []models.KeyValue{{Value: "java"}}}},
		{"pair without value", "sample", models.PredicateSet{KeyValues: []models.KeyValue{{Key: "technology"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := predicate.Compile(tt.ds, tt.p)
			if !errors.Is(err, models.ErrInvalidPredicate) {
				t.Fatalf("expected ErrInvalidPredicate, got %v", err)
			}
		})
	}
}

func TestCompileEndpoint(t *testing.T) {
	c := memengine.New().Open("edge", mapping)
	ctx := context.Background()

	for _, d := range []engine.Document{
		{ID: "e01", Fields: map[string]any{"datasource": "sample", "label": "knows", "sid": "v01", "tid": "v02"}},
		{ID: "e02", Fields: map[string]any{"datasource": "sample", "label": "likes", "sid": "v03", "tid": "v01"}},
		{ID: "e03", Fields: map[string]any{"datasource": "other", "label": "knows", "sid": "v01", "tid": "v09"}},
	} {
		if err := c.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s): %v", d.ID, err)
		}
	}

	tests := []struct {
		name string
		dir  models.Direction
		p    models.PredicateSet
		want []string
	}{
		{"out", models.DirectionOut, models.PredicateSet{}, []string{"e01"}},
		{"in", models.DirectionIn, models.PredicateSet{}, []string{"e02"}},
		{"both", models.DirectionBoth, models.PredicateSet{}, []string{"e01", "e02"}},
		{"both with label", models.DirectionBoth, models.PredicateSet{Labels: []string{"likes"}}, []string{"e02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := predicate.CompileEndpoint("sample", "v01", tt.dir, tt.p)
			if err != nil {
				t.Fatalf("CompileEndpoint: %v", err)
			}
			docs, err := c.Search(ctx, q, 10)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			got := make([]string, len(docs))
			for i, d := range docs {
				got[i] = d.ID
			}
			if !sameIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := predicate.CompileEndpoint("sample", "", models.DirectionOut, models.PredicateSet{}); !errors.Is(err, models.ErrInvalidPredicate) {
		t.Errorf("expected ErrInvalidPredicate for empty vertex id, got %v", err)
	}
}

func TestCompileIDs(t *testing.T) {
	c := seeded(t)

	q, err := predicate.CompileIDs("sample", []string{"v03", "x01", "nope"})
	if err != nil {
		t.Fatalf("CompileIDs: %v", err)
	}

	docs, err := c.Search(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "v03" {
		t.Errorf("got %v, want only v03", docs)
	}
}
