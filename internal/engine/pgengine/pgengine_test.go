package pgengine_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/db"
	"github.com/docgraph/docgraph/internal/db/migrations"
	"github.com/docgraph/docgraph/internal/dbpool"
	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/engine/pgengine"
)

var testMapping = engine.Mapping{
	Keywords: []string{"datasource", "label", "properties.key"},
	Texts:    []string{"properties.value"},
	Nested:   []string{"properties"},
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

func props(kv ...string) []map[string]any {
	out := make([]map[string]any, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, map[string]any{"key": kv[i], "value": kv[i+1]})
	}
	return out
}

// newEngine connects to TEST_DATABASE_URL, skipping when it is unset.
func newEngine(t *testing.T) *pgengine.Engine {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := dbpool.NewPool(ctx, url, 4)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	if err := db.RunMigrations(ctx, pool, testLogger(), migrations.FS); err != nil {
		pool.Close()
		t.Fatalf("RunMigrations: %v", err)
	}

	e := pgengine.New(pool, testLogger())
	t.Cleanup(func() { e.Close() }) //nolint:errcheck // test teardown.

	return e
}

func newSeeded(t *testing.T) (*pgengine.Engine, engine.Collection, string) {
	t.Helper()

	e := newEngine(t)
	ctx := context.Background()
	name := "test_" + uuid.NewString()

	c, err := e.Collection(ctx, name, testMapping)
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	t.Cleanup(func() { e.Reset(context.Background(), name, testMapping) }) //nolint:errcheck // test teardown.

	docs := []engine.Document{
		{ID: "v01", Fields: map[string]any{"datasource": "sample", "label": "person", "properties": props("technology", "java")}},
		{ID: "v02", Fields: map[string]any{"datasource": "sample", "label": "person", "properties": props("technology", "TypeScript")}},
		{ID: "v03", Fields: map[string]any{"datasource": "sample", "label": "person", "properties": props("technology", "html5/css", "nick", "java")}},
		{ID: "e01", Fields: map[string]any{"datasource": "other", "label": "knows"}},
	}
	for _, d := range docs {
		if err := c.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s): %v", d.ID, err)
		}
	}

	return e, c, name
}

func search(t *testing.T, c engine.Collection, q engine.Query) []string {
	t.Helper()

	docs, err := c.Search(context.Background(), q, 100)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func equal(a, b []string) bool {
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

func ds(name string) engine.Query { return engine.Term{Field: "datasource", Value: name} }

func TestCollection_CRUD(t *testing.T) {
	_, c, _ := newSeeded(t)
	ctx := context.Background()

	if err := c.Create(ctx, engine.Document{ID: "v01", Fields: map[string]any{}}); !errors.Is(err, engine.ErrConflict) {
		t.Fatalf("Create duplicate: expected ErrConflict, got %v", err)
	}

	if err := c.Update(ctx, "missing", map[string]any{"label": "x"}); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("Update missing: expected ErrNotFound, got %v", err)
	}

	if err := c.Update(ctx, "v01", map[string]any{"label": "city"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	d, err := c.Get(ctx, "v01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.String("label") != "city" || d.String("datasource") != "sample" {
		t.Errorf("merged fields = %v", d.Fields)
	}

	if err := c.Delete(ctx, "v01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "v01"); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if _, err := c.Get(ctx, "v01"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("Get deleted: expected ErrNotFound, got %v", err)
	}

	ok, err := c.Exists(ctx, "v02")
	if err != nil || !ok {
		t.Errorf("Exists(v02) = %v, %v", ok, err)
	}
}

func TestCollection_Search(t *testing.T) {
	_, c, _ := newSeeded(t)

	nested := func(q engine.Query) engine.Query { return engine.Nested{Path: "properties", Query: q} }

	tests := []struct {
		name  string
		query engine.Query
		want  []string
	}{
		{"datasource", ds("sample"), []string{"v01", "v02", "v03"}},
		{"label", engine.Bool{Must: []engine.Query{ds("sample"), engine.Term{Field: "label", Value: "knows"}}}, []string{}},
		{"phrase case insensitive", nested(engine.Phrase{Field: "properties.value", Phrase: "typescript"}), []string{"v02"}},
		{"phrase across punctuation", nested(engine.Phrase{Field: "properties.value", Phrase: "html5 css"}), []string{"v03"}},
		{"wildcard", nested(engine.Wildcard{Field: "properties.value", Pattern: "*script*"}), []string{"v02"}},
		{
			"nested per object",
			nested(engine.Bool{Must: []engine.Query{
				engine.Term{Field: "properties.key", Value: "technology"},
				engine.Phrase{Field: "properties.value", Phrase: "java"},
			}}),
			[]string{"v01"},
		},
		{"ids", engine.IDs{Values: []string{"v03", "e01"}}, []string{"e01", "v03"}},
		{"terms", engine.Terms{Field: "datasource", Values: []string{"other"}}, []string{"e01"}},
		{"must not", engine.Bool{Must: []engine.Query{ds("sample")}, MustNot: []engine.Query{nested(engine.Term{Field: "properties.key", Value: "nick"})}}, []string{"v01", "v02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search(t, c, tt.query); !equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollection_CountAggDelete(t *testing.T) {
	_, c, _ := newSeeded(t)
	ctx := context.Background()

	n, err := c.Count(ctx, ds("sample"))
	if err != nil || n != 3 {
		t.Fatalf("Count = %d, %v; want 3", n, err)
	}

	buckets, err := c.TermsAgg(ctx, ds("sample"), "properties.key", 10)
	if err != nil {
		t.Fatalf("TermsAgg: %v", err)
	}
	want := []engine.Bucket{{Term: "nick", Count: 1}, {Term: "technology", Count: 3}}
	if len(buckets) != len(want) || buckets[0] != want[0] || buckets[1] != want[1] {
		t.Errorf("buckets = %v, want %v", buckets, want)
	}

	top, err := c.TermsAgg(ctx, ds("sample"), "properties.key", 1)
	if err != nil {
		t.Fatalf("TermsAgg(size 1): %v", err)
	}
	if len(top) != 1 || top[0].Term != "technology" || top[0].Count != 3 {
		t.Errorf("top bucket = %+v, want technology:3", top)
	}

	deleted, err := c.DeleteByQuery(ctx, ds("sample"))
	if err != nil || deleted != 3 {
		t.Fatalf("DeleteByQuery = %d, %v; want 3", deleted, err)
	}
	if n, _ := c.Count(ctx, nil); n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}

func TestEngine_Reset(t *testing.T) {
	e, _, name := newSeeded(t)
	ctx := context.Background()

	c, err := e.Reset(ctx, name, testMapping)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n, _ := c.Count(ctx, nil); n != 0 {
		t.Errorf("count after reset = %d, want 0", n)
	}
	if err := e.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
