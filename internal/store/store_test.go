package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/engine/memengine"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/store"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

type fixture struct {
	eng      *memengine.Engine
	vertices *store.VertexStore
	edges    *store.EdgeStore
}

func newFixture() *fixture {
	eng := memengine.New()
	base := store.Base{Engine: eng, Log: testLogger()}

	return &fixture{
		eng:      eng,
		vertices: store.NewVertexStore(base, ""),
		edges:    store.NewEdgeStore(base, ""),
	}
}

func vertex(id, ds, label string, kv ...string) models.Vertex {
	v := models.Vertex{Element: models.Element{ID: id, Datasource: ds, Label: label, Properties: models.Properties{}}}
	for i := 0; i+1 < len(kv); i += 2 {
		v.SetProperty(models.Property{Key: kv[i], Type: "string", Value: kv[i+1]})
	}
	return v
}

func edge(id, ds, label, src, dst string) models.Edge {
	return models.Edge{
		Element:  models.Element{ID: id, Datasource: ds, Label: label, Properties: models.Properties{}},
		SourceID: src,
		TargetID: dst,
	}
}

// seedSample loads v01..v03 and e01 into datasource "sample".
func seedSample(t *testing.T, f *fixture) {
	t.Helper()

	ctx := context.Background()
	for _, v := range []models.Vertex{
		vertex("v01", "sample", "person", "technology", "java"),
		vertex("v02", "sample", "person", "technology", "typescript"),
		vertex("v03", "sample", "person", "technology", "html5/css"),
	} {
		if _, ok, err := f.vertices.Create(ctx, v); err != nil || !ok {
			t.Fatalf("Create(%s) = %v, %v", v.ID, ok, err)
		}
	}

	if _, ok, err := f.edges.Create(ctx, edge("e01", "sample", "knows", "v01", "v02")); err != nil || !ok {
		t.Fatalf("Create(e01) = %v, %v", ok, err)
	}
}

func vertexIDs(vs []models.Vertex) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.ID
	}
	return out
}

func TestVertexStore_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := vertex("v01", "sample", "person", "technology", "java", "age", "42")
	in.Properties[1].Type = "int"

	created, ok, err := f.vertices.Create(ctx, in)
	if err != nil || !ok {
		t.Fatalf("Create = %v, %v", ok, err)
	}

	got, found := f.vertices.FindByID(ctx, "sample", "v01")
	if !found {
		t.Fatal("FindByID: not found")
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, created)
	}

	age, ok := got.Properties.Value("age")
	if n, isInt := age.Int(); !ok || !isInt || n != 42 {
		t.Errorf("age = %v (ok=%v), want int 42", age, ok)
	}
}

func TestVertexStore_CreateGeneratesID(t *testing.T) {
	f := newFixture()

	v, ok, err := f.vertices.Create(context.Background(), vertex("", "sample", "person"))
	if err != nil || !ok {
		t.Fatalf("Create = %v, %v", ok, err)
	}
	if v.ID == "" {
		t.Error("expected generated id")
	}
}

func TestVertexStore_CreateErrors(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	tests := []struct {
		name string
		v    models.Vertex
		want error
	}{
		{"conflict", vertex("v01", "sample", "person"), models.ErrConflict},
		{"missing datasource", vertex("v09", "", "person"), models.ErrMissingDatasource},
		{"missing label", vertex("v09", "sample", ""), models.ErrMissingLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := f.vertices.Create(ctx, tt.v)
			if ok || !errors.Is(err, tt.want) {
				t.Errorf("Create = %v, %v; want %v", ok, err, tt.want)
			}
		})
	}
}

func TestVertexStore_Update(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	if _, _, err := f.vertices.Update(ctx, vertex("nope", "sample", "person")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("update missing: got %v, want ErrNotFound", err)
	}

	if _, _, err := f.vertices.Update(ctx, vertex("v01", "other", "person")); !errors.Is(err, models.ErrDatasourceMismatch) {
		t.Errorf("update across datasources: got %v, want ErrDatasourceMismatch", err)
	}

	if _, _, err := f.vertices.Update(ctx, vertex("", "sample", "person")); !errors.Is(err, models.ErrMissingID) {
		t.Errorf("update without id: got %v, want ErrMissingID", err)
	}

	_, ok, err := f.vertices.Update(ctx, vertex("v01", "sample", "robot", "model", "x1"))
	if err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}

	got, _ := f.vertices.FindByID(ctx, "sample", "v01")
	if got.Label != "robot" {
		t.Errorf("label = %q, want robot", got.Label)
	}
	if _, has := got.Property("technology"); has {
		t.Error("update should replace properties, technology survived")
	}
	if p, _ := got.Property("model"); p.Value != "x1" {
		t.Errorf("model = %q, want x1", p.Value)
	}
}

func TestVertexStore_Upsert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, created, ok, err := f.vertices.Upsert(ctx, vertex("v01", "sample", "person"))
	if err != nil || !ok || !created {
		t.Fatalf("first Upsert = created %v, ok %v, %v", created, ok, err)
	}

	_, created, ok, err = f.vertices.Upsert(ctx, vertex("v01", "sample", "city"))
	if err != nil || !ok || created {
		t.Fatalf("second Upsert = created %v, ok %v, %v", created, ok, err)
	}

	if _, _, _, err := f.vertices.Upsert(ctx, vertex("v01", "other", "city")); !errors.Is(err, models.ErrDatasourceMismatch) {
		t.Errorf("upsert across datasources: got %v", err)
	}

	got, _ := f.vertices.FindByID(ctx, "sample", "v01")
	if got.Label != "city" {
		t.Errorf("label = %q, want city", got.Label)
	}
}

func TestVertexStore_DeleteIdempotent(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	if !f.vertices.Delete(ctx, "sample", "missing") {
		t.Error("delete of missing id failed")
	}
	if !f.vertices.Delete(ctx, "other", "v01") {
		t.Error("delete scoped elsewhere failed")
	}
	if !f.vertices.Exists(ctx, "sample", "v01") {
		t.Error("delete in another datasource removed v01")
	}

	for range 2 {
		if !f.vertices.Delete(ctx, "sample", "v03") {
			t.Error("delete v03 failed")
		}
	}

	if n := f.vertices.Count(ctx, "sample"); n != 2 {
		t.Errorf("count after delete = %d, want 2", n)
	}
}

func TestVertexStore_Scoping(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	if _, ok, err := f.vertices.Create(ctx, vertex("x01", "other", "person", "technology", "java")); err != nil || !ok {
		t.Fatalf("Create(x01) = %v, %v", ok, err)
	}

	if _, found := f.vertices.FindByID(ctx, "sample", "x01"); found {
		t.Error("x01 visible from sample")
	}
	if n := f.vertices.Count(ctx, "sample"); n != 3 {
		t.Errorf("Count(sample) = %d, want 3", n)
	}
	if n := f.vertices.CountAll(ctx); n != 4 {
		t.Errorf("CountAll = %d, want 4", n)
	}

	got := f.vertices.FindByIDs(ctx, "sample", []string{"v02", "x01", "zz"})
	if ids := vertexIDs(got); !reflect.DeepEqual(ids, []string{"v02"}) {
		t.Errorf("FindByIDs = %v, want [v02]", ids)
	}

	n, err := f.vertices.DeleteByDatasource(ctx, "sample")
	if err != nil || n != 3 {
		t.Errorf("DeleteByDatasource = %d, %v; want 3", n, err)
	}
	if !f.vertices.Exists(ctx, "other", "x01") {
		t.Error("DeleteByDatasource reached another datasource")
	}

	if _, err := f.vertices.DeleteByDatasource(ctx, ""); !errors.Is(err, models.ErrInvalidPredicate) {
		t.Errorf("DeleteByDatasource(\"\") err = %v", err)
	}
}

func TestVertexStore_Query(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	if _, ok, err := f.vertices.Create(ctx, vertex("v04", "sample", "person", "nick", "java", "technology", "java script")); err != nil || !ok {
		t.Fatalf("Create(v04) = %v, %v", ok, err)
	}

	tests := []struct {
		name string
		p    models.PredicateSet
		want []string
	}{
		{
			"label key value upper case",
			models.PredicateSet{Label: "person", KeyValues: []models.KeyValue{{Key: "technology", Value: "JAVA"}}},
			[]string{"v01"},
		},
		{
			"key value case insensitive",
			models.PredicateSet{KeyValues: []models.KeyValue{{Key: "technology", Value: "TypeScript"}}},
			[]string{"v02"},
		},
		{
			"tokenized value is not exact",
			models.PredicateSet{KeyValues: []models.KeyValue{{Key: "technology", Value: "css"}}},
			[]string{},
		},
		{"values any key", models.PredicateSet{Values: []string{"Java"}}, []string{"v01", "v04"}},
		{"partial value keeps raw hits", models.PredicateSet{PartialValue: "java"}, []string{"v01", "v04"}},
		{"empty labels", models.PredicateSet{Labels: []string{}}, []string{"v01", "v02", "v03", "v04"}},
		{"empty keys", models.PredicateSet{Keys: []string{}}, []string{"v01", "v02", "v03", "v04"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.vertices.Query(ctx, "sample", tt.p, 0)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if ids := vertexIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("got %v, want %v", ids, tt.want)
			}
		})
	}

	if _, err := f.vertices.Query(ctx, "", models.PredicateSet{}, 0); !errors.Is(err, models.ErrInvalidPredicate) {
		t.Errorf("Query without datasource: err = %v", err)
	}

	capped, _ := f.vertices.Query(ctx, "sample", models.PredicateSet{}, 2)
	if len(capped) != 2 {
		t.Errorf("size cap: got %d hits, want 2", len(capped))
	}
}

func TestVertexStore_Schema(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	if _, ok, err := f.vertices.Create(ctx, vertex("c01", "sample", "city", "name", "Oslo")); err != nil || !ok {
		t.Fatalf("Create(c01) = %v, %v", ok, err)
	}

	labels, err := f.vertices.Labels(ctx, "sample")
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	if got := models.BucketMap(labels); !reflect.DeepEqual(got, map[string]int64{"city": 1, "person": 3}) {
		t.Errorf("labels = %v", got)
	}

	keys, err := f.vertices.Keys(ctx, "sample", "person")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if got := models.BucketMap(keys); !reflect.DeepEqual(got, map[string]int64{"technology": 3}) {
		t.Errorf("keys = %v", got)
	}

	if _, err := f.vertices.Keys(ctx, "sample", ""); !errors.Is(err, models.ErrInvalidPredicate) {
		t.Errorf("Keys without label: err = %v", err)
	}
}

func TestVertexStore_Degraded(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	f.eng.Open(store.DefaultVertexCollection, store.VertexMapping).SetFailure(errors.New("connection refused"))

	if n := f.vertices.Count(ctx, "sample"); n != -1 {
		t.Errorf("Count = %d, want -1", n)
	}
	if f.vertices.Exists(ctx, "sample", "v01") {
		t.Error("Exists = true on failure")
	}
	if _, found := f.vertices.FindByID(ctx, "sample", "v01"); found {
		t.Error("FindByID found on failure")
	}
	if got := f.vertices.FindByIDs(ctx, "sample", []string{"v01"}); len(got) != 0 {
		t.Errorf("FindByIDs = %v on failure", got)
	}
	got, err := f.vertices.Query(ctx, "sample", models.PredicateSet{Label: "person"}, 0)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Query = %v, %v; want empty, nil", got, err)
	}
	if labels, err := f.vertices.Labels(ctx, "sample"); err != nil || len(labels) != 0 {
		t.Errorf("Labels = %v, %v", labels, err)
	}
	if _, ok, err := f.vertices.Create(ctx, vertex("v09", "sample", "person")); ok || err != nil {
		t.Errorf("Create = %v, %v; want degraded", ok, err)
	}
	if _, ok, err := f.vertices.Update(ctx, vertex("v01", "sample", "person")); ok || err != nil {
		t.Errorf("Update = %v, %v; want degraded", ok, err)
	}
	if f.vertices.Delete(ctx, "sample", "v01") {
		t.Error("Delete = true on failure")
	}
	if n, err := f.vertices.DeleteByDatasource(ctx, "sample"); n != -1 || err != nil {
		t.Errorf("DeleteByDatasource = %d, %v", n, err)
	}

	if _, err := f.vertices.Query(ctx, "", models.PredicateSet{}, 0); !errors.Is(err, models.ErrInvalidPredicate) {
		t.Errorf("invalid predicate must still surface during failure, got %v", err)
	}
}

func TestEdgeStore_Endpoints(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	e02 := edge("e02", "sample", "likes", "v03", "v01")
	e02.SetProperty(models.Property{Key: "since", Type: "int", Value: "2020"})
	if _, ok, err := f.edges.Create(ctx, e02); err != nil || !ok {
		t.Fatalf("Create(e02) = %v, %v", ok, err)
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
		{"labels", models.DirectionBoth, models.PredicateSet{Labels: []string{"knows"}}, []string{"e01"}},
		{"key value", models.DirectionBoth, models.PredicateSet{KeyValues: []models.KeyValue{{Key: "since", Value: "2020"}}}, []string{"e02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.edges.FindByEndpoint(ctx, "sample", "v01", tt.dir, tt.p, 0)
			if err != nil {
				t.Fatalf("FindByEndpoint: %v", err)
			}
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("got %v, want %v", ids, tt.want)
			}
		})
	}

	if other, ok := f.edges.OtherVertex(ctx, "sample", "e01", "v01"); !ok || other != "v02" {
		t.Errorf("OtherVertex(e01, v01) = %q, %v", other, ok)
	}
	if _, ok := f.edges.OtherVertex(ctx, "sample", "e01", "v03"); ok {
		t.Error("OtherVertex for a non-endpoint should be absent")
	}

	n, err := f.edges.DeleteByEndpoint(ctx, "sample", "v01")
	if err != nil || n != 2 {
		t.Errorf("DeleteByEndpoint = %d, %v; want 2", n, err)
	}
	if c := f.edges.Count(ctx, "sample"); c != 0 {
		t.Errorf("edges left = %d", c)
	}
}

func TestEdgeStore_Validation(t *testing.T) {
	f := newFixture()

	_, _, err := f.edges.Create(context.Background(), edge("e01", "sample", "knows", "", "v02"))
	if !errors.Is(err, models.ErrMissingSource) {
		t.Errorf("err = %v, want ErrMissingSource", err)
	}
}

func TestStore_Reset(t *testing.T) {
	f := newFixture()
	seedSample(t, f)
	ctx := context.Background()

	if !f.vertices.Reset(ctx) || !f.edges.Reset(ctx) {
		t.Fatal("Reset failed")
	}
	if n := f.vertices.CountAll(ctx); n != 0 {
		t.Errorf("vertices after reset = %d", n)
	}
	if f.vertices.Collection() != store.DefaultVertexCollection {
		t.Errorf("Collection() = %q", f.vertices.Collection())
	}
}
