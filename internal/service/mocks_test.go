package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/engine/memengine"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/service"
	"github.com/docgraph/docgraph/internal/store"
)

// mockPublisher records published events.
type mockPublisher struct {
	mu     sync.Mutex
	events []models.ChangeEvent
}

func (m *mockPublisher) Publish(ev models.ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.events))
	for i, ev := range m.events {
		out[i] = ev.Type
	}
	return out
}

// mockPinger returns err from Ping.
type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

type env struct {
	eng      *memengine.Engine
	vertices *store.VertexStore
	edges    *store.EdgeStore
	pub      *mockPublisher

	vertexSvc *service.VertexService
	edgeSvc   *service.EdgeService
	graph     *service.GraphService
	ds        *service.DatasourceService
}

func newEnv() *env {
	eng := memengine.New()
	base := store.Base{Engine: eng, Log: testLogger()}
	vs := store.NewVertexStore(base, "")
	es := store.NewEdgeStore(base, "")
	pub := &mockPublisher{}

	return &env{
		eng:       eng,
		vertices:  vs,
		edges:     es,
		pub:       pub,
		vertexSvc: service.NewVertexService(vs, es, pub, testLogger()),
		edgeSvc:   service.NewEdgeService(es, pub, testLogger()),
		graph:     service.NewGraphService(vs, es, testLogger(), 0),
		ds:        service.NewDatasourceService(vs, es, mockPinger{}, pub, testLogger()),
	}
}

func (e *env) failVertices() {
	e.eng.Open(store.DefaultVertexCollection, store.VertexMapping).SetFailure(errors.New("vertex engine down"))
}

func (e *env) failEdges() {
	e.eng.Open(store.DefaultEdgeCollection, store.EdgeMapping).SetFailure(errors.New("edge engine down"))
}

func vertex(id, ds, label string, kv ...string) models.Vertex {
	v := models.Vertex{Element: models.Element{ID: id, Datasource: ds, Label: label}}
	for i := 0; i+1 < len(kv); i += 2 {
		v.SetProperty(models.Property{Key: kv[i], Type: "string", Value: kv[i+1]})
	}
	return v
}

func edge(id, ds, label, src, dst string, kv ...string) models.Edge {
	e := models.Edge{Element: models.Element{ID: id, Datasource: ds, Label: label}, SourceID: src, TargetID: dst}
	for i := 0; i+1 < len(kv); i += 2 {
		e.SetProperty(models.Property{Key: kv[i], Type: "string", Value: kv[i+1]})
	}
	return e
}

// seedSample loads the sample datasource: three people and one knows edge.
func (e *env) seedSample(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	for _, v := range []models.Vertex{
		vertex("v01", "sample", "person", "technology", "java"),
		vertex("v02", "sample", "person", "technology", "typescript"),
		vertex("v03", "sample", "person", "technology", "html5/css"),
	} {
		if _, ok, err := e.vertexSvc.CreateVertex(ctx, v); err != nil || !ok {
			t.Fatalf("CreateVertex(%s) = %v, %v", v.ID, ok, err)
		}
	}

	if _, ok, err := e.edgeSvc.CreateEdge(ctx, edge("e01", "sample", "knows", "v01", "v02")); err != nil || !ok {
		t.Fatalf("CreateEdge(e01) = %v, %v", ok, err)
	}
}

func ids[T interface{ models.Vertex | models.Edge }](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		switch v := any(it).(type) {
		case models.Vertex:
			out[i] = v.ID
		case models.Edge:
			out[i] = v.ID
		}
	}
	return out
}
