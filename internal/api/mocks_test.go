package api_test

import (
	"context"
	"sync"

	"github.com/docgraph/docgraph/internal/models"
)

// calls is a call log shared by the mocks.
type calls struct {
	mu  sync.Mutex
	log []string
}

func (c *calls) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, name)
}

func (c *calls) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

// mockVertexService implements api.VertexService for testing.
type mockVertexService struct {
	calls
	createFn func(ctx context.Context, v models.Vertex) (models.Vertex, bool, error)
	updateFn func(ctx context.Context, v models.Vertex) (models.Vertex, bool, error)
	upsertFn func(ctx context.Context, v models.Vertex) (models.Vertex, bool, bool, error)
	getFn    func(ctx context.Context, ds, id string) (models.Vertex, bool)
	deleteFn func(ctx context.Context, ds, id string, cascade bool) (int64, bool)
	queryFn  func(ctx context.Context, ds string, p models.PredicateSet, size int) ([]models.Vertex, error)
}

func (m *mockVertexService) CreateVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, error) {
	m.record("CreateVertex")
	return m.createFn(ctx, v)
}

func (m *mockVertexService) UpdateVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, error) {
	m.record("UpdateVertex")
	return m.updateFn(ctx, v)
}

func (m *mockVertexService) UpsertVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, bool, error) {
	m.record("UpsertVertex")
	return m.upsertFn(ctx, v)
}

func (m *mockVertexService) GetVertex(ctx context.Context, ds, id string) (models.Vertex, bool) {
	m.record("GetVertex")
	return m.getFn(ctx, ds, id)
}

func (m *mockVertexService) DeleteVertex(ctx context.Context, ds, id string, cascade bool) (int64, bool) {
	m.record("DeleteVertex")
	return m.deleteFn(ctx, ds, id, cascade)
}

func (m *mockVertexService) QueryVertices(ctx context.Context, ds string, p models.PredicateSet, size int) ([]models.Vertex, error) {
	m.record("QueryVertices")
	return m.queryFn(ctx, ds, p, size)
}

// mockEdgeService implements api.EdgeService for testing.
type mockEdgeService struct {
	calls
	createFn func(ctx context.Context, e models.Edge) (models.Edge, bool, error)
	updateFn func(ctx context.Context, e models.Edge) (models.Edge, bool, error)
	upsertFn func(ctx context.Context, e models.Edge) (models.Edge, bool, bool, error)
	getFn    func(ctx context.Context, ds, id string) (models.Edge, bool)
	deleteFn func(ctx context.Context, ds, id string) bool
	queryFn  func(ctx context.Context, ds string, p models.PredicateSet, size int) ([]models.Edge, error)
}

func (m *mockEdgeService) CreateEdge(ctx context.Context, e models.Edge) (models.Edge, bool, error) {
	m.record("CreateEdge")
	return m.createFn(ctx, e)
}

func (m *mockEdgeService) UpdateEdge(ctx context.Context, e models.Edge) (models.Edge, bool, error) {
	m.record("UpdateEdge")
	return m.updateFn(ctx, e)
}

func (m *mockEdgeService) UpsertEdge(ctx context.Context, e models.Edge) (models.Edge, bool, bool, error) {
	m.record("UpsertEdge")
	return m.upsertFn(ctx, e)
}

func (m *mockEdgeService) GetEdge(ctx context.Context, ds, id string) (models.Edge, bool) {
	m.record("GetEdge")
	return m.getFn(ctx, ds, id)
}

func (m *mockEdgeService) DeleteEdge(ctx context.Context, ds, id string) bool {
	m.record("DeleteEdge")
	return m.deleteFn(ctx, ds, id)
}

func (m *mockEdgeService) QueryEdges(ctx context.Context, ds string, p models.PredicateSet, size int) ([]models.Edge, error) {
	m.record("QueryEdges")
	return m.queryFn(ctx, ds, p, size)
}

// mockGraphService implements api.GraphService for testing.
type mockGraphService struct {
	calls
	neighborsFn func(ctx context.Context, ds, id string, dir models.Direction, labels []string) ([]models.Vertex, error)
	edgesFn     func(ctx context.Context, ds, id string, dir models.Direction, labels []string) ([]models.Edge, error)
	edgesKVFn   func(ctx context.Context, ds, id string, dir models.Direction, label, key, value string) ([]models.Edge, error)
	otherFn     func(ctx context.Context, ds, eid, vid string) (models.Vertex, bool)
}

func (m *mockGraphService) Neighbors(ctx context.Context, ds, id string, dir models.Direction, labels []string) ([]models.Vertex, error) {
	m.record("Neighbors")
	return m.neighborsFn(ctx, ds, id, dir, labels)
}

func (m *mockGraphService) EdgesOfVertex(ctx context.Context, ds, id string, dir models.Direction, labels []string) ([]models.Edge, error) {
	m.record("EdgesOfVertex")
	return m.edgesFn(ctx, ds, id, dir, labels)
}

func (m *mockGraphService) EdgesOfVertexByKeyValue(
	ctx context.Context, ds, id string, dir models.Direction, label, key, value string,
) ([]models.Edge, error) {
	m.record("EdgesOfVertexByKeyValue")
	return m.edgesKVFn(ctx, ds, id, dir, label, key, value)
}

func (m *mockGraphService) OtherVertex(ctx context.Context, ds, eid, vid string) (models.Vertex, bool) {
	m.record("OtherVertex")
	return m.otherFn(ctx, ds, eid, vid)
}

// mockDatasourceService implements api.DatasourceService for testing.
type mockDatasourceService struct {
	calls
	countsFn     func(ctx context.Context, ds string) (models.Counts, error)
	totalFn      func(ctx context.Context) models.Counts
	labelsFn     func(ctx context.Context, ds string) (models.LabelCounts, error)
	vertexKeysFn func(ctx context.Context, ds, label string) ([]models.Bucket, error)
	edgeKeysFn   func(ctx context.Context, ds, label string) ([]models.Bucket, error)
	removeFn     func(ctx context.Context, ds string) (models.Counts, error)
	resetFn      func(ctx context.Context) bool
	readyFn      func(ctx context.Context) error
}

func (m *mockDatasourceService) Counts(ctx context.Context, ds string) (models.Counts, error) {
	m.record("Counts")
	return m.countsFn(ctx, ds)
}

func (m *mockDatasourceService) TotalCounts(ctx context.Context) models.Counts {
	m.record("TotalCounts")
	return m.totalFn(ctx)
}

func (m *mockDatasourceService) Labels(ctx context.Context, ds string) (models.LabelCounts, error) {
	m.record("Labels")
	return m.labelsFn(ctx, ds)
}

func (m *mockDatasourceService) VertexKeys(ctx context.Context, ds, label string) ([]models.Bucket, error) {
	m.record("VertexKeys")
	return m.vertexKeysFn(ctx, ds, label)
}

func (m *mockDatasourceService) EdgeKeys(ctx context.Context, ds, label string) ([]models.Bucket, error) {
	m.record("EdgeKeys")
	return m.edgeKeysFn(ctx, ds, label)
}

func (m *mockDatasourceService) Remove(ctx context.Context, ds string) (models.Counts, error) {
	m.record("Remove")
	return m.removeFn(ctx, ds)
}

func (m *mockDatasourceService) Reset(ctx context.Context) bool {
	m.record("Reset")
	return m.resetFn(ctx)
}

func (m *mockDatasourceService) Ready(ctx context.Context) error {
	m.record("Ready")
	return m.readyFn(ctx)
}
