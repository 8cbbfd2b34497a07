// Package domain defines the canonical service interfaces shared by the REST
// layer and its tests. Consumers should depend on these interfaces rather
// than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/docgraph/docgraph/internal/models"
)

// Write operations return ok=false with a nil error when the document engine
// could not be reached. Errors mean the request itself was rejected.

// VertexService defines all vertex operations.
type VertexService interface {
	CreateVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, error)
	UpdateVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, error)
	UpsertVertex(ctx context.Context, v models.Vertex) (out models.Vertex, created, ok bool, err error)
	GetVertex(ctx context.Context, datasource, id string) (models.Vertex, bool)
	DeleteVertex(ctx context.Context, datasource, id string, cascade bool) (edgesRemoved int64, ok bool)
	QueryVertices(ctx context.Context, datasource string, p models.PredicateSet, size int) ([]models.Vertex, error)
}

// EdgeService defines all edge operations.
type EdgeService interface {
	CreateEdge(ctx context.Context, e models.Edge) (models.Edge, bool, error)
	UpdateEdge(ctx context.Context, e models.Edge) (models.Edge, bool, error)
	UpsertEdge(ctx context.Context, e models.Edge) (out models.Edge, created, ok bool, err error)
	GetEdge(ctx context.Context, datasource, id string) (models.Edge, bool)
	DeleteEdge(ctx context.Context, datasource, id string) bool
	QueryEdges(ctx context.Context, datasource string, p models.PredicateSet, size int) ([]models.Edge, error)
}

// GraphService defines single-hop traversal operations.
type GraphService interface {
	Neighbors(ctx context.Context, datasource, vertexID string, dir models.Direction, labels []string) ([]models.Vertex, error)
	EdgesOfVertex(ctx context.Context, datasource, vertexID string, dir models.Direction, labels []string) ([]models.Edge, error)
	EdgesOfVertexByKeyValue(ctx context.Context, datasource, vertexID string, dir models.Direction, label, key, value string) ([]models.Edge, error)
	OtherVertex(ctx context.Context, datasource, edgeID, vertexID string) (models.Vertex, bool)
}

// DatasourceService defines datasource-wide summaries and maintenance.
type DatasourceService interface {
	Counts(ctx context.Context, datasource string) (models.Counts, error)
	TotalCounts(ctx context.Context) models.Counts
	Labels(ctx context.Context, datasource string) (models.LabelCounts, error)
	VertexKeys(ctx context.Context, datasource, label string) ([]models.Bucket, error)
	EdgeKeys(ctx context.Context, datasource, label string) ([]models.Bucket, error)
	Remove(ctx context.Context, datasource string) (models.Counts, error)
	Reset(ctx context.Context) bool
	Ready(ctx context.Context) error
}
