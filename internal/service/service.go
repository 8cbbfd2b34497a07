// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/docgraph/docgraph/internal/models"
)

// ElementStore is the data-access interface shared by vertex and edge services.
type ElementStore[T any] interface {
	Collection() string
	Create(ctx context.Context, el T) (T, bool, error)
	Update(ctx context.Context, el T) (T, bool, error)
	Upsert(ctx context.Context, el T) (out T, created, ok bool, err error)
	Delete(ctx context.Context, datasource, id string) bool
	DeleteByDatasource(ctx context.Context, datasource string) (int64, error)
	FindByID(ctx context.Context, datasource, id string) (T, bool)
	FindByIDs(ctx context.Context, datasource string, ids []string) []T
	Count(ctx context.Context, datasource string) int64
	CountAll(ctx context.Context) int64
	Query(ctx context.Context, datasource string, p models.PredicateSet, size int) ([]T, error)
	Labels(ctx context.Context, datasource string) ([]models.Bucket, error)
	Keys(ctx context.Context, datasource, label string) ([]models.Bucket, error)
	Reset(ctx context.Context) bool
}

// VertexStore is the data-access interface VertexService depends on.
type VertexStore = ElementStore[models.Vertex]

// EdgeStore is the data-access interface EdgeService and GraphService depend on.
type EdgeStore interface {
	ElementStore[models.Edge]
	FindByEndpoint(ctx context.Context, datasource, vertexID string, dir models.Direction, p models.PredicateSet, size int) ([]models.Edge, error)
	DeleteByEndpoint(ctx context.Context, datasource, vertexID string) (int64, error)
	OtherVertex(ctx context.Context, datasource, id, vertexID string) (string, bool)
}

// Pinger reports whether the document engine answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Publisher receives change events after successful writes.
type Publisher interface {
	Publish(ev models.ChangeEvent)
}

// NopPublisher discards events.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(models.ChangeEvent) {}

func orNop(p Publisher) Publisher {
	if p == nil {
		return NopPublisher{}
	}

	return p
}
