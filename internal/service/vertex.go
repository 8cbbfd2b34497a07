package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/domain"
	"github.com/docgraph/docgraph/internal/models"
)

// Compile-time check: *VertexService must satisfy domain.VertexService.
var _ domain.VertexService = (*VertexService)(nil)

// VertexService wraps VertexStore with logging, optional cascade deletes and
// change events.
type VertexService struct {
	store VertexStore
	edges EdgeStore
	pub   Publisher
	log   *logrus.Logger
}

// NewVertexService creates a VertexService. edges is used for cascade deletes.
func NewVertexService(store VertexStore, edges EdgeStore, pub Publisher, log *logrus.Logger) *VertexService {
	return &VertexService{store: store, edges: edges, pub: orNop(pub), log: log}
}

// CreateVertex stores v, generating an id when it has none.
func (s *VertexService) CreateVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, error) {
	out, ok, err := s.store.Create(ctx, v)
	if err == nil && ok {
		s.pub.Publish(models.ChangeEvent{Type: models.EventVertexCreated, Datasource: out.Datasource, ID: out.ID})
	}

	return out, ok, err
}

// UpdateVertex replaces an existing vertex; a missing id is models.ErrNotFound.
func (s *VertexService) UpdateVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, error) {
	out, ok, err := s.store.Update(ctx, v)
	if err == nil && ok {
		s.pub.Publish(models.ChangeEvent{Type: models.EventVertexUpdated, Datasource: out.Datasource, ID: out.ID})
	}

	return out, ok, err
}

// UpsertVertex creates v or replaces the vertex with its id.
func (s *VertexService) UpsertVertex(ctx context.Context, v models.Vertex) (models.Vertex, bool, bool, error) {
	out, created, ok, err := s.store.Upsert(ctx, v)
	if err == nil && ok {
		typ := models.EventVertexUpdated
		if created {
			typ = models.EventVertexCreated
		}
		s.pub.Publish(models.ChangeEvent{Type: typ, Datasource: out.Datasource, ID: out.ID})
	}

	return out, created, ok, err
}

// GetVertex returns the vertex with id in datasource.
func (s *VertexService) GetVertex(ctx context.Context, datasource, id string) (models.Vertex, bool) {
	return s.store.FindByID(ctx, datasource, id)
}

// DeleteVertex removes a vertex. With cascade, edges touching it are removed
// too and their count returned; -1 means the cascade could not run.
func (s *VertexService) DeleteVertex(ctx context.Context, datasource, id string, cascade bool) (int64, bool) {
	s.log.WithFields(logrus.Fields{
		"datasource": datasource,
		"vertex_id":  id,
		"cascade":    cascade,
	}).Debug("vertex.delete")

	if !s.store.Delete(ctx, datasource, id) {
		return 0, false
	}

	s.pub.Publish(models.ChangeEvent{Type: models.EventVertexDeleted, Datasource: datasource, ID: id})

	if !cascade || s.edges == nil {
		return 0, true
	}

	n, err := s.edges.DeleteByEndpoint(ctx, datasource, id)
	if err != nil {
		s.log.WithError(err).Warn("cascade delete rejected")
		return -1, true
	}

	if n > 0 {
		s.pub.Publish(models.ChangeEvent{Type: models.EventEdgeDeleted, Datasource: datasource, Count: n})
	}

	return n, true
}

// QueryVertices runs a predicate query over the vertices of datasource.
func (s *VertexService) QueryVertices(ctx context.Context, datasource string, p models.PredicateSet, size int) ([]models.Vertex, error) {
	s.log.WithFields(logrus.Fields{
		"datasource": datasource,
		"predicate":  p,
		"size":       size,
	}).Debug("vertex.query")

	return s.store.Query(ctx, datasource, p, size)
}
