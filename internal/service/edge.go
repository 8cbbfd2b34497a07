package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/domain"
	"github.com/docgraph/docgraph/internal/models"
)

// Compile-time check: *EdgeService must satisfy domain.EdgeService.
var _ domain.EdgeService = (*EdgeService)(nil)

// EdgeService wraps EdgeStore with logging and change events.
type EdgeService struct {
	store EdgeStore
	pub   Publisher
	log   *logrus.Logger
}

// NewEdgeService creates an EdgeService.
func NewEdgeService(store EdgeStore, pub Publisher, log *logrus.Logger) *EdgeService {
	return &EdgeService{store: store, pub: orNop(pub), log: log}
}

// CreateEdge stores e. Endpoints are not checked for existence.
func (s *EdgeService) CreateEdge(ctx context.Context, e models.Edge) (models.Edge, bool, error) {
	out, ok, err := s.store.Create(ctx, e)
	if err == nil && ok {
		s.pub.Publish(models.ChangeEvent{Type: models.EventEdgeCreated, Datasource: out.Datasource, ID: out.ID})
	}

	return out, ok, err
}

// UpdateEdge replaces an existing edge; a missing id is models.ErrNotFound.
func (s *EdgeService) UpdateEdge(ctx context.Context, e models.Edge) (models.Edge, bool, error) {
	out, ok, err := s.store.Update(ctx, e)
	if err == nil && ok {
		s.pub.Publish(models.ChangeEvent{Type: models.EventEdgeUpdated, Datasource: out.Datasource, ID: out.ID})
	}

	return out, ok, err
}

// UpsertEdge creates e or replaces the edge with its id.
func (s *EdgeService) UpsertEdge(ctx context.Context, e models.Edge) (models.Edge, bool, bool, error) {
	out, created, ok, err := s.store.Upsert(ctx, e)
	if err == nil && ok {
		typ := models.EventEdgeUpdated
		if created {
			typ = models.EventEdgeCreated
		}
		s.pub.Publish(models.ChangeEvent{Type: typ, Datasource: out.Datasource, ID: out.ID})
	}

	return out, created, ok, err
}

// GetEdge returns the edge with id in datasource.
func (s *EdgeService) GetEdge(ctx context.Context, datasource, id string) (models.Edge, bool) {
	return s.store.FindByID(ctx, datasource, id)
}

// DeleteEdge removes an edge. Missing ids succeed.
func (s *EdgeService) DeleteEdge(ctx context.Context, datasource, id string) bool {
	if !s.store.Delete(ctx, datasource, id) {
		return false
	}

	s.pub.Publish(models.ChangeEvent{Type: models.EventEdgeDeleted, Datasource: datasource, ID: id})

	return true
}

// QueryEdges runs a predicate query over the edges of datasource.
func (s *EdgeService) QueryEdges(ctx context.Context, datasource string, p models.PredicateSet, size int) ([]models.Edge, error) {
	s.log.WithFields(logrus.Fields{
		"datasource": datasource,
		"predicate":  p,
		"size":       size,
	}).Debug("edge.query")

	return s.store.Query(ctx, datasource, p, size)
}
