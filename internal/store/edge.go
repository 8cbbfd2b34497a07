package store

import (
	"context"

	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

// EdgeStore handles edge CRUD plus endpoint lookups.
type EdgeStore struct {
	*elements[models.Edge]
}

// NewEdgeStore creates an EdgeStore over collection. An empty name uses
// DefaultEdgeCollection.
func NewEdgeStore(base Base, collection string) *EdgeStore {
	if collection == "" {
		collection = DefaultEdgeCollection
	}

	return &EdgeStore{elements: &elements[models.Edge]{
		Base:    base,
		name:    collection,
		mapping: EdgeMapping,
		codec:   edgeCodec{},
	}}
}

// FindByEndpoint returns edges of datasource touching vertexID in dir that
// satisfy p, reconciled like Query.
func (s *EdgeStore) FindByEndpoint(
	ctx context.Context,
	datasource, vertexID string,
	dir models.Direction,
	p models.PredicateSet,
	size int,
) ([]models.Edge, error) {
	q, err := predicate.CompileEndpoint(datasource, vertexID, dir, p)
	if err != nil {
		return nil, err
	}

	return s.reconcile(s.search(ctx, "find_by_endpoint", q, s.clampSize(size)), p), nil
}

// DeleteByEndpoint removes every edge of datasource touching vertexID and
// returns how many were removed, or -1 when the engine failed.
func (s *EdgeStore) DeleteByEndpoint(ctx context.Context, datasource, vertexID string) (int64, error) {
	q, err := predicate.CompileEndpoint(datasource, vertexID, models.DirectionBoth, models.PredicateSet{})
	if err != nil {
		return 0, err
	}

	return s.deleteByQuery(ctx, "delete_by_endpoint", q), nil
}

// OtherVertex returns the endpoint of edge id opposite vertexID. It is
// absent when the edge is missing or vertexID is not one of its endpoints.
func (s *EdgeStore) OtherVertex(ctx context.Context, datasource, id, vertexID string) (string, bool) {
	e, ok := s.FindByID(ctx, datasource, id)
	if !ok {
		return "", false
	}

	other := e.Other(vertexID)

	return other, other != ""
}
