package service

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/domain"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

// Compile-time check: *GraphService must satisfy domain.GraphService.
var _ domain.GraphService = (*GraphService)(nil)

// GraphService composes single-hop traversals from an edge lookup followed
// by a batch vertex lookup. An engine failure in either stage yields an
// empty result.
type GraphService struct {
	vertices VertexStore
	edges    EdgeStore
	log      *logrus.Logger
	maxSize  int
}

// NewGraphService creates a GraphService. maxSize caps the edge stage; zero
// means models.DefaultResultSize.
func NewGraphService(vertices VertexStore, edges EdgeStore, log *logrus.Logger, maxSize int) *GraphService {
	if maxSize <= 0 {
		maxSize = models.DefaultResultSize
	}

	return &GraphService{vertices: vertices, edges: edges, log: log, maxSize: maxSize}
}

// Neighbors returns the distinct vertices across edges touching vertexID in
// dir. When labels is non-empty only vertices with one of those labels are kept.
func (s *GraphService) Neighbors(
	ctx context.Context,
	datasource, vertexID string,
	dir models.Direction,
	labels []string,
) ([]models.Vertex, error) {
	s.log.WithFields(logrus.Fields{
		"datasource": datasource,
		"vertex_id":  vertexID,
		"direction":  dir,
		"labels":     labels,
	}).Debug("graph.neighbors")

	edges, err := s.edges.FindByEndpoint(ctx, datasource, vertexID, dir, models.PredicateSet{}, s.maxSize)
	if err != nil {
		return nil, err
	}

	ids := farEndpoints(edges, vertexID, dir)
	if len(ids) == 0 {
		return []models.Vertex{}, nil
	}

	found := s.vertices.FindByIDs(ctx, datasource, ids)
	if len(labels) == 0 {
		return found, nil
	}

	out := make([]models.Vertex, 0, len(found))
	for _, v := range found {
		if slices.Contains(labels, v.Label) {
			out = append(out, v)
		}
	}

	return out, nil
}

// farEndpoints returns the distinct ids across edges opposite vertexID, in
// first-seen order.
func farEndpoints(edges []models.Edge, vertexID string, dir models.Direction) []string {
	seen := make(map[string]struct{}, len(edges))
	ids := make([]string, 0, len(edges))

	for _, e := range edges {
		var other string

		switch dir {
		case models.DirectionOut:
			other = e.TargetID
		case models.DirectionIn:
			other = e.SourceID
		default:
			other = e.Other(vertexID)
		}

		if other == "" {
			continue
		}
		if _, dup := seen[other]; dup {
			continue
		}

		seen[other] = struct{}{}
		ids = append(ids, other)
	}

	return ids
}

// EdgesOfVertex returns edges touching vertexID in dir, restricted to labels
// when given.
func (s *GraphService) EdgesOfVertex(
	ctx context.Context,
	datasource, vertexID string,
	dir models.Direction,
	labels []string,
) ([]models.Edge, error) {
	s.log.WithFields(logrus.Fields{
		"datasource": datasource,
		"vertex_id":  vertexID,
		"direction":  dir,
		"labels":     labels,
	}).Debug("graph.edges")

	return s.edges.FindByEndpoint(ctx, datasource, vertexID, dir, models.PredicateSet{Labels: labels}, s.maxSize)
}

// EdgesOfVertexByKeyValue fetches the edges touching vertexID in dir once and
// keeps, in memory, those with the label (when given) and an exact key/value
// property. An empty value only requires key to be present.
func (s *GraphService) EdgesOfVertexByKeyValue(
	ctx context.Context,
	datasource, vertexID string,
	dir models.Direction,
	label, key, value string,
) ([]models.Edge, error) {
	s.log.WithFields(logrus.Fields{
		"datasource": datasource,
		"vertex_id":  vertexID,
		"direction":  dir,
		"label":      label,
		"key":        key,
	}).Debug("graph.edges_by_key_value")

	if key == "" {
		return nil, models.InvalidPredicate("key", "is required")
	}

	edges, err := s.edges.FindByEndpoint(ctx, datasource, vertexID, dir, models.PredicateSet{}, s.maxSize)
	if err != nil {
		return nil, err
	}

	want := models.PredicateSet{}.WithKeyValue(key, value)

	out := make([]models.Edge, 0, len(edges))
	for _, e := range edges {
		if label != "" && e.Label != label {
			continue
		}
		if value == "" {
			if _, ok := e.Properties.Get(key); ok {
				out = append(out, e)
			}

			continue
		}
		if predicate.Matches(e.Properties, want) {
			out = append(out, e)
		}
	}

	return out, nil
}

// OtherVertex resolves the endpoint of edgeID opposite vertexID.
func (s *GraphService) OtherVertex(ctx context.Context, datasource, edgeID, vertexID string) (models.Vertex, bool) {
	other, ok := s.edges.OtherVertex(ctx, datasource, edgeID, vertexID)
	if !ok {
		return models.Vertex{}, false
	}

	return s.vertices.FindByID(ctx, datasource, other)
}
