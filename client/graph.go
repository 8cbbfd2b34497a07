package client

import (
	"context"
	"net/url"
	"strings"
)

// GraphService handles single-hop traversals.
type GraphService struct {
	c *Client
}

func traversalParams(dir Direction, labels []string) url.Values {
	params := url.Values{}
	if dir != "" {
		params.Set("dir", string(dir))
	}
	if len(labels) > 0 {
		params.Set("labels", strings.Join(labels, ","))
	}
	return params
}

// Neighbors returns the distinct vertices one edge away from id in dir,
// optionally restricted to vertices with one of labels.
func (s *GraphService) Neighbors(ctx context.Context, datasource, id string, dir Direction, labels ...string) ([]Vertex, error) {
	var out []Vertex
	if err := s.c.get(ctx, path(datasource, "v", id, "neighbors"), traversalParams(dir, labels), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Edges returns the edges touching id in dir, optionally restricted to labels.
func (s *GraphService) Edges(ctx context.Context, datasource, id string, dir Direction, labels ...string) ([]Edge, error) {
	var out []Edge
	if err := s.c.get(ctx, path(datasource, "v", id, "edges"), traversalParams(dir, labels), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EdgesByKeyValue returns the edges touching id in dir that carry label (when
// non-empty) and the exact property key=value.
func (s *GraphService) EdgesByKeyValue(ctx context.Context, datasource, id string, dir Direction, label, key, value string) ([]Edge, error) {
	params := traversalParams(dir, nil)
	if label != "" {
		params.Set("label", label)
	}
	params.Set("key", key)
	params.Set("value", value)

	var out []Edge
	if err := s.c.get(ctx, path(datasource, "v", id, "edges"), params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Other returns the endpoint of edge opposite vertex.
func (s *GraphService) Other(ctx context.Context, datasource, edge, vertex string) (*Vertex, error) {
	var out Vertex
	if err := s.c.get(ctx, path(datasource, "e", edge, "other", vertex), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
