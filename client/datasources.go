package client

import (
	"context"
	"net/http"
)

// DatasourceService handles datasource summaries and maintenance.
type DatasourceService struct {
	c *Client
}

// Count returns the vertex and edge counts of datasource.
func (s *DatasourceService) Count(ctx context.Context, datasource string) (*Counts, error) {
	var out Counts
	if err := s.c.get(ctx, path(datasource, "count"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CountAll returns counts across every datasource.
func (s *DatasourceService) CountAll(ctx context.Context) (*Counts, error) {
	var out Counts
	if err := s.c.get(ctx, path("count"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Labels returns label frequencies of datasource.
func (s *DatasourceService) Labels(ctx context.Context, datasource string) (*LabelCounts, error) {
	var out LabelCounts
	if err := s.c.get(ctx, path(datasource, "labels"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VertexKeys returns property-key frequencies of vertices labelled label.
func (s *DatasourceService) VertexKeys(ctx context.Context, datasource, label string) (map[string]int64, error) {
	return s.keys(ctx, datasource, "v", label)
}

// EdgeKeys returns property-key frequencies of edges labelled label.
func (s *DatasourceService) EdgeKeys(ctx context.Context, datasource, label string) (map[string]int64, error) {
	return s.keys(ctx, datasource, "e", label)
}

func (s *DatasourceService) keys(ctx context.Context, datasource, kind, label string) (map[string]int64, error) {
	var out map[string]int64
	if err := s.c.get(ctx, path(datasource, "labels", kind, label, "keys"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes every vertex and edge of datasource and returns how many went.
func (s *DatasourceService) Remove(ctx context.Context, datasource string) (*Counts, error) {
	var out Counts
	if err := s.c.del(ctx, path(datasource), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reset drops and recreates both collections.
func (s *DatasourceService) Reset(ctx context.Context) error {
	return s.c.do(ctx, http.MethodPut, path("reset"), nil, nil)
}
