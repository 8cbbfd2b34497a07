package client

import (
	"context"
	"net/url"
)

// VertexService handles vertex operations within a datasource.
type VertexService struct {
	elements[Vertex]
}

// Delete removes a vertex. With cascade the server also removes every edge
// touching it and reports how many.
func (s *VertexService) Delete(ctx context.Context, datasource, id string, cascade bool) (*DeleteResult, error) {
	params := url.Values{}
	if cascade {
		params.Set("cascade", "true")
	}

	var res DeleteResult
	if err := s.c.del(ctx, path(datasource, s.kind, id), params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
