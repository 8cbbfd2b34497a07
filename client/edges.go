package client

import "context"

// EdgeService handles edge operations within a datasource.
type EdgeService struct {
	elements[Edge]
}

// Delete removes an edge. Deleting an absent edge succeeds.
func (s *EdgeService) Delete(ctx context.Context, datasource, id string) error {
	return s.c.del(ctx, path(datasource, s.kind, id), nil, nil)
}
