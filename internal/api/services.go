package api

import "github.com/docgraph/docgraph/internal/domain"

// Service interfaces used by the handlers.
type (
	VertexService     = domain.VertexService
	EdgeService       = domain.EdgeService
	GraphService      = domain.GraphService
	DatasourceService = domain.DatasourceService
)
