package store

import (
	"github.com/docgraph/docgraph/internal/models"
)

// VertexStore handles vertex CRUD, counts, queries and schema aggregation.
type VertexStore struct {
	*elements[models.Vertex]
}

// NewVertexStore creates a VertexStore over collection. An empty name uses
// DefaultVertexCollection.
func NewVertexStore(base Base, collection string) *VertexStore {
	if collection == "" {
		collection = DefaultVertexCollection
	}

	return &VertexStore{elements: &elements[models.Vertex]{
		Base:    base,
		name:    collection,
		mapping: VertexMapping,
		codec:   vertexCodec{},
	}}
}
