package models

// Counts holds per-kind element counts. -1 means the count is unavailable.
type Counts struct {
	V int64 `json:"V"`
	E int64 `json:"E"`
}

// LabelCounts holds per-kind label frequencies.
type LabelCounts struct {
	V map[string]int64 `json:"V"`
	E map[string]int64 `json:"E"`
}

// Bucket is one term with its document count.
type Bucket struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// BucketMap flattens buckets into a term-to-count map.
func BucketMap(buckets []Bucket) map[string]int64 {
	m := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		m[b.Term] = b.Count
	}

	return m
}

// ChangeEvent announces a write to subscribers of a datasource.
type ChangeEvent struct {
	Type       string `json:"type"`
	Datasource string `json:"datasource"`
	ID         string `json:"id,omitempty"`
	Count      int64  `json:"count,omitempty"`
}

// Change event types.
const (
	EventVertexCreated    = "vertex.created"
	EventVertexUpdated    = "vertex.updated"
	EventVertexDeleted    = "vertex.deleted"
	EventEdgeCreated      = "edge.created"
	EventEdgeUpdated      = "edge.updated"
	EventEdgeDeleted      = "edge.deleted"
	EventDatasourceRemove = "datasource.removed"
	EventReset            = "reset"
)
