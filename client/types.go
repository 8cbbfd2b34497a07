package client

// Property is a key/value pair. Type is an optional tag such as "int" or "date".
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Value string `json:"value" yaml:"value"`
}

// Vertex is a graph node.
type Vertex struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	Label      string     `json:"label" yaml:"label"`
	Datasource string     `json:"datasource,omitempty" yaml:"datasource,omitempty"`
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Edge is a directed relationship between two vertices.
type Edge struct {
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	Label      string     `json:"label" yaml:"label"`
	Datasource string     `json:"datasource,omitempty" yaml:"datasource,omitempty"`
	SourceID   string     `json:"source_id" yaml:"source_id"`
	TargetID   string     `json:"target_id" yaml:"target_id"`
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Counts holds per-kind element counts. -1 means the server could not count.
type Counts struct {
	V int64 `json:"V"`
	E int64 `json:"E"`
}

// LabelCounts holds per-kind label frequencies.
type LabelCounts struct {
	V map[string]int64 `json:"V"`
	E map[string]int64 `json:"E"`
}

// KeyValue is a required property key with a required value.
type KeyValue struct {
	Key   string
	Value string
}

// Query filters a listing. Set fields combine conjunctively; Labels is a
// membership set. PartialValue runs a substring match and ignores the rest.
type Query struct {
	Label        string
	Labels       []string
	Key          string
	KeyNot       string
	Keys         []string
	Values       []string
	KeyValues    []KeyValue
	PartialValue string
	Size         int
}

// Direction selects which edges of a vertex to follow: "out", "in" or "both".
type Direction string

// Traversal directions.
const (
	Out  Direction = "out"
	In   Direction = "in"
	Both Direction = "both"
)

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Engine        string  `json:"engine"`
	WSClients     int     `json:"ws_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	SchemaVersion int               `json:"schema_version,omitempty"`
}

// DeleteResult reports a vertex delete. EdgesRemoved is only set by cascades.
type DeleteResult struct {
	Deleted      bool  `json:"deleted"`
	EdgesRemoved int64 `json:"edges_removed"`
}
