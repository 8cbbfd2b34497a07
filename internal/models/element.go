// Package models defines data types for the document-backed property graph.
package models

import "github.com/google/uuid"

// Field limits enforced by Validate.
const (
	maxIDLen         = 255
	maxLabelLen      = 255
	maxDatasourceLen = 255
	maxKeyLen        = 255
	maxValueLen      = 32768
	maxProperties    = 1000
)

// Element is the identity, label, datasource and property shape shared by vertices and edges.
type Element struct {
	ID         string     `json:"id" yaml:"id"`
	Label      string     `json:"label" yaml:"label"`
	Datasource string     `json:"datasource" yaml:"datasource"`
	Properties Properties `json:"properties" yaml:"properties"`
}

// Property returns the property with the given key.
func (e *Element) Property(key string) (Property, bool) {
	return e.Properties.Get(key)
}

// SetProperty upserts a property on the element.
func (e *Element) SetProperty(p Property) {
	e.Properties = e.Properties.Set(p)
}

// EnsureID assigns a random UUID when the id is empty.
func (e *Element) EnsureID() {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
}

// Validate checks required fields and limits, and collapses duplicate property keys.
func (e *Element) Validate() error {
	if len(e.ID) > maxIDLen {
		return ErrFieldTooLong("id", maxIDLen)
	}

	if e.Datasource == "" {
		return ErrMissingDatasource
	}

	if len(e.Datasource) > maxDatasourceLen {
		return ErrFieldTooLong("datasource", maxDatasourceLen)
	}

	if e.Label == "" {
		return ErrMissingLabel
	}

	if len(e.Label) > maxLabelLen {
		return ErrFieldTooLong("label", maxLabelLen)
	}

	if len(e.Properties) > maxProperties {
		return ErrFieldTooLong("properties", maxProperties)
	}

	for _, p := range e.Properties {
		if p.Key == "" {
			return ErrMissingKey
		}
		if len(p.Key) > maxKeyLen {
			return ErrFieldTooLong("property key", maxKeyLen)
		}
		if len(p.Value) > maxValueLen {
			return ErrFieldTooLong("property value", maxValueLen)
		}
	}

	e.Properties = e.Properties.normalized()

	return nil
}

// Vertex is a graph node.
type Vertex struct {
	Element `yaml:",inline"`
}

// Edge is a directed relationship from SourceID to TargetID.
type Edge struct {
	Element  `yaml:",inline"`
	SourceID string `json:"source_id" yaml:"source_id"`
	TargetID string `json:"target_id" yaml:"target_id"`
}

// Validate checks element fields plus both endpoints.
func (e *Edge) Validate() error {
	if e.SourceID == "" {
		return ErrMissingSource
	}

	if e.TargetID == "" {
		return ErrMissingTarget
	}

	if len(e.SourceID) > maxIDLen {
		return ErrFieldTooLong("source_id", maxIDLen)
	}

	if len(e.TargetID) > maxIDLen {
		return ErrFieldTooLong("target_id", maxIDLen)
	}

	return e.Element.Validate()
}

// Other returns the endpoint opposite vertexID, or "" when vertexID is not an endpoint.
func (e *Edge) Other(vertexID string) string {
	switch vertexID {
	case e.SourceID:
		return e.TargetID
	case e.TargetID:
		return e.SourceID
	default:
		return ""
	}
}
