package store

import (
	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

func elementFields(e *models.Element) map[string]any {
	props := make([]map[string]any, 0, len(e.Properties))
	for _, p := range e.Properties {
		props = append(props, map[string]any{"key": p.Key, "type": p.Type, "value": p.Value})
	}

	return map[string]any{
		predicate.FieldDatasource: e.Datasource,
		predicate.FieldLabel:      e.Label,
		predicate.FieldProperties: props,
	}
}

func decodeElement(d engine.Document) models.Element {
	objs := d.Objects(predicate.FieldProperties)

	props := make(models.Properties, 0, len(objs))
	for _, o := range objs {
		p := models.Property{}
		p.Key, _ = o["key"].(string)     //nolint:errcheck // type assertion, absent is "".
		p.Type, _ = o["type"].(string)   //nolint:errcheck // type assertion, absent is "".
		p.Value, _ = o["value"].(string) //nolint:errcheck // type assertion, absent is "".
		props = append(props, p)
	}

	return models.Element{
		ID:         d.ID,
		Label:      d.String(predicate.FieldLabel),
		Datasource: d.String(predicate.FieldDatasource),
		Properties: props,
	}
}

type vertexCodec struct{}

func (vertexCodec) encode(v *models.Vertex) engine.Document {
	return engine.Document{ID: v.ID, Fields: elementFields(&v.Element)}
}

func (vertexCodec) decode(d engine.Document) models.Vertex {
	return models.Vertex{Element: decodeElement(d)}
}

func (vertexCodec) element(v *models.Vertex) *models.Element { return &v.Element }

func (vertexCodec) validate(v *models.Vertex) error { return v.Validate() }

type edgeCodec struct{}

func (edgeCodec) encode(e *models.Edge) engine.Document {
	fields := elementFields(&e.Element)
	fields[predicate.FieldSource] = e.SourceID
	fields[predicate.FieldTarget] = e.TargetID

	return engine.Document{ID: e.ID, Fields: fields}
}

func (edgeCodec) decode(d engine.Document) models.Edge {
	return models.Edge{
		Element:  decodeElement(d),
		SourceID: d.String(predicate.FieldSource),
		TargetID: d.String(predicate.FieldTarget),
	}
}

func (edgeCodec) element(e *models.Edge) *models.Element { return &e.Element }

func (edgeCodec) validate(e *models.Edge) error { return e.Validate() }
