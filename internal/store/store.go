// Package store provides datasource-scoped element stores over a document engine.
//
// VertexStore and EdgeStore each own one collection. Every read and query is
// scoped to a datasource. Engine failures never reach callers as errors:
// reads answer empty, false, -1 or absent, and writes report ok=false. The
// failure is logged and counted instead. Errors are reserved for caller
// mistakes (validation, invalid predicates) and for conflicts and missing ids
// on writes.
package store

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/metrics"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

// Default collection names.
const (
	DefaultVertexCollection = "vertex"
	DefaultEdgeCollection   = "edge"
)

// VertexMapping is the engine mapping of the vertex collection.
var VertexMapping = engine.Mapping{
	Keywords: []string{
		predicate.FieldDatasource, predicate.FieldLabel,
		predicate.FieldPropertyKey, predicate.FieldPropertyType,
	},
	Texts:  []string{predicate.FieldPropertyValue},
	Nested: []string{predicate.FieldProperties},
}

// EdgeMapping is the engine mapping of the edge collection.
var EdgeMapping = engine.Mapping{
	Keywords: []string{
		predicate.FieldDatasource, predicate.FieldLabel,
		predicate.FieldSource, predicate.FieldTarget,
		predicate.FieldPropertyKey, predicate.FieldPropertyType,
	},
	Texts:  []string{predicate.FieldPropertyValue},
	Nested: []string{predicate.FieldProperties},
}

// Base contains shared dependencies for all stores.
type Base struct {
	Engine engine.Engine
	Log    *logrus.Logger

	// MaxResultSize caps every query; zero means models.DefaultResultSize.
	MaxResultSize int
}

func (b *Base) maxSize() int {
	if b.MaxResultSize > 0 {
		return b.MaxResultSize
	}

	return models.DefaultResultSize
}

// clampSize bounds a requested size to (0, max]. Non-positive means max.
func (b *Base) clampSize(size int) int {
	if size <= 0 || size > b.maxSize() {
		return b.maxSize()
	}

	return size
}

// degrade records an engine failure that is being answered with a default.
func (b *Base) degrade(collection, op string, err error) {
	metrics.EngineDegraded.WithLabelValues(collection, op).Inc()

	b.Log.WithError(err).WithFields(logrus.Fields{
		"collection": collection,
		"op":         op,
		"kind":       engine.KindOf(err).String(),
	}).Warn("engine degraded")
}

// observe records the duration of one engine call.
func observe(collection, op string, start time.Time) {
	metrics.EngineDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}
