package store

import (
	"context"
	"time"

	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/metrics"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

// FindByID returns the element with id in datasource. Missing ids, ids of
// other datasources and engine failures are all absent.
func (s *elements[T]) FindByID(ctx context.Context, datasource, id string) (T, bool) {
	var zero T

	if id == "" {
		return zero, false
	}

	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, "find_by_id", err)
		return zero, false
	}

	defer observe(s.name, "find_by_id", time.Now())

	d, err := col.Get(ctx, id)
	if err != nil {
		if engine.KindOf(err) != engine.KindNotFound {
			s.degrade(s.name, "find_by_id", err)
		}
		return zero, false
	}

	if d.String(predicate.FieldDatasource) != datasource {
		return zero, false
	}

	return s.codec.decode(d), true
}

// Exists reports whether id exists in datasource.
func (s *elements[T]) Exists(ctx context.Context, datasource, id string) bool {
	_, ok := s.FindByID(ctx, datasource, id)

	return ok
}

// FindByIDs returns the elements of datasource among ids, silently omitting
// misses. At most len(ids) elements are returned.
func (s *elements[T]) FindByIDs(ctx context.Context, datasource string, ids []string) []T {
	if len(ids) == 0 {
		return []T{}
	}

	q, err := predicate.CompileIDs(datasource, ids)
	if err != nil {
		s.Log.WithError(err).Debug("find_by_ids rejected")
		return []T{}
	}

	return s.search(ctx, "find_by_ids", q, len(ids))
}

// Count returns the number of elements in datasource, or -1 when the engine failed.
func (s *elements[T]) Count(ctx context.Context, datasource string) int64 {
	q, err := predicate.Datasource(datasource)
	if err != nil {
		return -1
	}

	return s.count(ctx, q)
}

// CountAll returns the number of elements across every datasource, or -1.
func (s *elements[T]) CountAll(ctx context.Context) int64 {
	return s.count(ctx, engine.MatchAll{})
}

func (s *elements[T]) count(ctx context.Context, q engine.Query) int64 {
	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, "count", err)
		return -1
	}

	defer observe(s.name, "count", time.Now())

	n, err := col.Count(ctx, q)
	if err != nil {
		s.degrade(s.name, "count", err)
		return -1
	}

	return n
}

// Query compiles p for datasource, runs it with at most size hits and
// reconciles the exact-match parts. Only an invalid predicate is an error.
func (s *elements[T]) Query(ctx context.Context, datasource string, p models.PredicateSet, size int) ([]T, error) {
	q, err := predicate.Compile(datasource, p)
	if err != nil {
		return nil, err
	}

	return s.reconcile(s.search(ctx, "query", q, s.clampSize(size)), p), nil
}

func (s *elements[T]) reconcile(hits []T, p models.PredicateSet) []T {
	out := predicate.Reconcile(hits, func(el T) models.Properties {
		return s.codec.element(&el).Properties
	}, p)

	if dropped := len(hits) - len(out); dropped > 0 {
		metrics.ReconcileDropped.WithLabelValues(s.name).Add(float64(dropped))
	}

	return out
}

// search runs q and decodes the hits. Failures degrade to an empty slice.
func (s *elements[T]) search(ctx context.Context, op string, q engine.Query, size int) []T {
	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, op, err)
		return []T{}
	}

	defer observe(s.name, op, time.Now())

	docs, err := col.Search(ctx, q, size)
	if err != nil {
		s.degrade(s.name, op, err)
		return []T{}
	}

	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, s.codec.decode(d))
	}

	return out
}
