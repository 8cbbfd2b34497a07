package store

import (
	"context"
	"time"

	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

// Labels returns label frequencies in datasource, ordered by label.
func (s *elements[T]) Labels(ctx context.Context, datasource string) ([]models.Bucket, error) {
	q, err := predicate.Datasource(datasource)
	if err != nil {
		return nil, err
	}

	return s.terms(ctx, "labels", q, predicate.FieldLabel), nil
}

// Keys returns property-key frequencies of label in datasource. Each
// element counts once per key it carries.
func (s *elements[T]) Keys(ctx context.Context, datasource, label string) ([]models.Bucket, error) {
	if label == "" {
		return nil, models.InvalidPredicate("label", "is required")
	}

	q, err := predicate.Compile(datasource, models.PredicateSet{Label: label})
	if err != nil {
		return nil, err
	}

	return s.terms(ctx, "keys", q, predicate.FieldPropertyKey), nil
}

func (s *elements[T]) terms(ctx context.Context, op string, q engine.Query, field string) []models.Bucket {
	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, op, err)
		return []models.Bucket{}
	}

	defer observe(s.name, op, time.Now())

	buckets, err := col.TermsAgg(ctx, q, field, s.maxSize())
	if err != nil {
		s.degrade(s.name, op, err)
		return []models.Bucket{}
	}

	out := make([]models.Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, models.Bucket{Term: b.Term, Count: b.Count})
	}

	return out
}
