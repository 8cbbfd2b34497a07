package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/models"
	"github.com/docgraph/docgraph/internal/predicate"
)

type codec[T any] interface {
	encode(*T) engine.Document
	decode(engine.Document) T
	element(*T) *models.Element
	validate(*T) error
}

// elements implements the CRUD, count and query operations shared by the
// vertex and edge stores.
type elements[T any] struct {
	Base
	name    string
	mapping engine.Mapping
	codec   codec[T]
}

// Collection returns the engine collection name this store writes to.
func (s *elements[T]) Collection() string { return s.name }

func (s *elements[T]) collection(ctx context.Context) (engine.Collection, error) {
	return s.Engine.Collection(ctx, s.name, s.mapping)
}

// Create stores el under its id, generating one when empty. It fails with
// models.ErrConflict when the id is taken.
func (s *elements[T]) Create(ctx context.Context, el T) (T, bool, error) {
	var zero T

	e := s.codec.element(&el)
	e.EnsureID()
	if e.Properties == nil {
		e.Properties = models.Properties{}
	}

	if err := s.codec.validate(&el); err != nil {
		return zero, false, err
	}

	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, "create", err)
		return zero, false, nil
	}

	defer observe(s.name, "create", time.Now())

	if err := col.Create(ctx, s.codec.encode(&el)); err != nil {
		if errors.Is(err, engine.ErrConflict) {
			return zero, false, fmt.Errorf("creating %s %s: %w", s.name, e.ID, models.ErrConflict)
		}

		s.degrade(s.name, "create", err)

		return zero, false, nil
	}

	return el, true, nil
}

// Update replaces an existing element. A missing id, or one held by another
// datasource, is models.ErrNotFound or models.ErrDatasourceMismatch.
func (s *elements[T]) Update(ctx context.Context, el T) (T, bool, error) {
	var zero T

	e := s.codec.element(&el)
	if e.ID == "" {
		return zero, false, models.ErrMissingID
	}
	if e.Properties == nil {
		e.Properties = models.Properties{}
	}

	if err := s.codec.validate(&el); err != nil {
		return zero, false, err
	}

	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, "update", err)
		return zero, false, nil
	}

	defer observe(s.name, "update", time.Now())

	existing, err := col.Get(ctx, e.ID)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return zero, false, fmt.Errorf("updating %s %s: %w", s.name, e.ID, models.ErrNotFound)
	case err != nil:
		s.degrade(s.name, "update", err)
		return zero, false, nil
	case existing.String(predicate.FieldDatasource) != e.Datasource:
		return zero, false, fmt.Errorf("updating %s %s: %w", s.name, e.ID, models.ErrDatasourceMismatch)
	}

	doc := s.codec.encode(&el)
	if err := col.Update(ctx, doc.ID, doc.Fields); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			return zero, false, fmt.Errorf("updating %s %s: %w", s.name, e.ID, models.ErrNotFound)
		}

		s.degrade(s.name, "update", err)

		return zero, false, nil
	}

	return el, true, nil
}

// Upsert creates el or replaces the element with the same id. created
// reports which happened.
func (s *elements[T]) Upsert(ctx context.Context, el T) (out T, created, ok bool, err error) {
	e := s.codec.element(&el)
	e.EnsureID()
	if e.Properties == nil {
		e.Properties = models.Properties{}
	}

	if err := s.codec.validate(&el); err != nil {
		return out, false, false, err
	}

	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, "upsert", err)
		return out, false, false, nil
	}

	defer observe(s.name, "upsert", time.Now())

	existing, err := col.Get(ctx, e.ID)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		created = true
	case err != nil:
		s.degrade(s.name, "upsert", err)
		return out, false, false, nil
	case existing.String(predicate.FieldDatasource) != e.Datasource:
		return out, false, false, fmt.Errorf("upserting %s %s: %w", s.name, e.ID, models.ErrDatasourceMismatch)
	}

	if err := col.Index(ctx, s.codec.encode(&el)); err != nil {
		s.degrade(s.name, "upsert", err)
		return out, false, false, nil
	}

	return el, created, true, nil
}

// Delete removes id from datasource. Missing ids, and ids of other
// datasources, are left alone and still succeed.
func (s *elements[T]) Delete(ctx context.Context, datasource, id string) bool {
	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, "delete", err)
		return false
	}

	defer observe(s.name, "delete", time.Now())

	existing, err := col.Get(ctx, id)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return true
	case err != nil:
		s.degrade(s.name, "delete", err)
		return false
	case existing.String(predicate.FieldDatasource) != datasource:
		return true
	}

	if err := col.Delete(ctx, id); err != nil {
		s.degrade(s.name, "delete", err)
		return false
	}

	return true
}

// DeleteByDatasource removes every element of datasource and returns how
// many the engine saw, or -1 when the engine failed.
func (s *elements[T]) DeleteByDatasource(ctx context.Context, datasource string) (int64, error) {
	q, err := predicate.Datasource(datasource)
	if err != nil {
		return 0, err
	}

	return s.deleteByQuery(ctx, "delete_by_datasource", q), nil
}

func (s *elements[T]) deleteByQuery(ctx context.Context, op string, q engine.Query) int64 {
	col, err := s.collection(ctx)
	if err != nil {
		s.degrade(s.name, op, err)
		return -1
	}

	defer observe(s.name, op, time.Now())

	n, err := col.DeleteByQuery(ctx, q)
	if err != nil {
		s.degrade(s.name, op, err)
		return -1
	}

	return n
}

// Reset drops every element of every datasource.
func (s *elements[T]) Reset(ctx context.Context) bool {
	if _, err := s.Engine.Reset(ctx, s.name, s.mapping); err != nil {
		s.degrade(s.name, "reset", err)
		return false
	}

	return true
}
