package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// elements implements the operations vertices and edges share.
type elements[T any] struct {
	c    *Client
	kind string
}

// Create stores a new element. An empty id is assigned by the server.
func (s elements[T]) Create(ctx context.Context, datasource string, el *T) (*T, error) {
	var out T
	if err := s.c.post(ctx, path(datasource, s.kind), el, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upsert creates el or replaces the element with its id. created reports which.
func (s elements[T]) Upsert(ctx context.Context, datasource string, el *T) (out *T, created bool, err error) {
	var res T
	status, err := s.c.send(ctx, http.MethodPut, path(datasource, s.kind), el, &res)
	if err != nil {
		return nil, false, err
	}
	return &res, status == http.StatusCreated, nil
}

// Update replaces the element with id. A missing id is a not-found error.
func (s elements[T]) Update(ctx context.Context, datasource, id string, el *T) (*T, error) {
	var out T
	if err := s.c.put(ctx, path(datasource, s.kind, id), el, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the element with id in datasource.
func (s elements[T]) Get(ctx context.Context, datasource, id string) (*T, error) {
	var out T
	if err := s.c.get(ctx, path(datasource, s.kind, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the elements matching q; a nil q lists the whole datasource.
func (s elements[T]) List(ctx context.Context, datasource string, q *Query) ([]T, error) {
	p := path(datasource, s.kind)
	params := url.Values{}

	if q != nil {
		if q.Size > 0 {
			params.Set("size", strconv.Itoa(q.Size))
		}

		switch {
		case q.PartialValue != "":
			p += "/query/value"
			params.Set("q", q.PartialValue)
		case !q.empty():
			p += "/query/has"
			q.encode(params)
		}
	}

	var out []T
	if err := s.c.get(ctx, p, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (q *Query) empty() bool {
	return q.Label == "" && len(q.Labels) == 0 && q.Key == "" && q.KeyNot == "" &&
		len(q.Keys) == 0 && len(q.Values) == 0 && len(q.KeyValues) == 0
}

func (q *Query) encode(params url.Values) {
	set := func(k, v string) {
		if v != "" {
			params.Set(k, v)
		}
	}

	set("label", q.Label)
	set("labels", strings.Join(q.Labels, ","))
	set("key", q.Key)
	set("keyNot", q.KeyNot)
	set("keys", strings.Join(q.Keys, ","))
	set("values", strings.Join(q.Values, ","))

	for _, kv := range q.KeyValues {
		params.Add("kv", kv.Key+"@"+kv.Value)
	}
}
