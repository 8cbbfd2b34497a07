// Package memengine is an in-process document engine backed by ordered B-trees.
//
// It honors the same Mapping semantics as the external engines: keyword
// fields match exactly, text fields are tokenized, and Nested queries are
// evaluated per object. Documents are kept in id order so results are
// deterministic.
package memengine

import (
	"context"
	"errors"
	"sync"

	"github.com/tidwall/btree"

	"github.com/docgraph/docgraph/internal/engine"
)

// Compile-time check: *Engine must satisfy engine.Engine.
var _ engine.Engine = (*Engine)(nil)

// Compile-time check: *Collection must satisfy engine.Collection.
var _ engine.Collection = (*Collection)(nil)

// Engine holds named in-memory collections.
type Engine struct {
	mu   sync.Mutex
	cols map[string]*Collection
}

// New creates an empty Engine.
func New() *Engine {
	return &Engine{cols: make(map[string]*Collection)}
}

// Collection returns the named collection, creating it when absent.
func (e *Engine) Collection(_ context.Context, name string, mapping engine.Mapping) (engine.Collection, error) {
	return e.Open(name, mapping), nil
}

// Open is Collection without the interface wrapping, for tests that inject failures.
func (e *Engine) Open(name string, mapping engine.Mapping) *Collection {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.cols[name]; ok {
		return c
	}

	c := newCollection(name, mapping)
	e.cols[name] = c

	return c
}

// Reset empties the named collection in place so existing handles see the reset.
func (e *Engine) Reset(_ context.Context, name string, mapping engine.Mapping) (engine.Collection, error) {
	c := e.Open(name, mapping)

	c.mu.Lock()
	c.docs.Clear()
	c.mapping = mapping
	c.mu.Unlock()

	return c, nil
}

// Ping always succeeds.
func (e *Engine) Ping(context.Context) error { return nil }

// Close is a no-op.
func (e *Engine) Close() error { return nil }

// doc is one stored document.
type doc struct {
	id     string
	fields map[string]any
}

func byID(a, b doc) bool { return a.id < b.id }

// Collection is an in-memory engine.Collection.
type Collection struct {
	name    string
	mu      sync.RWMutex
	mapping engine.Mapping
	docs    *btree.BTreeG[doc]
	failure error
}

func newCollection(name string, mapping engine.Mapping) *Collection {
	return &Collection{
		name:    name,
		mapping: mapping,
		docs:    btree.NewBTreeG[doc](byID),
	}
}

// SetFailure makes every subsequent call fail as unavailable with err. Nil clears it.
func (c *Collection) SetFailure(err error) {
	c.mu.Lock()
	c.failure = err
	c.mu.Unlock()
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.docs.Len()
}

func (c *Collection) fail(op string) error {
	if c.failure == nil {
		return nil
	}

	return engine.NewError(op, c.name, engine.KindUnavailable, c.failure)
}

// Create stores d when its id is unused.
func (c *Collection) Create(_ context.Context, d engine.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fail("create"); err != nil {
		return err
	}

	if d.ID == "" {
		return engine.NewError("create", c.name, engine.KindInvalid, errors.New("empty id"))
	}

	if _, ok := c.docs.Get(doc{id: d.ID}); ok {
		return engine.NewError("create", c.name, engine.KindConflict, nil)
	}

	c.docs.Set(doc{id: d.ID, fields: cloneFields(d.Fields)})

	return nil
}

// Index stores d, replacing any previous version.
func (c *Collection) Index(_ context.Context, d engine.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fail("index"); err != nil {
		return err
	}

	if d.ID == "" {
		return engine.NewError("index", c.name, engine.KindInvalid, errors.New("empty id"))
	}

	c.docs.Set(doc{id: d.ID, fields: cloneFields(d.Fields)})

	return nil
}

// Update merges top-level fields into an existing document.
func (c *Collection) Update(_ context.Context, id string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fail("update"); err != nil {
		return err
	}

	cur, ok := c.docs.Get(doc{id: id})
	if !ok {
		return engine.NewError("update", c.name, engine.KindNotFound, nil)
	}

	merged := cloneFields(cur.fields)
	for k, v := range fields {
		merged[k] = cloneValue(v)
	}

	c.docs.Set(doc{id: id, fields: merged})

	return nil
}

// Delete removes id if present.
func (c *Collection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fail("delete"); err != nil {
		return err
	}

	c.docs.Delete(doc{id: id})

	return nil
}

// DeleteByQuery removes all matches of q.
func (c *Collection) DeleteByQuery(_ context.Context, q engine.Query) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fail("delete_by_query"); err != nil {
		return 0, err
	}

	var ids []string
	c.docs.Scan(func(d doc) bool {
		if c.match(q, d) {
			ids = append(ids, d.id)
		}
		return true
	})

	for _, id := range ids {
		c.docs.Delete(doc{id: id})
	}

	return int64(len(ids)), nil
}

// Get returns the document with id.
func (c *Collection) Get(_ context.Context, id string) (engine.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.fail("get"); err != nil {
		return engine.Document{}, err
	}

	d, ok := c.docs.Get(doc{id: id})
	if !ok {
		return engine.Document{}, engine.NewError("get", c.name, engine.KindNotFound, nil)
	}

	return engine.Document{ID: d.id, Fields: cloneFields(d.fields)}, nil
}

// Exists reports whether id is stored.
func (c *Collection) Exists(_ context.Context, id string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.fail("exists"); err != nil {
		return false, err
	}

	_, ok := c.docs.Get(doc{id: id})

	return ok, nil
}

// Search returns up to size matches in id order.
func (c *Collection) Search(_ context.Context, q engine.Query, size int) ([]engine.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.fail("search"); err != nil {
		return nil, err
	}

	out := make([]engine.Document, 0)
	if size <= 0 {
		return out, nil
	}

	c.docs.Scan(func(d doc) bool {
		if c.match(q, d) {
			out = append(out, engine.Document{ID: d.id, Fields: cloneFields(d.fields)})
		}
		return len(out) < size
	})

	return out, nil
}

// Count returns the number of matches.
func (c *Collection) Count(_ context.Context, q engine.Query) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.fail("count"); err != nil {
		return 0, err
	}

	var n int64
	c.docs.Scan(func(d doc) bool {
		if c.match(q, d) {
			n++
		}
		return true
	})

	return n, nil
}

// TermsAgg counts terms of field over matches of q, keeping the size most
// frequent ordered by term.
func (c *Collection) TermsAgg(_ context.Context, q engine.Query, field string, size int) ([]engine.Bucket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.fail("terms_agg"); err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	c.docs.Scan(func(d doc) bool {
		if !c.match(q, d) {
			return true
		}
		if path, nested := c.mapping.NestedPath(field); nested {
			sub := field[len(path)+1:]
			for _, obj := range objects(d.fields[path]) {
				if s, ok := obj[sub].(string); ok {
					counts[s]++
				}
			}
			return true
		}
		if s, ok := d.fields[field].(string); ok {
			counts[s]++
		}
		return true
	})

	buckets := make([]engine.Bucket, 0, len(counts))
	for term, n := range counts {
		buckets = append(buckets, engine.Bucket{Term: term, Count: n})
	}

	return engine.TopTerms(buckets, size), nil
}
