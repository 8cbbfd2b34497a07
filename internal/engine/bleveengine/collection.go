package bleveengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/search/query"

	"github.com/docgraph/docgraph/internal/engine"
)

// Collection is one bleve index.
type Collection struct {
	name    string
	mu      sync.RWMutex
	mapping engine.Mapping
	index   bleve.Index
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

func (c *Collection) unavailable(op string, err error) error {
	return engine.NewError(op, c.name, engine.KindUnavailable, err)
}

// Create indexes d unless its id is taken. The write lock makes check-and-set atomic.
func (c *Collection) Create(_ context.Context, d engine.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d.ID == "" {
		return engine.NewError("create", c.name, engine.KindInvalid, errors.New("empty id"))
	}

	_, found, err := c.get(d.ID)
	if err != nil {
		return c.unavailable("create", err)
	}

	if found {
		return engine.NewError("create", c.name, engine.KindConflict, nil)
	}

	if err := c.put(d); err != nil {
		return c.unavailable("create", err)
	}

	return nil
}

// Index stores d, replacing any previous version.
func (c *Collection) Index(_ context.Context, d engine.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d.ID == "" {
		return engine.NewError("index", c.name, engine.KindInvalid, errors.New("empty id"))
	}

	if err := c.put(d); err != nil {
		return c.unavailable("index", err)
	}

	return nil
}

// Update merges fields into the stored source and re-indexes it.
func (c *Collection) Update(_ context.Context, id string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, found, err := c.get(id)
	if err != nil {
		return c.unavailable("update", err)
	}

	if !found {
		return engine.NewError("update", c.name, engine.KindNotFound, nil)
	}

	for k, v := range fields {
		cur.Fields[k] = v
	}

	if err := c.put(cur); err != nil {
		return c.unavailable("update", err)
	}

	return nil
}

// Delete removes id if present.
func (c *Collection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.index.Delete(id); err != nil {
		return c.unavailable("delete", err)
	}

	return nil
}

// DeleteByQuery deletes matches in batches until none remain.
func (c *Collection) DeleteByQuery(_ context.Context, q engine.Query) (int64, error) {
	bq, err := translate(q)
	if err != nil {
		return 0, engine.NewError("delete_by_query", c.name, engine.KindInvalid, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64

	for {
		req := bleve.NewSearchRequestOptions(bq, deleteBatchSize, 0, false)

		res, err := c.index.Search(req)
		if err != nil {
			return deleted, c.unavailable("delete_by_query", err)
		}

		if len(res.Hits) == 0 {
			return deleted, nil
		}

		batch := c.index.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}

		if err := c.index.Batch(batch); err != nil {
			return deleted, c.unavailable("delete_by_query", err)
		}

		deleted += int64(len(res.Hits))
	}
}

// Get returns the stored document with id.
func (c *Collection) Get(_ context.Context, id string) (engine.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, found, err := c.get(id)
	if err != nil {
		return engine.Document{}, c.unavailable("get", err)
	}

	if !found {
		return engine.Document{}, engine.NewError("get", c.name, engine.KindNotFound, nil)
	}

	return d, nil
}

// Exists reports whether id is stored.
func (c *Collection) Exists(_ context.Context, id string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, found, err := c.get(id)
	if err != nil {
		return false, c.unavailable("exists", err)
	}

	return found, nil
}

// Search returns up to size matches sorted by id.
func (c *Collection) Search(_ context.Context, q engine.Query, size int) ([]engine.Document, error) {
	bq, err := translate(q)
	if err != nil {
		return nil, engine.NewError("search", c.name, engine.KindInvalid, err)
	}

	out := make([]engine.Document, 0)
	if size <= 0 {
		return out, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(bq, size, 0, false)
	req.Fields = []string{sourceField}
	req.SortBy([]string{"_id"})

	res, err := c.index.Search(req)
	if err != nil {
		return nil, c.unavailable("search", err)
	}

	for _, hit := range res.Hits {
		d, err := decode(hit.ID, hit.Fields[sourceField])
		if err != nil {
			return nil, c.unavailable("search", err)
		}
		out = append(out, d)
	}

	return out, nil
}

// Count returns the total number of matches.
func (c *Collection) Count(_ context.Context, q engine.Query) (int64, error) {
	bq, err := translate(q)
	if err != nil {
		return 0, engine.NewError("count", c.name, engine.KindInvalid, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	res, err := c.index.Search(bleve.NewSearchRequestOptions(bq, 0, 0, false))
	if err != nil {
		return 0, c.unavailable("count", err)
	}

	return int64(res.Total), nil //nolint:gosec // document totals fit in int64.
}

// TermsAgg runs a terms facet over field and returns buckets ordered by term.
func (c *Collection) TermsAgg(_ context.Context, q engine.Query, field string, size int) ([]engine.Bucket, error) {
	bq, err := translate(q)
	if err != nil {
		return nil, engine.NewError("terms_agg", c.name, engine.KindInvalid, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	const facetName = "terms"

	facetSize := size
	if facetSize <= 0 {
		facetSize = math.MaxInt32
	}

	req := bleve.NewSearchRequestOptions(bq, 0, 0, false)
	req.AddFacet(facetName, bleve.NewFacetRequest(field, facetSize))

	res, err := c.index.Search(req)
	if err != nil {
		return nil, c.unavailable("terms_agg", err)
	}

	buckets := make([]engine.Bucket, 0)

	facet, ok := res.Facets[facetName]
	if !ok || facet == nil {
		return buckets, nil
	}

	for _, tf := range facet.Terms {
		buckets = append(buckets, engine.Bucket{Term: tf.Term, Count: int64(tf.Count)})
	}

	return engine.TopTerms(buckets, size), nil
}

// get looks up id via a doc-id query without taking locks.
func (c *Collection) get(id string) (engine.Document, bool, error) {
	req := bleve.NewSearchRequestOptions(query.NewDocIDQuery([]string{id}), 1, 0, false)
	req.Fields = []string{sourceField}

	res, err := c.index.Search(req)
	if err != nil {
		return engine.Document{}, false, err
	}

	if len(res.Hits) == 0 {
		return engine.Document{}, false, nil
	}

	d, err := decode(id, res.Hits[0].Fields[sourceField])
	if err != nil {
		return engine.Document{}, false, err
	}

	return d, true, nil
}

// put indexes d with its JSON source attached.
func (c *Collection) put(d engine.Document) error {
	src, err := json.Marshal(d.Fields)
	if err != nil {
		return fmt.Errorf("encoding source: %w", err)
	}

	body := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		body[k] = v
	}
	body[sourceField] = string(src)

	return c.index.Index(d.ID, body)
}

func decode(id string, raw any) (engine.Document, error) {
	s, ok := raw.(string)
	if !ok {
		return engine.Document{}, fmt.Errorf("document %s has no stored source", id)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return engine.Document{}, fmt.Errorf("decoding source of %s: %w", id, err)
	}

	return engine.Document{ID: id, Fields: fields}, nil
}
