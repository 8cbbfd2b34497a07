// Package pgengine implements the document engine on a PostgreSQL JSONB table.
//
// Every collection shares the documents table, keyed by (collection, id).
// Nested paths are JSONB arrays queried with jsonb_array_elements, so nested
// predicates are evaluated per object. Text fields are tokenized in SQL the
// same way engine.Tokenize does it.
package pgengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/dbpool"
	"github.com/docgraph/docgraph/internal/engine"
)

const defaultQueryTimeout = 30 * time.Second

// Compile-time check: *Engine must satisfy engine.Engine.
var _ engine.Engine = (*Engine)(nil)

// Compile-time check: *Collection must satisfy engine.Collection.
var _ engine.Collection = (*Collection)(nil)

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// Engine serves collections out of one PostgreSQL database.
type Engine struct {
	pool *dbpool.Pool
	log  *logrus.Logger
	mu   sync.Mutex
	cols map[string]*Collection
}

// New creates an Engine over an open pool. Migrations must already be applied.
func New(pool *dbpool.Pool, log *logrus.Logger) *Engine {
	return &Engine{pool: pool, log: log, cols: make(map[string]*Collection)}
}

// Collection registers name with its mapping and returns a handle.
func (e *Engine) Collection(ctx context.Context, name string, m engine.Mapping) (engine.Collection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.cols[name]; ok {
		return c, nil
	}

	if err := e.register(ctx, name, m); err != nil {
		return nil, err
	}

	c := &Collection{name: name, pool: e.pool, mapping: m}
	e.cols[name] = c

	return c, nil
}

// Reset deletes every document of name and re-registers its mapping.
func (e *Engine) Reset(ctx context.Context, name string, m engine.Mapping) (engine.Collection, error) {
	col, err := e.Collection(ctx, name, m)
	if err != nil {
		return nil, err
	}

	qctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := e.pool.Exec(qctx, `DELETE FROM documents WHERE collection = $1`, name)
	if err != nil {
		return nil, engine.NewError("reset", name, engine.KindUnavailable, err)
	}

	if err := e.register(ctx, name, m); err != nil {
		return nil, err
	}

	c := col.(*Collection) //nolint:forcetypeassert // Collection only returns *Collection.
	c.setMapping(m)

	e.log.WithFields(logrus.Fields{"collection": name, "deleted": tag.RowsAffected()}).Info("collection reset")

	return c, nil
}

// Ping checks database connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.pool.HealthCheck(ctx); err != nil {
		return engine.NewError("ping", "", engine.KindUnavailable, err)
	}

	return nil
}

// Close closes the pool.
func (e *Engine) Close() error {
	e.pool.Close()

	return nil
}

func (e *Engine) register(ctx context.Context, name string, m engine.Mapping) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	raw, err := json.Marshal(m)
	if err != nil {
		return engine.NewError("register", name, engine.KindInvalid, err)
	}

	_, err = e.pool.Exec(ctx, `INSERT INTO collections (name, mapping) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET mapping = EXCLUDED.mapping, updated_at = now()`, name, raw)
	if err != nil {
		return engine.NewError("register", name, engine.KindUnavailable, err)
	}

	return nil
}

// Collection is one logical collection inside the documents table.
type Collection struct {
	name    string
	pool    *dbpool.Pool
	mu      sync.RWMutex
	mapping engine.Mapping
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

func (c *Collection) setMapping(m engine.Mapping) {
	c.mu.Lock()
	c.mapping = m
	c.mu.Unlock()
}

func (c *Collection) builder() *builder {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return newBuilder(c.mapping, c.name)
}

func (c *Collection) unavailable(op string, err error) error {
	return engine.NewError(op, c.name, engine.KindUnavailable, err)
}

// Create inserts d, failing with ErrConflict when the id exists.
func (c *Collection) Create(ctx context.Context, d engine.Document) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	body, err := encodeBody("create", c.name, d)
	if err != nil {
		return err
	}

	tag, err := c.pool.Exec(ctx, `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING`, c.name, d.ID, body)
	if err != nil {
		return c.unavailable("create", err)
	}

	if tag.RowsAffected() == 0 {
		return engine.NewError("create", c.name, engine.KindConflict, nil)
	}

	return nil
}

// Index upserts d.
func (c *Collection) Index(ctx context.Context, d engine.Document) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	body, err := encodeBody("index", c.name, d)
	if err != nil {
		return err
	}

	_, err = c.pool.Exec(ctx, `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`, c.name, d.ID, body)
	if err != nil {
		return c.unavailable("index", err)
	}

	return nil
}

// Update merges fields into an existing body with the jsonb || operator.
func (c *Collection) Update(ctx context.Context, id string, fields map[string]any) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	patch, err := json.Marshal(fields)
	if err != nil {
		return engine.NewError("update", c.name, engine.KindInvalid, err)
	}

	tag, err := c.pool.Exec(ctx, `UPDATE documents SET body = body || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2`, c.name, id, patch)
	if err != nil {
		return c.unavailable("update", err)
	}

	if tag.RowsAffected() == 0 {
		return engine.NewError("update", c.name, engine.KindNotFound, nil)
	}

	return nil
}

// Delete removes id if present.
func (c *Collection) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.name, id); err != nil {
		return c.unavailable("delete", err)
	}

	return nil
}

// DeleteByQuery removes all matches of q.
func (c *Collection) DeleteByQuery(ctx context.Context, q engine.Query) (int64, error) {
	b := c.builder()

	where, err := b.where(q)
	if err != nil {
		return 0, engine.NewError("delete_by_query", c.name, engine.KindInvalid, err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND `+where, b.args...)
	if err != nil {
		return 0, c.unavailable("delete_by_query", err)
	}

	return tag.RowsAffected(), nil
}

// Get returns the document with id.
func (c *Collection) Get(ctx context.Context, id string) (engine.Document, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var raw []byte

	err := c.pool.QueryRow(ctx, `SELECT body FROM documents WHERE collection = $1 AND id = $2`, c.name, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return engine.Document{}, engine.NewError("get", c.name, engine.KindNotFound, nil)
		}

		return engine.Document{}, c.unavailable("get", err)
	}

	d, err := decodeBody(id, raw)
	if err != nil {
		return engine.Document{}, c.unavailable("get", err)
	}

	return d, nil
}

// Exists reports whether id is stored.
func (c *Collection) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var ok bool

	err := c.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND id = $2)`, c.name, id).Scan(&ok)
	if err != nil {
		return false, c.unavailable("exists", err)
	}

	return ok, nil
}

// Search returns up to size matches ordered by id.
func (c *Collection) Search(ctx context.Context, q engine.Query, size int) ([]engine.Document, error) {
	out := make([]engine.Document, 0)
	if size <= 0 {
		return out, nil
	}

	b := c.builder()

	where, err := b.where(q)
	if err != nil {
		return nil, engine.NewError("search", c.name, engine.KindInvalid, err)
	}

	sql := `SELECT id, body FROM documents WHERE collection = $1 AND ` + where +
		` ORDER BY id LIMIT ` + b.arg(size)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := c.pool.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, c.unavailable("search", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var raw []byte

		if err := rows.Scan(&id, &raw); err != nil {
			return nil, c.unavailable("search", fmt.Errorf("scanning document row: %w", err))
		}

		d, err := decodeBody(id, raw)
		if err != nil {
			return nil, c.unavailable("search", err)
		}

		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, c.unavailable("search", fmt.Errorf("iterating document rows: %w", err))
	}

	return out, nil
}

// Count returns the number of matches.
func (c *Collection) Count(ctx context.Context, q engine.Query) (int64, error) {
	b := c.builder()

	where, err := b.where(q)
	if err != nil {
		return 0, engine.NewError("count", c.name, engine.KindInvalid, err)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int64
	if err := c.pool.QueryRow(ctx, `SELECT count(*) FROM documents WHERE collection = $1 AND `+where, b.args...).Scan(&n); err != nil {
		return 0, c.unavailable("count", err)
	}

	return n, nil
}

// TermsAgg groups matches by field. Nested fields are grouped per array element.
func (c *Collection) TermsAgg(ctx context.Context, q engine.Query, field string, size int) ([]engine.Bucket, error) {
	b := c.builder()

	where, err := b.where(q)
	if err != nil {
		return nil, engine.NewError("terms_agg", c.name, engine.KindInvalid, err)
	}

	var sql string
	if path, nested := b.mapping.NestedPath(field); nested {
		term := "agg_el->>" + b.text(field[len(path)+1:])
		sql = `SELECT ` + term + ` AS term, count(*) AS n FROM documents, jsonb_array_elements(` + b.array(path) + `) AS agg_el
			WHERE collection = $1 AND ` + where + ` AND ` + term + ` IS NOT NULL GROUP BY 1`
	} else {
		term := "body->>" + b.text(field)
		sql = `SELECT ` + term + ` AS term, count(*) AS n FROM documents
			WHERE collection = $1 AND ` + where + ` AND ` + term + ` IS NOT NULL GROUP BY 1`
	}

	// Same selection as engine.TopTerms: most frequent first, then by term.
	if size > 0 {
		sql = `SELECT term, n FROM (` + sql + ` ORDER BY n DESC, term LIMIT ` + b.arg(size) + `) AS top ORDER BY term`
	} else {
		sql += ` ORDER BY 1`
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := c.pool.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, c.unavailable("terms_agg", err)
	}
	defer rows.Close()

	buckets := make([]engine.Bucket, 0)

	for rows.Next() {
		var bk engine.Bucket
		if err := rows.Scan(&bk.Term, &bk.Count); err != nil {
			return nil, c.unavailable("terms_agg", fmt.Errorf("scanning bucket row: %w", err))
		}
		buckets = append(buckets, bk)
	}

	if err := rows.Err(); err != nil {
		return nil, c.unavailable("terms_agg", fmt.Errorf("iterating bucket rows: %w", err))
	}

	return buckets, nil
}

func encodeBody(op, collection string, d engine.Document) ([]byte, error) {
	if d.ID == "" {
		return nil, engine.NewError(op, collection, engine.KindInvalid, errors.New("empty id"))
	}

	raw, err := json.Marshal(d.Fields)
	if err != nil {
		return nil, engine.NewError(op, collection, engine.KindInvalid, fmt.Errorf("encoding body: %w", err))
	}

	return raw, nil
}

func decodeBody(id string, raw []byte) (engine.Document, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return engine.Document{}, fmt.Errorf("decoding body of %s: %w", id, err)
	}

	return engine.Document{ID: id, Fields: fields}, nil
}
