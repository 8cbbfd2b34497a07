// Package engine defines the document search engine contract the graph is built on.
//
// A collection holds schema-flexible documents. Scalar fields are matched as
// exact terms or analyzed text depending on the collection Mapping; nested
// paths hold arrays of objects that are queried element-wise.
package engine

import (
	"cmp"
	"context"
	"slices"
)

// Document is one stored record. Fields follow the collection Mapping.
type Document struct {
	ID     string
	Fields map[string]any
}

// String returns the string field at path, or "".
func (d Document) String(field string) string {
	s, _ := d.Fields[field].(string) //nolint:errcheck // type assertion, absent is "".
	return s
}

// Objects returns the nested objects stored under path.
func (d Document) Objects(path string) []map[string]any {
	switch v := d.Fields[path].(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// Mapping describes how a collection's fields are indexed.
type Mapping struct {
	// Keywords are matched as exact, case-sensitive terms.
	Keywords []string
	// Texts are analyzed: lowercased and tokenized on non-alphanumerics.
	Texts []string
	// Nested are paths holding arrays of objects. Fields beneath them are
	// addressed as "path.field" and declared in Keywords or Texts.
	Nested []string
}

// NestedPath returns the nested path that field belongs under, if any.
func (m Mapping) NestedPath(field string) (string, bool) {
	for _, p := range m.Nested {
		if len(field) > len(p) && field[:len(p)] == p && field[len(p)] == '.' {
			return p, true
		}
	}

	return "", false
}

// IsText reports whether field is analyzed.
func (m Mapping) IsText(field string) bool {
	for _, f := range m.Texts {
		if f == field {
			return true
		}
	}

	return false
}

// Bucket is one aggregation term with its document count.
type Bucket struct {
	Term  string
	Count int64
}

// TopTerms keeps the size buckets with the highest counts, ties going to the
// smaller term, and returns them ordered by term. A size <= 0 keeps all.
// buckets is sorted in place.
func TopTerms(buckets []Bucket, size int) []Bucket {
	if size > 0 && len(buckets) > size {
		slices.SortFunc(buckets, func(a, b Bucket) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Term, b.Term)
		})
		buckets = buckets[:size]
	}

	slices.SortFunc(buckets, func(a, b Bucket) int { return cmp.Compare(a.Term, b.Term) })

	return buckets
}

// Collection is one logical index of documents.
type Collection interface {
	// Name returns the collection name.
	Name() string
	// Create stores doc only if its id is unused, else fails with ErrConflict.
	Create(ctx context.Context, doc Document) error
	// Index stores doc, replacing any document with the same id.
	Index(ctx context.Context, doc Document) error
	// Update merges fields into an existing document, else fails with ErrNotFound.
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteByQuery removes every matching document and returns how many it saw.
	DeleteByQuery(ctx context.Context, q Query) (int64, error)
	// Get returns a document by id, or ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)
	// Exists reports whether a document with id is stored.
	Exists(ctx context.Context, id string) (bool, error)
	// Search returns up to size matching documents.
	Search(ctx context.Context, q Query, size int) ([]Document, error)
	// Count returns the number of matching documents.
	Count(ctx context.Context, q Query) (int64, error)
	// TermsAgg counts documents per term of field among matches of q. It keeps
	// the size most frequent terms (see TopTerms) ordered by term. A field under
	// a nested path counts each nested object.
	TermsAgg(ctx context.Context, q Query, field string, size int) ([]Bucket, error)
}

// Engine provisions collections.
type Engine interface {
	// Collection opens name, creating it with mapping when absent.
	Collection(ctx context.Context, name string, mapping Mapping) (Collection, error)
	// Reset drops name and recreates it empty with mapping.
	Reset(ctx context.Context, name string, mapping Mapping) (Collection, error)
	// Ping verifies the engine is reachable.
	Ping(ctx context.Context) error
	// Close releases engine resources.
	Close() error
}
