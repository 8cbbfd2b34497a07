// Package bleveengine implements the document engine on an embedded bleve index.
//
// Keyword fields use the keyword analyzer, text fields the standard analyzer.
// Bleve has no nested documents: objects under a nested path are flattened,
// so a Nested query may match fields drawn from different objects. Callers
// that need per-object precision reconcile the results.
package bleveengine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/mapping"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/engine"
)

// sourceField stores the original document as JSON; it is never indexed.
const sourceField = "_source_json"

// deleteBatchSize bounds each delete-by-query round.
const deleteBatchSize = 1000

// Compile-time check: *Engine must satisfy engine.Engine.
var _ engine.Engine = (*Engine)(nil)

// Compile-time check: *Collection must satisfy engine.Collection.
var _ engine.Collection = (*Collection)(nil)

// Engine opens bleve indexes under a directory, or in memory when dir is "".
type Engine struct {
	dir  string
	log  *logrus.Logger
	mu   sync.Mutex
	cols map[string]*Collection
}

// New creates an Engine rooted at dir.
func New(dir string, log *logrus.Logger) *Engine {
	return &Engine{dir: dir, log: log, cols: make(map[string]*Collection)}
}

// Collection opens or creates the named index.
func (e *Engine) Collection(_ context.Context, name string, m engine.Mapping) (engine.Collection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c, ok := e.cols[name]; ok {
		return c, nil
	}

	idx, err := e.open(name, m)
	if err != nil {
		return nil, engine.NewError("open", name, engine.KindUnavailable, err)
	}

	c := &Collection{name: name, mapping: m, index: idx}
	e.cols[name] = c

	e.log.WithFields(logrus.Fields{"collection": name, "dir": e.dir}).Info("bleve collection opened")

	return c, nil
}

// Reset drops the named index and recreates it empty.
func (e *Engine) Reset(ctx context.Context, name string, m engine.Mapping) (engine.Collection, error) {
	col, err := e.Collection(ctx, name, m)
	if err != nil {
		return nil, err
	}

	c := col.(*Collection) //nolint:forcetypeassert // Collection only returns *Collection.

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.index.Close(); err != nil {
		e.log.WithError(err).WithField("collection", name).Warn("closing bleve index before reset")
	}

	if e.dir != "" {
		if err := os.RemoveAll(e.path(name)); err != nil {
			return nil, engine.NewError("reset", name, engine.KindUnavailable, err)
		}
	}

	idx, err := e.create(name, m)
	if err != nil {
		return nil, engine.NewError("reset", name, engine.KindUnavailable, err)
	}

	c.index = idx
	c.mapping = m

	return c, nil
}

// Ping succeeds once the engine can hold indexes.
func (e *Engine) Ping(context.Context) error {
	if e.dir == "" {
		return nil
	}

	if _, err := os.Stat(e.dir); err != nil {
		return engine.NewError("ping", "", engine.KindUnavailable, err)
	}

	return nil
}

// Close closes every open index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for name, c := range e.cols {
		if err := c.index.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func (e *Engine) path(name string) string {
	return filepath.Join(e.dir, name+".bleve")
}

func (e *Engine) open(name string, m engine.Mapping) (bleve.Index, error) {
	if e.dir == "" {
		return bleve.NewMemOnly(indexMapping(m))
	}

	idx, err := bleve.Open(e.path(name))
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return e.create(name, m)
	}

	return idx, err
}

func (e *Engine) create(name string, m engine.Mapping) (bleve.Index, error) {
	if e.dir == "" {
		return bleve.NewMemOnly(indexMapping(m))
	}

	if err := os.MkdirAll(e.dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating index dir: %w", err)
	}

	return bleve.New(e.path(name), indexMapping(m))
}

// indexMapping builds a static bleve mapping from m.
func indexMapping(m engine.Mapping) *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	root := mapping.NewDocumentStaticMapping()

	for _, f := range m.Keywords {
		fm := mapping.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = false
		fm.IncludeInAll = false
		addField(root, f, fm)
	}

	for _, f := range m.Texts {
		fm := mapping.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = false
		fm.IncludeInAll = false
		addField(root, f, fm)
	}

	src := mapping.NewTextFieldMapping()
	src.Index = false
	src.Store = true
	src.IncludeInAll = false
	src.IncludeTermVectors = false
	root.AddFieldMappingsAt(sourceField, src)

	im.DefaultMapping = root

	return im
}

// addField places fm at a dotted path, creating static sub-documents on the way.
func addField(root *mapping.DocumentMapping, path string, fm *mapping.FieldMapping) {
	parts := strings.Split(path, ".")
	dm := root

	for _, p := range parts[:len(parts)-1] {
		sub, ok := dm.Properties[p]
		if !ok {
			sub = mapping.NewDocumentStaticMapping()
			dm.AddSubDocumentMapping(p, sub)
		}
		dm = sub
	}

	dm.AddFieldMappingsAt(parts[len(parts)-1], fm)
}
