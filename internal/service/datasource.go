package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/docgraph/docgraph/internal/domain"
	"github.com/docgraph/docgraph/internal/metrics"
	"github.com/docgraph/docgraph/internal/models"
)

// Compile-time check: *DatasourceService must satisfy domain.DatasourceService.
var _ domain.DatasourceService = (*DatasourceService)(nil)

// DatasourceService answers per-datasource summaries across both collections.
// The vertex and edge halves of each summary run concurrently.
type DatasourceService struct {
	vertices VertexStore
	edges    EdgeStore
	engine   Pinger
	pub      Publisher
	log      *logrus.Logger
}

// NewDatasourceService creates a DatasourceService.
func NewDatasourceService(vertices VertexStore, edges EdgeStore, engine Pinger, pub Publisher, log *logrus.Logger) *DatasourceService {
	return &DatasourceService{vertices: vertices, edges: edges, engine: engine, pub: orNop(pub), log: log}
}

func requireDatasource(datasource string) error {
	if datasource == "" {
		return models.InvalidPredicate("datasource", "is required")
	}

	return nil
}

// Counts returns vertex and edge counts of datasource; -1 marks a failed half.
func (s *DatasourceService) Counts(ctx context.Context, datasource string) (models.Counts, error) {
	if err := requireDatasource(datasource); err != nil {
		return models.Counts{}, err
	}

	var out models.Counts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { out.V = s.vertices.Count(gctx, datasource); return nil })
	g.Go(func() error { out.E = s.edges.Count(gctx, datasource); return nil })
	_ = g.Wait() //nolint:errcheck // halves degrade instead of failing.

	return out, nil
}

// TotalCounts returns counts across every datasource and updates the gauges.
func (s *DatasourceService) TotalCounts(ctx context.Context) models.Counts {
	var out models.Counts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { out.V = s.vertices.CountAll(gctx); return nil })
	g.Go(func() error { out.E = s.edges.CountAll(gctx); return nil })
	_ = g.Wait() //nolint:errcheck // halves degrade instead of failing.

	if out.V >= 0 {
		metrics.VertexCount.Set(float64(out.V))
	}
	if out.E >= 0 {
		metrics.EdgeCount.Set(float64(out.E))
	}

	return out
}

// Labels returns label frequencies of datasource for both kinds.
func (s *DatasourceService) Labels(ctx context.Context, datasource string) (models.LabelCounts, error) {
	if err := requireDatasource(datasource); err != nil {
		return models.LabelCounts{}, err
	}

	var v, e []models.Bucket

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		v, err = s.vertices.Labels(gctx, datasource)
		return err
	})
	g.Go(func() error {
		var err error
		e, err = s.edges.Labels(gctx, datasource)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.LabelCounts{}, fmt.Errorf("aggregating labels: %w", err)
	}

	return models.LabelCounts{V: models.BucketMap(v), E: models.BucketMap(e)}, nil
}

// VertexKeys returns property-key frequencies of a vertex label.
func (s *DatasourceService) VertexKeys(ctx context.Context, datasource, label string) ([]models.Bucket, error) {
	return s.vertices.Keys(ctx, datasource, label)
}

// EdgeKeys returns property-key frequencies of an edge label.
func (s *DatasourceService) EdgeKeys(ctx context.Context, datasource, label string) ([]models.Bucket, error) {
	return s.edges.Keys(ctx, datasource, label)
}

// Remove deletes every element of datasource and returns per-kind removal
// counts; -1 marks a failed half.
func (s *DatasourceService) Remove(ctx context.Context, datasource string) (models.Counts, error) {
	if err := requireDatasource(datasource); err != nil {
		return models.Counts{}, err
	}

	var out models.Counts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.V, err = s.vertices.DeleteByDatasource(gctx, datasource)
		return err
	})
	g.Go(func() error {
		var err error
		out.E, err = s.edges.DeleteByDatasource(gctx, datasource)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Counts{}, fmt.Errorf("removing datasource: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"datasource": datasource,
		"vertices":   out.V,
		"edges":      out.E,
	}).Info("datasource removed")

	s.pub.Publish(models.ChangeEvent{Type: models.EventDatasourceRemove, Datasource: datasource, Count: max(out.V, 0) + max(out.E, 0)})

	return out, nil
}

// Reset drops both collections entirely.
func (s *DatasourceService) Reset(ctx context.Context) bool {
	var vok, eok bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { vok = s.vertices.Reset(gctx); return nil })
	g.Go(func() error { eok = s.edges.Reset(gctx); return nil })
	_ = g.Wait() //nolint:errcheck // halves degrade instead of failing.

	if vok && eok {
		s.log.Info("collections reset")
		s.pub.Publish(models.ChangeEvent{Type: models.EventReset})
	}

	return vok && eok
}

// Ready pings the engine.
func (s *DatasourceService) Ready(ctx context.Context) error {
	if s.engine == nil {
		return nil
	}

	if err := s.engine.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", models.ErrEngineUnavailable, err)
	}

	return nil
}
