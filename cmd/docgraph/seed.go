package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docgraph/docgraph/internal/config"
	"github.com/docgraph/docgraph/internal/domain"
	"github.com/docgraph/docgraph/internal/models"
)

// fixture is a seed file: one datasource with its vertices and edges.
type fixture struct {
	Datasource string          `yaml:"datasource"`
	Vertices   []models.Vertex `yaml:"vertices"`
	Edges      []models.Edge   `yaml:"edges"`
}

// seedReport counts what a seed run wrote.
type seedReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

var errSeedDegraded = errors.New("document engine unavailable")

func newSeedCmd() *cobra.Command {
	var datasource string

	cmd := &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load vertices and edges from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			if datasource != "" {
				fx.Datasource = datasource
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log := cfg.NewLogger()

			if cfg.Engine == config.EngineMemory {
				log.Warn("seeding the memory engine: data is discarded when this command exits")
			}

			ctx := cmd.Context()
			eng, err := openEngine(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer eng.Close() //nolint:errcheck // best-effort close on exit.

			svc := newServices(eng, cfg, log, nil)

			rep, err := seedFixture(ctx, svc.vertices, svc.edges, fx)
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"datasource": fx.Datasource,
				"created":    rep.Created,
				"updated":    rep.Updated,
			}).Info("seed complete")

			return nil
		},
	}

	cmd.Flags().StringVar(&datasource, "datasource", "", "Override the fixture's datasource")

	return cmd
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}

	if fx.Datasource == "" {
		return nil, fmt.Errorf("fixture %s: %w", path, models.ErrMissingDatasource)
	}

	return &fx, nil
}

// seedFixture upserts every vertex, then every edge. Elements without a
// datasource take the fixture's; a different one is rejected.
func seedFixture(ctx context.Context, vertices domain.VertexService, edges domain.EdgeService, fx *fixture) (seedReport, error) {
	var rep seedReport

	count := func(created bool) {
		if created {
			rep.Created++
		} else {
			rep.Updated++
		}
	}

	for i := range fx.Vertices {
		v := fx.Vertices[i]
		if err := scope(&v.Element, fx.Datasource); err != nil {
			return rep, fmt.Errorf("vertex %q: %w", v.ID, err)
		}

		_, created, ok, err := vertices.UpsertVertex(ctx, v)
		if err != nil {
			return rep, fmt.Errorf("vertex %q: %w", v.ID, err)
		}
		if !ok {
			return rep, fmt.Errorf("vertex %q: %w", v.ID, errSeedDegraded)
		}
		count(created)
	}

	for i := range fx.Edges {
		e := fx.Edges[i]
		if err := scope(&e.Element, fx.Datasource); err != nil {
			return rep, fmt.Errorf("edge %q: %w", e.ID, err)
		}

		_, created, ok, err := edges.UpsertEdge(ctx, e)
		if err != nil {
			return rep, fmt.Errorf("edge %q: %w", e.ID, err)
		}
		if !ok {
			return rep, fmt.Errorf("edge %q: %w", e.ID, errSeedDegraded)
		}
		count(created)
	}

	return rep, nil
}

func scope(el *models.Element, datasource string) error {
	switch el.Datasource {
	case "":
		el.Datasource = datasource
	case datasource:
	default:
		return models.ErrDatasourceMismatch
	}

	return nil
}
