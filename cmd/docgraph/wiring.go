package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/config"
	"github.com/docgraph/docgraph/internal/db"
	"github.com/docgraph/docgraph/internal/db/migrations"
	"github.com/docgraph/docgraph/internal/dbpool"
	"github.com/docgraph/docgraph/internal/engine"
	"github.com/docgraph/docgraph/internal/engine/bleveengine"
	"github.com/docgraph/docgraph/internal/engine/memengine"
	"github.com/docgraph/docgraph/internal/engine/pgengine"
	"github.com/docgraph/docgraph/internal/service"
	"github.com/docgraph/docgraph/internal/store"
)

// openEngine builds the document engine cfg selects. The postgres engine
// applies pending migrations before it is returned.
func openEngine(ctx context.Context, cfg *config.Config, log *logrus.Logger) (engine.Engine, error) {
	switch cfg.Engine {
	case config.EngineBleve:
		return bleveengine.New(cfg.BlevePath, log), nil
	case config.EnginePostgres:
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			pool.Close()

			return nil, err
		}

		return pgengine.New(pool, log), nil
	default:
		return memengine.New(), nil
	}
}

// services is the wired service layer.
type services struct {
	vertices    *service.VertexService
	edges       *service.EdgeService
	graph       *service.GraphService
	datasources *service.DatasourceService
}

func newServices(eng engine.Engine, cfg *config.Config, log *logrus.Logger, pub service.Publisher) services {
	base := store.Base{Engine: eng, Log: log, MaxResultSize: cfg.MaxResultSize}
	vs := store.NewVertexStore(base, cfg.VertexCollection)
	es := store.NewEdgeStore(base, cfg.EdgeCollection)

	return services{
		vertices:    service.NewVertexService(vs, es, pub, log),
		edges:       service.NewEdgeService(es, pub, log),
		graph:       service.NewGraphService(vs, es, log, cfg.MaxResultSize),
		datasources: service.NewDatasourceService(vs, es, eng, pub, log),
	}
}

func schemaVersion(cfg *config.Config) int {
	if cfg.Engine != config.EnginePostgres {
		return 0
	}

	return db.SchemaVersion()
}
