package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/docgraph/docgraph/internal/middleware"
	"github.com/docgraph/docgraph/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log           *logrus.Logger
	Hub           *ws.Hub
	Vertices      VertexService
	Edges         EdgeService
	Graph         GraphService
	Datasources   DatasourceService
	CORSOrigins   []string
	Version       string
	Engine        string
	SchemaVersion int
	RateLimit     int
	RateBurst     int
	HSTS          bool
}

// Router-level limits.
const (
	maxBodySize      = 10 << 20 // 10 MB
	defaultRateLimit = 100      // requests per second per IP
	defaultRateBurst = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	rate, burst := deps.RateLimit, deps.RateBurst
	if rate <= 0 {
		rate = defaultRateLimit
	}
	if burst <= 0 {
		burst = defaultRateBurst
	}

	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders(deps.HSTS))
	r.Use(middleware.MaxBodySize(maxBodySize))
	// cors.New panics on an empty origin list; no origins means same-origin only.
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}
	r.Use(middleware.NewRateLimiter(ctx, rate, burst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	var clients ClientCounter
	if deps.Hub != nil {
		clients = deps.Hub
	}

	health := NewHealthHandler(deps.Datasources, clients, log, deps.Version, deps.Engine, deps.SchemaVersion)
	vertices := NewVertexHandler(deps.Vertices, log)
	edges := NewEdgeHandler(deps.Edges, log)
	graph := NewGraphHandler(deps.Graph, log)
	datasources := NewDatasourceHandler(deps.Datasources, log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	if deps.Hub != nil {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}

	// Index-wide operations.
	api.PUT("/reset", datasources.Reset)
	api.GET("/count", datasources.TotalCount)

	ds := api.Group("/:ds")

	// Datasource summaries.
	ds.GET("/count", datasources.Count)
	ds.GET("/labels", datasources.Labels)
	ds.GET("/labels/v/:label/keys", datasources.VertexKeys)
	ds.GET("/labels/e/:label/keys", datasources.EdgeKeys)
	ds.DELETE("", datasources.Remove)

	// Vertices.
	v := ds.Group("/v")
	v.POST("", vertices.Create)
	v.PUT("", vertices.Upsert)
	v.PUT("/:id", vertices.Update)
	v.GET("/:id", vertices.Get)
	v.DELETE("/:id", vertices.Delete)
	v.GET("/:id/neighbors", graph.Neighbors)
	v.GET("/:id/edges", graph.Edges)
	registerQueries(v, log, "vertex", deps.Vertices.QueryVertices)

	// Edges.
	e := ds.Group("/e")
	e.POST("", edges.Create)
	e.PUT("", edges.Upsert)
	e.PUT("/:id", edges.Update)
	e.GET("/:id", edges.Get)
	e.DELETE("/:id", edges.Delete)
	e.GET("/:id/other/:vid", graph.Other)
	registerQueries(e, log, "edge", deps.Edges.QueryEdges)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
