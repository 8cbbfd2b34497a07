package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/internal/api"
	"github.com/docgraph/docgraph/internal/config"
	"github.com/docgraph/docgraph/internal/ws"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, cfg.NewLogger())
		},
	}
}

// serve runs the server until ctx is cancelled, then drains connections.
func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	eng, err := openEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck // best-effort close on exit.

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	svc := newServices(eng, cfg, log, hub)

	if err := svc.datasources.Ready(ctx); err != nil {
		log.WithError(err).Warn("document engine not ready at startup")
	}

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:           log,
		Hub:           hub,
		Vertices:      svc.vertices,
		Edges:         svc.edges,
		Graph:         svc.graph,
		Datasources:   svc.datasources,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       config.Version,
		Engine:        cfg.Engine,
		SchemaVersion: schemaVersion(cfg),
		RateLimit:     cfg.RateLimit,
		RateBurst:     cfg.RateBurst,
		HSTS:          cfg.HSTS,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"engine":  cfg.Engine,
			"version": config.Version,
		}).Info("docgraph listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", srv.Addr, err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
