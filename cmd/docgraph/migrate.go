package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/docgraph/docgraph/internal/config"
	"github.com/docgraph/docgraph/internal/db"
	"github.com/docgraph/docgraph/internal/db/migrations"
	"github.com/docgraph/docgraph/internal/dbpool"
)

var errNoDatabase = errors.New("DATABASE_URL is required for migrations")

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, cfg *config.Config, pool *dbpool.Pool) error {
				return db.RunMigrations(ctx, pool, cfg.NewLogger(), migrations.FS)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether each is applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, _ *config.Config, pool *dbpool.Pool) error {
				states, err := db.MigrationStatus(ctx, pool, migrations.FS)
				if err != nil {
					return err
				}

				return printMigrations(cmd.OutOrStdout(), states)
			})
		},
	})

	return cmd
}

func withPool(ctx context.Context, fn func(context.Context, *config.Config, *dbpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.DatabaseURL.Value() == "" {
		return errNoDatabase
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

func printMigrations(w io.Writer, states []db.MigrationState) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tFILE\tAPPLIED")

	for _, s := range states {
		fmt.Fprintf(tw, "%d\t%s\t%t\n", s.Version, s.File, s.Applied)
	}

	return tw.Flush()
}
