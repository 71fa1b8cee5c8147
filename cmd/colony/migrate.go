package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/colony/pkg/db"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the framework migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := opts.logger(cmd, cfg)
			ctx := cmd.Context()

			adapter, err := db.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Shutdown(adapter)(ctx); err != nil {
					log.WarnContext(ctx, "failed to close database", slog.Any("error", err))
				}
			}()

			if err := db.Migrate(ctx, adapter, db.Migrations(), cfg.Database.MigrationsTable, log); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s database\n", cfg.Database.Type)
			return nil
		},
	}
}
