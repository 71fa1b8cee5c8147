package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/redis"
	"github.com/dmitrymomot/colony/pkg/session"
)

var errMemorySessions = errors.New("memory sessions live in the server process and cannot be purged from outside")

func newPurgeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete sessions older than the session timeout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := opts.logger(cmd, cfg)
			ctx := cmd.Context()

			var store session.Store
			switch cfg.SessionType {
			case config.SessionMemory:
				return errMemorySessions
			case config.SessionRedis:
				client, err := redis.Open(ctx, cfg.Redis)
				if err != nil {
					return err
				}
				defer func() {
					if err := redis.Shutdown(client)(ctx); err != nil {
						log.WarnContext(ctx, "failed to close redis", slog.Any("error", err))
					}
				}()
				store = session.NewRedisStore(client, cfg.Timeout())
			default:
				adapter, err := db.Open(ctx, cfg.Database)
				if err != nil {
					return err
				}
				defer func() {
					if err := db.Shutdown(adapter)(ctx); err != nil {
						log.WarnContext(ctx, "failed to close database", slog.Any("error", err))
					}
				}()
				store = session.NewDBStore(adapter, session.DefaultTable)
			}

			m := session.NewManager(store, session.WithTimeout(cfg.Timeout()), session.WithLogger(log))
			n := m.Purge(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", n)
			return nil
		},
	}
}
