// Command example serves a small contact list built on colony.
//
// Run from the repository root:
//
//	go run ./example
//
// COLONY_CONFIG selects another configuration file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrymomot/colony"
	"github.com/dmitrymomot/colony/example/controllers"
	"github.com/dmitrymomot/colony/example/migrations"
	"github.com/dmitrymomot/colony/example/views"
	"github.com/dmitrymomot/colony/middlewares"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	path := os.Getenv("COLONY_CONFIG")
	if path == "" {
		path = "example/config.yaml"
	}
	cfg, err := colony.LoadConfig(path)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logger(), middlewares.RequestIDExtractor())

	if err := os.MkdirAll("var", 0o755); err != nil {
		return err
	}
	adapter, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, adapter, migrations.FS, migrations.Table, log); err != nil {
		_ = adapter.Close()
		return err
	}

	app, err := colony.New(ctx, cfg,
		colony.WithLogger(log),
		colony.WithDB(adapter),
		colony.WithRenderer(display.NewFS(views.FS)),
		colony.WithControllers(controllers.All()),
	)
	if err != nil {
		_ = adapter.Close()
		return err
	}

	return app.Run(colony.ShutdownHook(db.Shutdown(adapter)))
}
