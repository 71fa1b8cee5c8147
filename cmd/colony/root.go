package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/logger"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	configPath string
	format     string
	verbose    bool
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "colony",
		Short: "Maintenance tool for colony applications",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !slices.Contains(validFormats, opts.format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.format, validFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "app/config.yaml", "configuration file")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newRoutesCommand(opts))
	cmd.AddCommand(newMatchCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newPurgeCommand(opts))

	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

// logger writes to stderr so that JSON output on stdout stays parseable.
func (o *rootOptions) logger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	lc := cfg.Logger()
	lc.Sentry.DSN = ""
	if o.verbose {
		lc.Level = "debug"
	}
	return logger.NewWriter(cmd.ErrOrStderr(), lc)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
