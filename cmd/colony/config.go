package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Validate the configuration and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			// Round trip through YAML so both formats show the same keys and
			// env-only groups, which carry credentials, stay hidden.
			if opts.format == "json" {
				raw, err := yaml.Marshal(cfg.Settings)
				if err != nil {
					return err
				}
				var settings map[string]any
				if err := yaml.Unmarshal(raw, &settings); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), settings)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg.Settings); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
