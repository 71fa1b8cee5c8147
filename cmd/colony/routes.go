package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/colony/pkg/route"
)

type ruleView struct {
	Pattern string   `json:"pattern"`
	Action  string   `json:"action"`
	Method  string   `json:"method"`
	Extra   []string `json:"extra,omitempty"`
}

type routeView struct {
	Path   string   `json:"path"`
	Action string   `json:"action"`
	Method string   `json:"method"`
	Extra  []string `json:"extra,omitempty"`
}

func newRoutesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routing rules in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			rules, err := cfg.Rules()
			if err != nil {
				return err
			}

			views := make([]ruleView, 0, len(rules))
			for _, r := range rules {
				m := r.Mapping()
				v := ruleView{Pattern: r.Pattern(), Action: m.Action.String(), Method: m.Method.String()}
				for _, f := range m.Extra {
					v.Extra = append(v.Extra, f.String())
				}
				views = append(views, v)
			}

			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no routing rules; paths split into action/method/extra")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tACTION\tMETHOD\tEXTRA")
			for _, v := range views {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Pattern, dash(v.Action), dash(v.Method), dash(strings.Join(v.Extra, ",")))
			}
			return tw.Flush()
		},
	}
}

func newMatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "match <path>...",
		Short: "Resolve request paths to action, method and extra",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			rules, err := cfg.Rules()
			if err != nil {
				return err
			}
			m := route.NewMatcher(cfg.BaseURL, cfg.EntryPoint, cfg.DefaultAction, rules)

			views := make([]routeView, 0, len(args))
			for _, p := range args {
				r := m.Match(p)
				views = append(views, routeView{Path: p, Action: r.Action, Method: r.Method, Extra: r.Extra.Values()})
			}

			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), views)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tACTION\tMETHOD\tEXTRA")
			for _, v := range views {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Path, v.Action, dash(v.Method), dash(strings.Join(v.Extra, ",")))
			}
			return tw.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
