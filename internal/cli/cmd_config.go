package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/todo/internal/config"
)

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
		Long: `Inspect and initialize configuration.

Configuration is resolved in order (later overrides earlier):
  1. Built-in defaults
  2. Config file (~/.todo/config.yaml, or --config)
  3. Environment variables (TODO_*, e.g. TODO_DATABASE_PATH)
  4. Flags (--db, --color)`,
		Annotations: map[string]string{
			annotationNoStore:        "",
			annotationConfigOptional: "",
		},
	}

	cmd.AddCommand(newConfigPathCmd(a))
	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigInitCmd(a))
	return cmd
}

func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return a.cfg.DefaultConfigPath()
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath())
			return nil
		}),
	}
}

func newConfigShowCmd(a *app) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show every configuration key with its effective value.

Example:
  todo config show
  todo config show --source    # include where each value came from`,
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !a.quiet {
				if a.cfg.ConfigFile != "" {
					fmt.Fprintf(out, "# config file: %s\n", a.cfg.ConfigFile)
				} else {
					fmt.Fprintln(out, "# config file: none (using defaults)")
				}
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, s := range a.cfg.Settings() {
				if showSource {
					fmt.Fprintf(tw, "%s\t%s\t(%s)\n", s.Key, displayValue(s.Value), s.Source)
				} else {
					fmt.Fprintf(tw, "%s\t%s\n", s.Key, displayValue(s.Value))
				}
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "show the source of each value")
	return cmd
}

func displayValue(v string) string {
	if v == "" {
		return `""`
	}
	return v
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
