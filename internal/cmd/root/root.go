// Package root provides the root command for the rte CLI.
package root

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/cmd/apply"
	"github.com/open-cli-collective/richtext-cli/internal/cmd/completion"
	"github.com/open-cli-collective/richtext-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/richtext-cli/internal/cmd/doc"
	"github.com/open-cli-collective/richtext-cli/internal/cmd/edit"
	"github.com/open-cli-collective/richtext-cli/internal/cmd/fonts"
	initcmd "github.com/open-cli-collective/richtext-cli/internal/cmd/init"
	"github.com/open-cli-collective/richtext-cli/internal/config"
	"github.com/open-cli-collective/richtext-cli/internal/logging"
	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
	"github.com/open-cli-collective/richtext-cli/internal/version"
)

// NewCmdRoot creates the root command for rte.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rte",
		Short: "A rich-text editor for HTML and markdown documents",
		Long: `rte is a rich-text editing engine for the terminal.

It edits HTML and markdown documents either interactively, with a toolbar
of formatting menus and a source view, or one operation at a time from
the command line and from scripts.

Get started by running: rte init`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version.Version,
		PersistentPreRunE: setup,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/rte/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().Bool("trace", false, "write a structured trace of editor events to the log file")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(doc.NewCmdDoc())
	cmd.AddCommand(apply.NewCmdApply())
	cmd.AddCommand(edit.NewCmdEdit())
	cmd.AddCommand(fonts.NewCmdFonts())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}

// setup points the trace log at its configured destination and applies
// config defaults to flags the user left alone. A broken config is not an
// error here so that init and config can repair it.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, _ := config.LoadWithEnv(path)

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	logging.Configure(logPath)

	trace, _ := cmd.Flags().GetBool("trace")
	logging.SetTraceEnabled(trace || cfg.Trace)

	if f := cmd.Flags().Lookup("output"); f != nil && !f.Changed && cfg.OutputFormat != "" {
		if err := f.Value.Set(cfg.OutputFormat); err != nil {
			return err
		}
	}

	events.App.Start(map[string]interface{}{
		"command": cmd.CommandPath(),
		"version": version.Version,
		"os":      runtime.GOOS,
	})
	return nil
}
