// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/config"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage rte configuration",
		Long:  `Commands for viewing, testing, and clearing rte configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// envVars lists every environment variable that overrides the config file.
var envVars = []string{
	"RTE_DEFAULT_FORMAT", "RTE_OUTPUT_FORMAT", "RTE_EXCLUSIVE_MENUS",
	"RTE_LOCK_ASPECT_RATIO", "RTE_PROBE_TIMEOUT", "RTE_FONT_DIRS",
	"RTE_LOG_FILE", "RTE_TRACE", "RTE_READONLY",
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.DefaultConfigPath()
	}
	return path
}
