package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective rte configuration and where each value comes from.`,
		Example: `  # Show current config
  rte config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, fallback, envVar string) {
		_, _ = bold.Fprintf(w, "%-18s", label+":")
		if value == "" {
			_, _ = fmt.Fprint(w, fallback)
			_, _ = dim.Fprintln(w, "  (source: default)")
			return
		}

		_, _ = fmt.Fprint(w, value)

		source := "config"
		if v := os.Getenv(envVar); v != "" {
			source = envVar
		} else if fileErr != nil || fileValue != value {
			source = "-"
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Default format", cfg.DefaultFormat, fileCfg.DefaultFormat, cfg.Format(), "RTE_DEFAULT_FORMAT")
	printField("Output format", cfg.OutputFormat, fileCfg.OutputFormat, "table", "RTE_OUTPUT_FORMAT")
	printField("Exclusive menus", boolValue(cfg.ExclusiveMenus), boolValue(fileCfg.ExclusiveMenus), "false", "RTE_EXCLUSIVE_MENUS")
	printField("Lock aspect ratio", ptrValue(cfg.LockAspectRatio), ptrValue(fileCfg.LockAspectRatio), "true", "RTE_LOCK_ASPECT_RATIO")
	printField("Probe timeout", cfg.ProbeTimeout, fileCfg.ProbeTimeout, cfg.ProbeTimeoutDuration().String(), "RTE_PROBE_TIMEOUT")
	printField("Font dirs", strings.Join(cfg.FontDirs, ", "), strings.Join(fileCfg.FontDirs, ", "), "(platform defaults)", "RTE_FONT_DIRS")
	printField("Fallback fonts", strings.Join(cfg.FallbackFonts, ", "), strings.Join(fileCfg.FallbackFonts, ", "), "(built-in)", "")
	printField("Log file", cfg.LogFile, fileCfg.LogFile, config.DefaultLogPath(), "RTE_LOG_FILE")
	printField("Trace", boolValue(cfg.Trace), boolValue(fileCfg.Trace), "false", "RTE_TRACE")
	printField("Readonly", boolValue(cfg.Readonly), boolValue(fileCfg.Readonly), "false", "RTE_READONLY")

	_, _ = fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}

// boolValue renders false as unset so defaults show through.
func boolValue(b bool) string {
	if !b {
		return ""
	}
	return "true"
}

func ptrValue(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
