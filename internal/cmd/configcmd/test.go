package configcmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/config"
	"github.com/open-cli-collective/richtext-cli/internal/fonts"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configuration",
		Long: `Check that the configuration is valid, that the font directories can be
read, and that the trace log can be written.`,
		Example: `  # Check config
  rte config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runTest(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(configPath string, noColor bool, w io.Writer, cfgs ...*config.Config) error {
	if noColor {
		color.NoColor = true
	}

	var cfg *config.Config
	if len(cfgs) > 0 && cfgs[0] != nil {
		cfg = cfgs[0]
	} else {
		var err error
		cfg, err = config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w (run 'rte init' to configure)", err)
		}
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	_, _ = fmt.Fprintf(w, "Checking configuration from %s...\n", configPath)

	if err := cfg.Validate(); err != nil {
		_, _ = red.Fprintln(w, "✗ Invalid configuration:", err)
		_, _ = fmt.Fprintln(w, "\nReconfigure with: rte init")
		return fmt.Errorf("invalid config: %w", err)
	}
	_, _ = green.Fprintln(w, "✓ Configuration is valid")

	for _, dir := range cfg.FontDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			_, _ = yellow.Fprintf(w, "! Font directory not readable: %s\n", dir)
		}
	}
	found := fonts.New(cfg.FontDirs, cfg.FallbackFonts).AvailableFonts()
	_, _ = green.Fprintf(w, "✓ %d fonts available\n", len(found))

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	if err := checkWritable(logPath); err != nil {
		_, _ = red.Fprintln(w, "✗ Trace log not writable:", err)
		return fmt.Errorf("trace log not writable: %w", err)
	}
	_, _ = green.Fprintf(w, "✓ Trace log writable: %s\n", logPath)

	return nil
}

func checkWritable(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
