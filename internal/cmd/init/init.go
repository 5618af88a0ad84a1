// Package init provides the init command for rte.
package init

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/config"
	"github.com/open-cli-collective/richtext-cli/internal/fonts"
)

type initOptions struct {
	configPath   string
	format       string
	probeTimeout string
	fontDirs     []string
	noInput      bool
	force        bool
	noVerify     bool
	out          io.Writer
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize rte configuration",
		Long: `Initialize rte with your editing preferences.

This command will guide you through choosing a default document format,
menu behaviour, media defaults and font directories. The configuration
will be saved to ~/.config/rte/config.yml.`,
		Example: `  # Interactive setup
  rte init

  # Non-interactive setup
  rte init --format md --probe-timeout 5s --no-input`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.out = cmd.OutOrStdout()
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Default document format (html or md)")
	cmd.Flags().StringVar(&opts.probeTimeout, "probe-timeout", "", "Media probe timeout (e.g. 10s)")
	cmd.Flags().StringSliceVar(&opts.fontDirs, "font-dir", nil, "Font directory to scan (repeatable)")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Write the configuration without prompting")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing configuration without asking")
	cmd.Flags().BoolVar(&opts.noVerify, "no-verify", false, "Skip font directory verification")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	out := opts.out
	if out == nil {
		out = os.Stdout
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noInput {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			_, _ = fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		DefaultFormat: opts.format,
		ProbeTimeout:  opts.probeTimeout,
		FontDirs:      opts.fontDirs,
	}

	if !opts.noInput {
		if err := runForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !opts.noVerify {
		_, _ = fmt.Fprint(out, "Scanning fonts... ")
		n, err := verifyFonts(cfg)
		if err != nil {
			_, _ = fmt.Fprintln(out, "failed!")
			return fmt.Errorf("font verification failed: %w", err)
		}
		_, _ = fmt.Fprintf(out, "%d found\n", n)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nYou're all set! Try running:")
	_, _ = fmt.Fprintln(out, "  rte doc new notes."+cfg.Format())
	_, _ = fmt.Fprintln(out, "  rte edit notes."+cfg.Format())

	return nil
}

func runForm(cfg *config.Config) error {
	format := cfg.Format()
	output := "table"
	exclusive := false
	lock := true
	timeout := cfg.ProbeTimeout
	dirs := strings.Join(cfg.FontDirs, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default format").
				Description("Format for new documents").
				Options(huh.NewOption("HTML", "html"), huh.NewOption("Markdown", "md")).
				Value(&format),

			huh.NewSelect[string]().
				Title("Output format").
				Description("Default --output for commands").
				Options(huh.NewOption("Table", "table"), huh.NewOption("JSON", "json"), huh.NewOption("Plain", "plain")).
				Value(&output),

			huh.NewConfirm().
				Title("Exclusive menus").
				Description("Opening one toolbar menu closes the others").
				Value(&exclusive),

			huh.NewConfirm().
				Title("Lock aspect ratio").
				Description("New images and media keep their natural proportions").
				Value(&lock),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Probe timeout (optional)").
				Description("How long to wait when measuring remote media").
				Placeholder("10s").
				Value(&timeout).
				Validate(validateTimeout),

			huh.NewInput().
				Title("Font directories (optional)").
				Description("Comma-separated; empty uses the platform defaults").
				Value(&dirs),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	applyAnswers(cfg, format, output, exclusive, lock, timeout, dirs)
	return nil
}

// applyAnswers copies form answers into cfg, leaving defaults unset so the
// file stays minimal.
func applyAnswers(cfg *config.Config, format, output string, exclusive, lock bool, timeout, dirs string) {
	cfg.DefaultFormat = ""
	if format != "html" {
		cfg.DefaultFormat = format
	}
	cfg.OutputFormat = ""
	if output != "table" {
		cfg.OutputFormat = output
	}
	cfg.ExclusiveMenus = exclusive
	cfg.LockAspectRatio = nil
	if !lock {
		cfg.LockAspectRatio = &lock
	}
	cfg.ProbeTimeout = strings.TrimSpace(timeout)
	cfg.FontDirs = splitDirs(dirs)
}

func validateTimeout(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("not a duration, e.g. 10s")
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func splitDirs(s string) []string {
	var dirs []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// verifyFonts checks the configured font directories and counts the fonts
// they provide.
func verifyFonts(cfg *config.Config) (int, error) {
	for _, dir := range cfg.FontDirs {
		info, err := os.Stat(dir)
		if err != nil {
			return 0, fmt.Errorf("font directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return 0, fmt.Errorf("font directory %s is not a directory", filepath.Clean(dir))
		}
	}
	return len(fonts.New(cfg.FontDirs, cfg.FallbackFonts).AvailableFonts()), nil
}
