// Package fonts provides the fonts command.
package fonts

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/config"
	fontsrc "github.com/open-cli-collective/richtext-cli/internal/fonts"
	"github.com/open-cli-collective/richtext-cli/internal/view"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

type fontsOptions struct {
	configPath string
	output     string
	noColor    bool
	dirs       []string
	out        io.Writer
}

// NewCmdFonts creates the fonts command.
func NewCmdFonts() *cobra.Command {
	opts := &fontsOptions{}

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the fonts offered by the font name selector",
		Long: `List the font families the editor offers. Fonts are read from the
configured font_dirs (or the platform font directories) and fall back to a
built-in list when none are found.`,
		Example: `  # List fonts
  rte fonts

  # Scan a specific directory
  rte fonts --dir ~/fonts -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			return runFonts(opts, nil)
		},
	}

	cmd.Flags().StringSliceVar(&opts.dirs, "dir", nil, "Font directory to scan (repeatable, overrides config)")

	return cmd
}

func runFonts(opts *fontsOptions, source editor.FontSource) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	if source == nil {
		cfg, err := workspace.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		source = newSource(cfg, opts.dirs)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	}
	return renderer.RenderList(source.AvailableFonts())
}

func newSource(cfg *config.Config, dirs []string) editor.FontSource {
	if len(dirs) == 0 {
		dirs = cfg.FontDirs
	}
	return fontsrc.New(dirs, cfg.FallbackFonts)
}
