// Package edit provides the interactive editor command.
package edit

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/tui"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

// runner runs the interactive session for tb.
type runner func(ctx context.Context, tb *editor.Toolbar, name string) error

type editOptions struct {
	configPath string
	readonly   bool
	wsOpts     workspace.Options
}

// NewCmdEdit creates the edit command.
func NewCmdEdit() *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a document interactively",
		Long: `Open a document in the terminal editor.

F1-F4 toggle the File, Edit, Format and Insert menus. Use the arrow keys to
move between blocks, shift+arrows to extend the selection, and enter to pick
a menu control. Press ? for every key binding.

The file is created on first save if it does not exist.`,
		Example: `  # Edit a document
  rte edit notes.html

  # Browse without modifying
  rte edit notes.md --readonly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			if cmd.Flags().Changed("readonly") {
				opts.wsOpts.Readonly = &opts.readonly
			}
			return runEdit(cmd.Context(), args[0], opts, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.readonly, "readonly", false, "Open the document readonly")

	return cmd
}

func runEdit(ctx context.Context, path string, opts *editOptions, run runner) error {
	cfg, err := workspace.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	wsOpts := opts.wsOpts
	wsOpts.AllowMissing = true
	ws, err := workspace.Open(ctx, path, cfg, wsOpts)
	if err != nil {
		return err
	}

	if run == nil {
		run = tui.Run
	}
	return run(ctx, ws.Toolbar, filepath.Base(path))
}
