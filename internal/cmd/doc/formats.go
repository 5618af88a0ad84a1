package doc

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/workspace"
)

type formatsOptions struct {
	globalOptions
	sel selectorFlags
}

// NewCmdFormats creates the doc formats command.
func NewCmdFormats() *cobra.Command {
	opts := &formatsOptions{}

	cmd := &cobra.Command{
		Use:   "formats <file>",
		Short: "List the formats active at a selection",
		Long: `List the formatting tags that enclose a selection.

A range reports every tag between its common ancestor and the document
root. A caret reports nothing. A text-only selection (--text) reports the
tags found in the selected markup.`,
		Example: `  # Formats of the whole document
  rte doc formats notes.html

  # Formats of a range inside the first paragraph
  rte doc formats notes.html --path 0,0 --focus-path 0,0 --focus-offset 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runFormats(cmd.Context(), args[0], opts, nil)
		},
	}

	opts.sel.register(cmd)

	return cmd
}

func runFormats(ctx context.Context, path string, opts *formatsOptions, ws *workspace.Workspace) error {
	ws, err := opts.open(ctx, path, ws)
	if err != nil {
		return err
	}
	sel, err := opts.sel.selection(ws.Doc)
	if err != nil {
		return err
	}
	ws.Doc.Select(sel)
	return opts.renderer().RenderList(ws.Doc.ActiveFormats().Sorted())
}
