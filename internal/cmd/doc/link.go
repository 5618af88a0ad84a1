package doc

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/script"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
)

// askFunc asks the user for a single value.
type askFunc func(title, initial string) (string, error)

type promptOptions struct {
	globalOptions
	sel selectorFlags
	ask askFunc
}

// NewCmdLink creates the doc link command.
func NewCmdLink() *cobra.Command {
	opts := &promptOptions{}

	cmd := &cobra.Command{
		Use:   "link <file> [url]",
		Short: "Link the selection to a URL",
		Long: `Wrap the selection in a link. Only http and https URLs are accepted.

When the URL is omitted you are prompted for it.`,
		Example: `  # Link the first block
  rte doc link notes.html https://example.com --path 0,0 --focus-path 0,0 --focus-offset 4`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runPrompted(cmd.Context(), "link", args, opts, nil)
		},
	}

	opts.sel.register(cmd)

	return cmd
}

// NewCmdAnchor creates the doc anchor command.
func NewCmdAnchor() *cobra.Command {
	opts := &promptOptions{}

	cmd := &cobra.Command{
		Use:   "anchor <file> [name]",
		Short: "Insert a named anchor",
		Long: `Insert a named anchor at the selection. Without selector flags the
anchor goes at the end of the document.

When the name is omitted you are prompted for it.`,
		Example: `  # Anchor the start of the second block
  rte doc anchor notes.html intro --path 1,0`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runPrompted(cmd.Context(), "anchor", args, opts, nil)
		},
	}

	opts.sel.register(cmd)

	return cmd
}

func runPrompted(ctx context.Context, kind string, args []string, opts *promptOptions, ws *workspace.Workspace) error {
	path := args[0]
	ws, err := opts.open(ctx, path, ws)
	if err != nil {
		return err
	}

	value := ""
	if len(args) > 1 {
		value = args[1]
	} else {
		ask := opts.ask
		if ask == nil {
			ask = askHuh
		}
		title, initial := "Link URL", "https://"
		if kind == "anchor" {
			title, initial = "Anchor name", ""
		}
		value, err = ask(title, initial)
		if err != nil {
			return err
		}
	}

	step := script.Step{Link: &value}
	sel, err := opts.sel.selection(ws.Doc)
	if kind == "anchor" {
		step = script.Step{Anchor: &value}
		sel, err = opts.sel.caret(ws.Doc)
	}
	if err != nil {
		return err
	}

	applied, err := apply(ctx, ws, sel, step)
	if err != nil {
		return err
	}
	return commit(ctx, ws, &opts.globalOptions, fmt.Sprintf("%s %q", kind, value), applied)
}

func askHuh(title, initial string) (string, error) {
	value := initial
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Run()
	return value, err
}
