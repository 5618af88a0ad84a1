package doc

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/script"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

type execOptions struct {
	globalOptions
	sel    selectorFlags
	dryRun bool
}

// NewCmdExec creates the doc exec command.
func NewCmdExec() *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec <file> <command> [value]",
		Short: "Run an editing command on a selection",
		Long: `Run one editing command against a selection and save the result.

Without selector flags the whole document is selected. Available commands:
  ` + strings.Join(editor.Vocabulary(), ", "),
		Example: `  # Bold the whole document
  rte doc exec notes.html bold

  # Turn the first block into a heading
  rte doc exec notes.html formatBlock h2 --path 0,0

  # Preview without saving
  rte doc exec notes.html italic --dry-run`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			value := ""
			if len(args) == 3 {
				value = args[2]
			}
			return runExec(cmd.Context(), args[0], args[1], value, opts, nil)
		},
	}

	opts.sel.register(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the result instead of saving")

	return cmd
}

func runExec(ctx context.Context, path, command, value string, opts *execOptions, ws *workspace.Workspace) error {
	if !known(command) {
		return fmt.Errorf("unknown command %q (see 'rte doc exec --help')", command)
	}
	ws, err := opts.open(ctx, path, ws)
	if err != nil {
		return err
	}
	sel, err := opts.sel.selection(ws.Doc)
	if err != nil {
		return err
	}

	step := script.Step{Exec: command}
	if value != "" {
		step.Value = &value
	}
	applied, err := apply(ctx, ws, sel, step)
	if err != nil {
		return err
	}
	if opts.dryRun {
		opts.renderer().RenderText(ws.Doc.Content())
		return nil
	}
	return commit(ctx, ws, &opts.globalOptions, command, applied)
}

func known(command string) bool {
	for _, name := range editor.Vocabulary() {
		if strings.EqualFold(name, command) {
			return true
		}
	}
	return false
}
