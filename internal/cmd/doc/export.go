package doc

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/fileio"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
)

type exportOptions struct {
	globalOptions
	to string
}

// NewCmdExport creates the doc export command.
func NewCmdExport() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a document to another file",
		Long: `Write a document to another file. The target's extension picks the
format: .md and .markdown produce markdown, anything else the HTML shell.`,
		Example: `  # Convert HTML to markdown
  rte doc export notes.html --to notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runExport(cmd.Context(), args[0], opts, nil)
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", "Target file (required)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runExport(ctx context.Context, path string, opts *exportOptions, ws *workspace.Workspace) error {
	if opts.to == "" {
		return fmt.Errorf("--to is required")
	}
	ws, err := opts.open(ctx, path, ws)
	if err != nil {
		return err
	}
	if err := fileio.Save(ctx, opts.to, ws.Doc); err != nil {
		return err
	}
	opts.renderer().Success(fmt.Sprintf("Exported %s to %s (%s)", path, opts.to, fileio.DetectFormat(opts.to)))
	return nil
}
