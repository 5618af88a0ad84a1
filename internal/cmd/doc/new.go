package doc

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/fileio"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

type newOptions struct {
	globalOptions
	content string
	force   bool
}

// NewCmdNew creates the doc new command.
func NewCmdNew() *cobra.Command {
	opts := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a new document",
		Long:  `Create a new document in the fixed document shell, or as markdown when the file ends in .md.`,
		Example: `  # Create an empty document
  rte doc new notes.html

  # Seed it with content
  rte doc new notes.md --content "<h1>Notes</h1>"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runNew(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.content, "content", "", "Initial markup for the document body")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func runNew(ctx context.Context, path string, opts *newOptions) error {
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	doc := editor.NewDocument()
	if opts.content != "" {
		doc.Load(opts.content)
	}
	if err := fileio.Save(ctx, path, doc); err != nil {
		return err
	}

	opts.renderer().Success(fmt.Sprintf("Created %s", path))
	return nil
}
