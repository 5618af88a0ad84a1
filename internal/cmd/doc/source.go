package doc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/workspace"
)

// editFunc edits text and returns the result.
type editFunc func(initial string) (string, error)

type sourceOptions struct {
	globalOptions
	edit editFunc
}

// NewCmdSource creates the doc source command.
func NewCmdSource() *cobra.Command {
	opts := &sourceOptions{}

	cmd := &cobra.Command{
		Use:   "source <file>",
		Short: "Edit a document's markup in $EDITOR",
		Long: `Open the document's source markup in $EDITOR (or $VISUAL, falling back
to vi). The edited markup replaces the document when the editor exits.
Clearing the buffer empties the document.`,
		Example: `  # Edit the source
  rte doc source notes.html

  # Use a specific editor
  EDITOR=nano rte doc source notes.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runSource(cmd.Context(), args[0], opts, nil)
		},
	}

	return cmd
}

func runSource(ctx context.Context, path string, opts *sourceOptions, ws *workspace.Workspace) error {
	ws, err := opts.open(ctx, path, ws)
	if err != nil {
		return err
	}
	if ws.Doc.Readonly() {
		return fmt.Errorf("%s is opened readonly", path)
	}

	edit := opts.edit
	if edit == nil {
		edit = openEditor
	}

	ws.Doc.ToggleView()
	before := ws.Doc.Source()
	after, err := edit(before)
	if err != nil {
		ws.Doc.ToggleView()
		return err
	}
	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		ws.Doc.ToggleView()
		opts.renderer().Warning("No changes made")
		return nil
	}
	ws.Doc.SetSource(after)
	ws.Doc.ToggleView()

	return commit(ctx, ws, &opts.globalOptions, "source edit", true)
}

func openEditor(initial string) (string, error) {
	tmpfile, err := os.CreateTemp("", "rte-source-*.html")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.WriteString(initial); err != nil {
		return "", err
	}
	_ = tmpfile.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, tmpfile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	data, err := os.ReadFile(tmpfile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %w", err)
	}
	return string(data), nil
}
