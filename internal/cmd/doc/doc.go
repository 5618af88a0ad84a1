// Package doc provides one-shot editing commands for documents on disk.
package doc

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/script"
	"github.com/open-cli-collective/richtext-cli/internal/view"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

// NewCmdDoc creates the doc command.
func NewCmdDoc() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Inspect and edit documents",
		Long: `Commands for inspecting and editing HTML and markdown documents.

Each command loads the file, applies one editing operation and saves the
result. Files ending in .md or .markdown are converted on load and save.`,
	}

	cmd.AddCommand(NewCmdNew())
	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdFormats())
	cmd.AddCommand(NewCmdExec())
	cmd.AddCommand(NewCmdLink())
	cmd.AddCommand(NewCmdAnchor())
	cmd.AddCommand(NewCmdImage())
	cmd.AddCommand(NewCmdMedia())
	cmd.AddCommand(NewCmdSource())
	cmd.AddCommand(NewCmdExport())

	return cmd
}

// globalOptions carries the persistent root flags.
type globalOptions struct {
	configPath string
	output     string
	noColor    bool
	out        io.Writer
}

func (o *globalOptions) bind(cmd *cobra.Command) {
	o.configPath, _ = cmd.Flags().GetString("config")
	o.output, _ = cmd.Flags().GetString("output")
	o.noColor, _ = cmd.Flags().GetBool("no-color")
	o.out = cmd.OutOrStdout()
}

func (o *globalOptions) renderer() *view.Renderer {
	r := view.NewRenderer(view.Format(o.output), o.noColor)
	if o.out != nil {
		r.SetWriter(o.out)
	}
	return r
}

// open returns ws when a test injected one, otherwise loads path with the
// configured collaborators.
func (o *globalOptions) open(ctx context.Context, path string, ws *workspace.Workspace) (*workspace.Workspace, error) {
	if err := view.ValidateFormat(o.output); err != nil {
		return nil, err
	}
	if ws != nil {
		return ws, nil
	}
	cfg, err := workspace.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	return workspace.Open(ctx, path, cfg, workspace.Options{})
}

// selectorFlags address the selection an operation applies to.
type selectorFlags struct {
	path        string
	offset      int
	focusPath   string
	focusOffset int
	text        string
}

func (f *selectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "path", "", "Node path of the selection anchor, e.g. 0,1")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Offset within the anchor node")
	cmd.Flags().StringVar(&f.focusPath, "focus-path", "", "Node path of the selection focus (makes a range)")
	cmd.Flags().IntVar(&f.focusOffset, "focus-offset", 0, "Offset within the focus node")
	cmd.Flags().StringVar(&f.text, "text", "", "Select by literal text only")
}

func (f *selectorFlags) empty() bool {
	return f.path == "" && f.focusPath == "" && f.text == "" && f.offset == 0 && f.focusOffset == 0
}

// selection resolves the flags against doc. Without any flag the whole
// document is selected.
func (f *selectorFlags) selection(doc *editor.Document) (*editor.Selection, error) {
	if f.empty() {
		return selectAll(doc), nil
	}
	sel := script.Selector{Path: f.path, Offset: f.offset, FocusOffset: f.focusOffset, Text: f.text}
	if f.focusPath != "" {
		focus := f.focusPath
		sel.FocusPath = &focus
	}
	return sel.Resolve(doc)
}

// caret resolves the flags to an insertion point. Without any flag the
// caret sits at the end of the document.
func (f *selectorFlags) caret(doc *editor.Document) (*editor.Selection, error) {
	if f.empty() {
		if last := markup.LastText(doc.Root()); last != nil {
			return editor.Caret(last, len(last.Data)), nil
		}
		return editor.Caret(doc.Root(), markup.ChildCount(doc.Root())), nil
	}
	return f.selection(doc)
}

func selectAll(doc *editor.Document) *editor.Selection {
	first := markup.FirstText(doc.Root())
	last := markup.LastText(doc.Root())
	if first == nil || last == nil {
		return editor.Caret(doc.Root(), 0)
	}
	return editor.Range(first, 0, last, len(last.Data))
}

// apply selects sel and runs one step. It reports whether the step was
// applied.
func apply(ctx context.Context, ws *workspace.Workspace, sel *editor.Selection, step script.Step) (bool, error) {
	ws.Doc.Select(sel)
	results, err := script.NewRunner(ws.Toolbar).Run(ctx, &script.Script{Steps: []script.Step{step}})
	if err != nil {
		return false, err
	}
	return len(results) == 1 && results[0].Applied, nil
}

// commit saves ws when the step applied, and reports either way.
func commit(ctx context.Context, ws *workspace.Workspace, o *globalOptions, what string, applied bool) error {
	r := o.renderer()
	if !applied {
		r.Warning(fmt.Sprintf("%s was not applied; %s left unchanged", what, ws.Path))
		return nil
	}
	if err := ws.Save(ctx); err != nil {
		return err
	}
	r.Success(fmt.Sprintf("Applied %s to %s", what, ws.Path))
	return nil
}
