// Package apply provides the apply command, which runs a scripted editing
// session against a document.
package apply

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/script"
	"github.com/open-cli-collective/richtext-cli/internal/view"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
)

type applyOptions struct {
	configPath string
	output     string
	noColor    bool
	dryRun     bool
	create     bool
	out        io.Writer
}

type applyResult struct {
	Path    string          `json:"path"`
	Saved   bool            `json:"saved"`
	Steps   []script.Result `json:"steps"`
	Content string          `json:"content,omitempty"`
}

// NewCmdApply creates the apply command.
func NewCmdApply() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <file> <script.yaml>",
		Short: "Run a scripted editing session",
		Long: `Run the steps of a YAML script against a document and save the result.

Each step holds exactly one operation:

  select:  {path: "0,0", offset: 0, focus_path: "0,0", focus_offset: 5}
  exec:    bold            (value: optional argument)
  action:  save            (any toolbar control)
  choose:  fontname        (value: the choice)
  link:    https://example.com
  anchor:  top
  image:   {src: cat.png, alt: cat, width: "100", no_lock: true}
  media:   {src: clip.mp4, width: "640", height: "360"}
  toggle:  true            (switch between structured and source view)
  source:  "<p>raw</p>"    (replace the source buffer)
  input:   "<p>typed</p>"  (replace content as direct input)
  enter:   true
  expect:  {formats: [b, p], contains: "<b>", content: "...", mode: wysiwyg}

Steps the editor declines are reported but do not stop the run. A failed
expect step stops the run without saving.`,
		Example: `  # Apply a script
  rte apply notes.html steps.yaml

  # Show what would change
  rte apply notes.html steps.yaml --dry-run -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			return runApply(cmd.Context(), args[0], args[1], opts, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Run the script without saving")
	cmd.Flags().BoolVar(&opts.create, "create", false, "Start from an empty document when the file does not exist")

	return cmd
}

func runApply(ctx context.Context, path, scriptPath string, opts *applyOptions, ws *workspace.Workspace) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	s, err := script.ParseFile(scriptPath)
	if err != nil {
		return err
	}

	if ws == nil {
		cfg, err := workspace.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		ws, err = workspace.Open(ctx, path, cfg, workspace.Options{AllowMissing: opts.create})
		if err != nil {
			return err
		}
	}

	results, err := script.NewRunner(ws.Toolbar).Run(ctx, s)
	if err != nil {
		return err
	}

	result := applyResult{Path: path, Steps: results}
	if opts.dryRun {
		result.Content = ws.Doc.Content()
	} else {
		if err := ws.Save(ctx); err != nil {
			return err
		}
		result.Saved = true
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	}

	if opts.output == "json" {
		return renderer.RenderJSON(result)
	}

	rows := make([][]string, 0, len(results))
	applied := 0
	for _, r := range results {
		status := "skipped"
		if r.Applied {
			status = "applied"
			applied++
		}
		rows = append(rows, []string{strconv.Itoa(r.Index), r.Op, status})
	}
	renderer.RenderTable([]string{"STEP", "OP", "STATUS"}, rows)

	if opts.output == "plain" {
		return nil
	}
	summary := fmt.Sprintf("%d of %d steps applied", applied, len(results))
	if opts.dryRun {
		renderer.RenderText("")
		renderer.RenderText(result.Content)
		renderer.Warning(summary + " (dry run, not saved)")
		return nil
	}
	renderer.Success(fmt.Sprintf("%s; saved %s", summary, path))
	return nil
}
