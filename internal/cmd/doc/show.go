package doc

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/internal/fileio"
	"github.com/open-cli-collective/richtext-cli/internal/view"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

type showOptions struct {
	globalOptions
	markdown bool
	info     bool
}

type showResult struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// NewCmdShow creates the doc show command.
func NewCmdShow() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a document's content",
		Long:  `Print the serialized content of a document, or a markdown rendering of it.`,
		Example: `  # Print the markup
  rte doc show notes.html

  # Print as markdown
  rte doc show notes.html --markdown

  # Summarize the document
  rte doc show notes.html --info`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runShow(cmd.Context(), args[0], opts, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Render the content as markdown")
	cmd.Flags().BoolVar(&opts.info, "info", false, "Print a summary instead of the content")

	return cmd
}

func runShow(ctx context.Context, path string, opts *showOptions, ws *workspace.Workspace) error {
	ws, err := opts.open(ctx, path, ws)
	if err != nil {
		return err
	}

	if opts.info {
		return opts.renderer().RenderFields(summarize(path, ws))
	}

	result := showResult{Path: path, Format: fileio.FormatHTML, Content: ws.Doc.Content()}
	if opts.markdown {
		out, err := fileio.ToMarkdown(ws.Doc.Export())
		if err != nil {
			return err
		}
		result.Format = fileio.FormatMarkdown
		result.Content = out
	}

	r := opts.renderer()
	if opts.output == "json" {
		return r.RenderJSON(result)
	}
	r.RenderText(result.Content)
	return nil
}

// summarize describes the document: its format, top-level blocks, character
// count and the elements it uses.
func summarize(path string, ws *workspace.Workspace) []view.Field {
	root := ws.Doc.Root()
	blocks := 0
	seen := map[string]bool{}
	var tags []string
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		blocks++
		for _, t := range markup.Tags(c) {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)

	readonly := "no"
	if ws.Doc.Readonly() {
		readonly = "yes"
	}
	return []view.Field{
		{Key: "Path", Value: path},
		{Key: "Format", Value: fileio.DetectFormat(path)},
		{Key: "Blocks", Value: strconv.Itoa(blocks)},
		{Key: "Characters", Value: strconv.Itoa(utf8.RuneCountInString(markup.TextContent(root)))},
		{Key: "Elements", Value: strings.Join(tags, ", ")},
		{Key: "Readonly", Value: readonly},
	}
}
