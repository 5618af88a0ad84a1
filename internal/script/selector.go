package script

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/editor"
	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

// Selector addresses a selection by node paths relative to the document
// root, e.g. "0,1" for the second child of the first block.
type Selector struct {
	Path        string  `yaml:"path"`
	Offset      int     `yaml:"offset,omitempty"`
	FocusPath   *string `yaml:"focus_path,omitempty"`
	FocusOffset int     `yaml:"focus_offset,omitempty"`
	// Text selects by literal text only, as a source view selection does.
	Text string `yaml:"text,omitempty"`
}

// Resolve turns the selector into a selection on doc.
func (s Selector) Resolve(doc *editor.Document) (*editor.Selection, error) {
	if s.Text != "" {
		return editor.TextSelection(s.Text), nil
	}
	anchor, err := resolvePath(doc, s.Path)
	if err != nil {
		return nil, err
	}
	if s.FocusPath == nil {
		return editor.Caret(anchor, s.Offset), nil
	}
	focus, err := resolvePath(doc, *s.FocusPath)
	if err != nil {
		return nil, err
	}
	return editor.Range(anchor, s.Offset, focus, s.FocusOffset), nil
}

func resolvePath(doc *editor.Document, raw string) (*html.Node, error) {
	path, err := markup.ParsePath(raw)
	if err != nil {
		return nil, err
	}
	n, err := markup.GetNode(doc.Root(), path)
	if err != nil {
		return nil, fmt.Errorf("no node at %q: %w", raw, err)
	}
	return n, nil
}
