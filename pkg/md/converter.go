// Package md converts between markdown files and editor document markup.
package md

import (
	"bytes"
	stdhtml "html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// mdParser is a pre-configured goldmark instance with GFM tables and
// strikethrough. Raw HTML is passed through so that documents saved as
// markdown keep inline markup the editor produced.
var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// anchorPlaceholder is the markdown spelling of a named anchor, e.g.
// [ANCHOR:intro]. goldmark leaves it as literal text.
var anchorPlaceholder = regexp.MustCompile(`\[ANCHOR:([^\]\s]+)\]`)

// ToHTML converts markdown content to a document fragment.
func ToHTML(markdown []byte) (string, error) {
	if len(markdown) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	if err := mdParser.Convert(markdown, &buf); err != nil {
		return "", err
	}

	return expandAnchors(buf.String()), nil
}

// expandAnchors replaces anchor placeholders in rendered HTML with named
// anchor elements.
func expandAnchors(rendered string) string {
	return anchorPlaceholder.ReplaceAllStringFunc(rendered, func(match string) string {
		name := anchorPlaceholder.FindStringSubmatch(match)[1]
		return `<a name="` + stdhtml.EscapeString(stdhtml.UnescapeString(name)) + `"></a>`
	})
}

// IsMarkdownPath reports whether path names a markdown file.
func IsMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	default:
		return false
	}
}
