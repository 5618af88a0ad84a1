package md

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var (
	// namedAnchor matches the empty named anchors inserted by the editor.
	namedAnchor = regexp.MustCompile(`<a\s+name="([^"]*)"\s*>\s*</a>`)
	// templateComment matches comment markers left by templating substrates.
	templateComment = regexp.MustCompile(`<!--\?(?:impl|lit)\$[0-9]+\$-->`)
)

// ConvertOptions configures the HTML to markdown conversion.
type ConvertOptions struct {
	// KeepAnchors writes named anchors as [ANCHOR:name] placeholders instead
	// of dropping them.
	KeepAnchors bool
}

// FromHTML converts a document fragment to markdown, dropping anchors.
func FromHTML(html string) (string, error) {
	return FromHTMLWithOptions(html, ConvertOptions{})
}

// FromHTMLWithOptions converts a document fragment to markdown with
// configurable options.
func FromHTMLWithOptions(html string, opts ConvertOptions) (string, error) {
	if html == "" {
		return "", nil
	}

	html = preprocess(html, opts.KeepAnchors)

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(markdown), nil
}

// preprocess handles editor-specific markup before conversion.
func preprocess(html string, keepAnchors bool) string {
	html = templateComment.ReplaceAllString(html, "")

	if !keepAnchors {
		return namedAnchor.ReplaceAllString(html, "")
	}
	return namedAnchor.ReplaceAllStringFunc(html, func(match string) string {
		name := namedAnchor.FindStringSubmatch(match)[1]
		if name == "" {
			return ""
		}
		return "[ANCHOR:" + name + "]"
	})
}
