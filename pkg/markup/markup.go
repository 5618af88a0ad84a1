// Package markup provides the document tree used by the editor: parsing,
// rendering, and structural helpers over golang.org/x/net/html nodes.
package markup

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// templateMarker matches comment markers left behind by templating substrates,
// e.g. <!--?impl$12$--> or <!--?lit$3$-->.
var templateMarker = regexp.MustCompile(`<!--\?(?:impl|lit)\$[0-9]+\$-->`)

// NewRoot creates an empty container element that holds document content.
func NewRoot() *html.Node {
	return NewElement("div")
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// ParseFragment parses markup as children of context. A nil context parses
// in a <body> context.
func ParseFragment(src string, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	return nodes, nil
}

// ParseBody parses a full document payload and returns its <body> element.
// A nil body means the payload produced no body.
func ParseBody(payload string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return FindElement(doc, "body"), nil
}

// FindElement returns the first element with the given tag in document order.
func FindElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// RenderNode converts a node (and its subtree) to a string.
func RenderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render serializes the children of root, i.e. its inner markup.
func Render(root *html.Node) string {
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on writer errors; bytes.Buffer never returns one.
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// StripTemplateMarkers removes substrate-internal template comment markers.
func StripTemplateMarkers(s string) string {
	return templateMarker.ReplaceAllString(s, "")
}

// Shell wraps a fragment in the fixed document shell used for export.
func Shell(fragment string) string {
	return strings.Join([]string{
		`<!DOCTYPE html>`,
		`<html lang="en">`,
		`  <head><meta charset="UTF-8" /><title>Document</title></head>`,
		`  <body>` + fragment + `</body>`,
		`</html>`,
	}, "\n")
}

// Clear removes every child of n.
func Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// MoveChildren detaches every child of src and appends it to dst.
func MoveChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; c = src.FirstChild {
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}

// ReplaceChildren replaces the children of root with the parsed fragment.
func ReplaceChildren(root *html.Node, fragment string) error {
	nodes, err := ParseFragment(fragment, root)
	if err != nil {
		return err
	}
	Clear(root)
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return nil
}

// TextContent returns the concatenated text of n's subtree.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(TextContent(c))
	}
	return sb.String()
}
