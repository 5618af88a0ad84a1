// Package editor implements the rich-text editing engine: selection model,
// active-format inference, command dispatch against the document tree,
// WYSIWYG/source view reconciliation, media insertion dialogs, and the
// toolbar that wires user actions to all of them.
//
// The engine is driven from a single goroutine. The only concurrent work is
// the media probe, which synchronizes on its own dialog.
package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

// SelectionKind distinguishes the shapes of a selection.
type SelectionKind int

const (
	// KindCaret is a collapsed cursor.
	KindCaret SelectionKind = iota
	// KindRange spans from an anchor point to a focus point.
	KindRange
	// KindText is a selection known only by its literal text, e.g. a
	// selection inside the raw source buffer.
	KindText
)

func (k SelectionKind) String() string {
	switch k {
	case KindRange:
		return "Range"
	case KindText:
		return "Text"
	default:
		return "Caret"
	}
}

// Point is a position in the tree. For text nodes Offset is a byte offset
// into the text, always on a character boundary; for elements it is a child
// index.
type Point struct {
	Node   *html.Node
	Offset int
}

// Selection is an immutable snapshot of where the user's attention is.
type Selection struct {
	kind   SelectionKind
	anchor Point
	focus  Point
	text   string
}

// Caret creates a collapsed selection.
func Caret(node *html.Node, offset int) *Selection {
	p := Point{Node: node, Offset: snap(node, offset)}
	return &Selection{kind: KindCaret, anchor: p, focus: p}
}

// Range creates a selection from anchor to focus. Identical points collapse
// to a caret.
func Range(anchor *html.Node, anchorOffset int, focus *html.Node, focusOffset int) *Selection {
	anchorOffset, focusOffset = snap(anchor, anchorOffset), snap(focus, focusOffset)
	if anchor == focus && anchorOffset == focusOffset {
		return Caret(anchor, anchorOffset)
	}
	return &Selection{
		kind:   KindRange,
		anchor: Point{Node: anchor, Offset: anchorOffset},
		focus:  Point{Node: focus, Offset: focusOffset},
	}
}

// snap moves a text offset that falls inside a multi-byte character to the
// start of that character.
func snap(n *html.Node, off int) int {
	if n == nil || n.Type != html.TextNode {
		return off
	}
	return markup.RuneBoundary(n.Data, off)
}

// TextSelection creates a selection that carries only literal text.
func TextSelection(text string) *Selection {
	return &Selection{kind: KindText, text: text}
}

// Kind returns the selection shape.
func (s *Selection) Kind() SelectionKind { return s.kind }

// IsRange reports whether the selection is a non-collapsed tree range.
func (s *Selection) IsRange() bool { return s.kind == KindRange }

// Anchor returns the point where the selection started (the base node).
func (s *Selection) Anchor() Point { return s.anchor }

// Focus returns the point where the selection ends.
func (s *Selection) Focus() Point { return s.focus }

// Text returns the selected text. Carets select nothing.
func (s *Selection) Text() string {
	switch s.kind {
	case KindText:
		return s.text
	case KindRange:
		return rangeText(s.anchor, s.focus)
	default:
		return ""
	}
}

// AncestorPath returns lowercase tag names from the base node up to, but
// excluding, root. It is empty when the base node is not under root.
func (s *Selection) AncestorPath(root *html.Node) []string {
	if s.kind == KindText || s.anchor.Node == nil {
		return nil
	}
	var tags []string
	for n := s.anchor.Node; n != nil; n = n.Parent {
		if n == root {
			return tags
		}
		if n.Type == html.ElementNode {
			if tag := strings.TrimSpace(strings.ToLower(n.Data)); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return nil
}

// ordered returns the selection's points in document order.
func (s *Selection) ordered(root *html.Node) (Point, Point) {
	a, f := s.anchor, s.focus
	switch markup.Compare(root, a.Node, f.Node) {
	case 1:
		return f, a
	case 0:
		if a.Offset > f.Offset {
			return f, a
		}
	}
	return a, f
}

// rangeText collects the text between two points, in document order.
func rangeText(a, f Point) string {
	root := commonRoot(a.Node, f.Node)
	if root == nil {
		return ""
	}
	sel := &Selection{kind: KindRange, anchor: a, focus: f}
	start, end := sel.ordered(root)
	start, end = resolveStart(root, start), resolveEnd(root, end)
	if start.Node == nil || end.Node == nil {
		return ""
	}
	if start.Node == end.Node {
		return sliceText(start.Node.Data, start.Offset, end.Offset)
	}
	var sb strings.Builder
	sb.WriteString(sliceText(start.Node.Data, start.Offset, len(start.Node.Data)))
	for n := markup.Next(root, start.Node); n != nil && n != end.Node; n = markup.Next(root, n) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	}
	sb.WriteString(sliceText(end.Node.Data, 0, end.Offset))
	return sb.String()
}

// commonRoot returns the topmost ancestor of a, provided b shares it.
func commonRoot(a, b *html.Node) *html.Node {
	if a == nil || b == nil {
		return nil
	}
	top := a
	for top.Parent != nil {
		top = top.Parent
	}
	if !markup.Contains(top, b) {
		return nil
	}
	return top
}

func sliceText(s string, from, to int) string {
	from, to = clamp(from, 0, len(s)), clamp(to, 0, len(s))
	from, to = markup.RuneBoundary(s, from), markup.RuneBoundary(s, to)
	if from >= to {
		return ""
	}
	return s[from:to]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resolveStart maps a point to a text position at or after it. The result
// has a nil node when no text follows.
func resolveStart(root *html.Node, p Point) Point {
	if p.Node == nil {
		return Point{}
	}
	if p.Node.Type == html.TextNode {
		return Point{Node: p.Node, Offset: clamp(p.Offset, 0, len(p.Node.Data))}
	}
	var from *html.Node
	if child := markup.ChildAt(p.Node, p.Offset); child != nil {
		from = child
	} else {
		from = markup.NextAfter(root, p.Node)
	}
	for n := from; n != nil; n = markup.Next(root, n) {
		if n.Type == html.TextNode {
			return Point{Node: n}
		}
	}
	return Point{}
}

// resolveEnd maps a point to a text position at or before it.
func resolveEnd(root *html.Node, p Point) Point {
	if p.Node == nil {
		return Point{}
	}
	if p.Node.Type == html.TextNode {
		return Point{Node: p.Node, Offset: clamp(p.Offset, 0, len(p.Node.Data))}
	}
	var last *html.Node
	stop := markup.ChildAt(p.Node, p.Offset)
	if stop == nil {
		stop = markup.NextAfter(root, p.Node)
	}
	for n := markup.Next(root, root); n != nil; n = markup.Next(root, n) {
		if n == stop {
			break
		}
		if n.Type == html.TextNode {
			last = n
		}
	}
	if last == nil {
		return Point{}
	}
	return Point{Node: last, Offset: len(last.Data)}
}
