package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

// current returns the document selection when it addresses nodes under the
// root, or nil.
func (s *treeSubstrate) current() *Selection {
	sel := s.doc.sel
	if sel == nil || sel.Kind() == KindText {
		return nil
	}
	root := s.doc.root
	if !markup.Contains(root, sel.anchor.Node) || !markup.Contains(root, sel.focus.Node) {
		return nil
	}
	return sel
}

// caretPoint clamps the selection's anchor to a valid position.
func (s *treeSubstrate) caretPoint(sel *Selection) Point {
	p := sel.Anchor()
	if p.Node.Type == html.TextNode {
		p.Offset = clamp(p.Offset, 0, len(p.Node.Data))
	} else {
		p.Offset = clamp(p.Offset, 0, markup.ChildCount(p.Node))
	}
	return p
}

// textSpan resolves the selection to its first and last text positions.
func (s *treeSubstrate) textSpan(sel *Selection) (Point, Point, bool) {
	root := s.doc.root
	start, end := sel.ordered(root)
	start, end = resolveStart(root, start), resolveEnd(root, end)
	if start.Node == nil || end.Node == nil {
		return Point{}, Point{}, false
	}
	if c := markup.Compare(root, start.Node, end.Node); c > 0 || (c == 0 && start.Offset >= end.Offset) {
		return Point{}, Point{}, false
	}
	return start, end, true
}

// textBetween lists the text nodes from start to end inclusive.
func (s *treeSubstrate) textBetween(start, end *html.Node) []*html.Node {
	nodes := []*html.Node{start}
	for n := markup.Next(s.doc.root, start); n != nil; n = markup.Next(s.doc.root, n) {
		if n.Type == html.TextNode {
			nodes = append(nodes, n)
		}
		if n == end {
			break
		}
	}
	return nodes
}

// splitSelection splits text nodes at the range boundaries and returns the
// text nodes that are fully selected, in document order.
func (s *treeSubstrate) splitSelection() []*html.Node {
	sel := s.current()
	if sel == nil || !sel.IsRange() {
		return nil
	}
	start, end, ok := s.textSpan(sel)
	if !ok {
		return nil
	}

	if start.Node == end.Node {
		n := start.Node
		markup.SplitText(n, end.Offset)
		if start.Offset > 0 {
			n = markup.SplitText(n, start.Offset)
		}
		return []*html.Node{n}
	}

	nodes := s.textBetween(start.Node, end.Node)
	last := len(nodes) - 1
	if end.Offset == 0 {
		nodes = nodes[:last]
	} else {
		markup.SplitText(nodes[last], end.Offset)
	}
	if len(nodes) > 0 && nodes[0] == start.Node {
		switch {
		case start.Offset >= len(start.Node.Data):
			nodes = nodes[1:]
		case start.Offset > 0:
			nodes[0] = markup.SplitText(start.Node, start.Offset)
		}
	}

	out := nodes[:0]
	for _, n := range nodes {
		if n != nil && n.Data != "" {
			out = append(out, n)
		}
	}
	return out
}

// touchedNodes returns the nodes a block-level command applies to, without
// modifying the tree.
func (s *treeSubstrate) touchedNodes() []*html.Node {
	sel := s.current()
	if sel == nil {
		return nil
	}
	if sel.IsRange() {
		if start, end, ok := s.textSpan(sel); ok {
			return s.textBetween(start.Node, end.Node)
		}
		return []*html.Node{sel.Anchor().Node}
	}
	n := sel.Anchor().Node
	if n.Type == html.ElementNode {
		if child := markup.ChildAt(n, sel.Anchor().Offset); child != nil {
			n = child
		} else if n == s.doc.root {
			n = n.LastChild
		}
	}
	if n == nil || n == s.doc.root {
		return nil
	}
	return []*html.Node{n}
}

// blocks returns the distinct block elements the selection touches,
// creating a wrapper for inline content sitting directly under the root.
func (s *treeSubstrate) blocks() []*html.Node {
	nodes := s.touchedNodes()
	multi := len(nodes) > 1
	seen := map[*html.Node]bool{}
	var out []*html.Node
	for _, n := range nodes {
		if multi && n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		b := s.ensureBlock(n)
		if b == nil || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

func (s *treeSubstrate) blockOf(n *html.Node) *html.Node {
	for p := n; p != nil && p != s.doc.root; p = p.Parent {
		if markup.IsBlock(p) {
			return p
		}
	}
	return nil
}

// ensureBlock returns n's block, wrapping the run of inline siblings around
// it in a <div> when it has none.
func (s *treeSubstrate) ensureBlock(n *html.Node) *html.Node {
	root := s.doc.root
	if n == nil || n == root || !markup.Contains(root, n) {
		return nil
	}
	if b := s.blockOf(n); b != nil {
		return b
	}
	top := n
	for top.Parent != root {
		top = top.Parent
	}
	first, last := top, top
	for first.PrevSibling != nil && !markup.IsBlock(first.PrevSibling) {
		first = first.PrevSibling
	}
	for last.NextSibling != nil && !markup.IsBlock(last.NextSibling) {
		last = last.NextSibling
	}
	div := markup.NewElement("div")
	root.InsertBefore(div, first)
	for c := first; ; {
		next := c.NextSibling
		root.RemoveChild(c)
		div.AppendChild(c)
		if c == last {
			break
		}
		c = next
	}
	return div
}

// ancestor returns the nearest element with tag at or above n, below root.
func (s *treeSubstrate) ancestor(n *html.Node, tag string) *html.Node {
	for p := n; p != nil && p != s.doc.root; p = p.Parent {
		if markup.IsElement(p, tag) {
			return p
		}
	}
	return nil
}

// selectNodes selects from the start of the first node to the end of the last.
func (s *treeSubstrate) selectNodes(nodes []*html.Node) {
	if len(nodes) == 0 {
		return
	}
	first, last := nodes[0], nodes[len(nodes)-1]
	s.doc.setSelection(Range(first, 0, last, len(last.Data)))
}

// selectBlocks selects the text spanned by the given blocks.
func (s *treeSubstrate) selectBlocks(blocks []*html.Node) {
	if len(blocks) == 0 {
		return
	}
	first := markup.FirstText(blocks[0])
	last := markup.LastText(blocks[len(blocks)-1])
	if first == nil || last == nil {
		s.doc.setSelection(Caret(blocks[0], 0))
		return
	}
	s.doc.setSelection(Range(first, 0, last, len(last.Data)))
}

// deleteSelection removes the selected text and returns where content
// should go instead. For ranges the returned point is a placeholder node
// that settle resolves.
func (s *treeSubstrate) deleteSelection() (Point, bool) {
	sel := s.current()
	if sel == nil {
		return Point{}, false
	}
	if !sel.IsRange() {
		return s.caretPoint(sel), true
	}
	nodes := s.splitSelection()
	if len(nodes) == 0 {
		return s.caretPoint(sel), true
	}
	marker := markup.NewText("")
	nodes[0].Parent.InsertBefore(marker, nodes[0])
	for _, n := range nodes {
		parent := n.Parent
		parent.RemoveChild(n)
		s.pruneEmpty(parent)
	}
	s.marker = marker
	return Point{Node: marker}, true
}

// pruneEmpty removes inline elements left without children.
func (s *treeSubstrate) pruneEmpty(n *html.Node) {
	for n != nil && n != s.doc.root && n.Type == html.ElementNode && n.FirstChild == nil && !keepEmpty[n.Data] && !markup.IsBlock(n) {
		parent := n.Parent
		if parent == nil {
			return
		}
		parent.RemoveChild(n)
		n = parent
	}
}

// settle replaces the deletion placeholder with an equivalent element point.
func (s *treeSubstrate) settle(at Point) Point {
	if s.marker == nil || at.Node != s.marker {
		return at
	}
	parent := s.marker.Parent
	idx := markup.ChildIndex(parent, s.marker)
	parent.RemoveChild(s.marker)
	s.marker = nil
	return Point{Node: parent, Offset: idx}
}

// insertAt splices nodes in at the point and leaves a caret after them.
func (s *treeSubstrate) insertAt(at Point, nodes []*html.Node) bool {
	at = s.settle(at)
	if at.Node == nil {
		return false
	}
	var parent, ref *html.Node
	if at.Node.Type == html.TextNode {
		parent = at.Node.Parent
		switch {
		case at.Offset <= 0:
			ref = at.Node
		case at.Offset >= len(at.Node.Data):
			ref = at.Node.NextSibling
		default:
			ref = markup.SplitText(at.Node, at.Offset)
		}
	} else {
		parent = at.Node
		ref = markup.ChildAt(at.Node, at.Offset)
	}
	if parent == nil {
		return false
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.InsertBefore(n, ref)
	}
	offset := markup.ChildCount(parent)
	if len(nodes) > 0 {
		offset = markup.ChildIndex(parent, nodes[len(nodes)-1]) + 1
	} else if ref != nil {
		offset = markup.ChildIndex(parent, ref)
	}
	s.doc.setSelection(Caret(parent, offset))
	return true
}
