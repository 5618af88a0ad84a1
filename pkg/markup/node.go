package markup

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags are the elements treated as block containers by editing commands.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "th": true, "ul": true,
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && blockTags[n.Data]
}

// IsElement reports whether n is an element with one of the given tags.
func IsElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// SetAttr sets (or adds) attribute key.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

// SetStyle sets one CSS property in the style attribute, keeping the others.
func SetStyle(n *html.Node, prop, val string) {
	props := map[string]string{}
	var order []string
	for _, decl := range strings.Split(Attr(n, "style"), ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, seen := props[k]; !seen {
			order = append(order, k)
		}
		props[k] = strings.TrimSpace(v)
	}
	if _, seen := props[prop]; !seen {
		order = append(order, prop)
	}
	props[prop] = val

	var sb strings.Builder
	for i, k := range order {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(k + ": " + props[k] + ";")
	}
	SetAttr(n, "style", sb.String())
}

// Rename changes an element's tag, keeping attributes and children.
func Rename(n *html.Node, tag string) {
	tag = strings.ToLower(tag)
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// Wrap inserts wrapper in n's position and moves n inside it.
func Wrap(n, wrapper *html.Node) {
	parent := n.Parent
	if parent != nil {
		parent.InsertBefore(wrapper, n)
		parent.RemoveChild(n)
	}
	wrapper.AppendChild(n)
}

// Unwrap replaces n with its children.
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// RuneBoundary moves a byte offset inside s back to the start of the
// character containing it. Offsets outside s are returned unchanged.
func RuneBoundary(s string, off int) int {
	for off > 0 && off < len(s) && !utf8.RuneStart(s[off]) {
		off--
	}
	return off
}

// SplitText splits text node n at byte offset off and returns the new node
// holding the tail. Offsets inside a multi-byte character split before it.
// It returns nil when off is at the end.
func SplitText(n *html.Node, off int) *html.Node {
	if off >= len(n.Data) {
		return nil
	}
	if off < 0 {
		off = 0
	}
	off = RuneBoundary(n.Data, off)
	tail := NewText(n.Data[off:])
	n.Data = n.Data[:off]
	if n.Parent != nil {
		n.Parent.InsertBefore(tail, n.NextSibling)
	}
	return tail
}

// Outline is a comparable snapshot of a subtree, used to check structural
// equivalence of trees.
type Outline struct {
	Type     html.NodeType
	Data     string
	Attrs    map[string]string
	Children []Outline
}

// OutlineOf builds the outline of n's subtree. Attribute order is ignored.
func OutlineOf(n *html.Node) Outline {
	o := Outline{Type: n.Type, Data: n.Data}
	if len(n.Attr) > 0 {
		o.Attrs = make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			o.Attrs[a.Key] = a.Val
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		o.Children = append(o.Children, OutlineOf(c))
	}
	return o
}

// Tags lists the distinct element tags of n's subtree, sorted.
func Tags(n *html.Node) []string {
	seen := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			seen[n.Data] = true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
