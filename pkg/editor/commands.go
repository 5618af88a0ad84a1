package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

// commands maps lowercase command names to their implementation.
var commands = map[string]commandSpec{
	strings.ToLower(CmdRemoveFormat): {run: removeFormatCommand},
	CmdBold:                          {run: toggleInline("b")},
	CmdItalic:                        {run: toggleInline("i")},
	CmdUnderline:                     {run: toggleInline("u")},
	CmdJustifyLeft:                   {run: justify("left")},
	CmdJustifyCenter:                 {run: justify("center")},
	CmdJustifyRight:                  {run: justify("right")},
	CmdInsertOrderedList:             {run: insertList("ol")},
	CmdInsertUnorderedList:           {run: insertList("ul")},
	CmdFormatBlock:                   {run: formatBlockCommand},
	CmdOutdent:                       {run: outdentCommand},
	CmdIndent:                        {run: indentCommand},
	CmdCreateLink:                    {run: createLinkCommand},
	CmdUnlink:                        {run: unlinkCommand},
	CmdForeColor:                     {run: inlineValue("font", setAttr("color"))},
	CmdBackColor:                     {run: inlineValue("span", setStyle("background-color"))},
	CmdFontName:                      {run: inlineValue("font", setAttr("face"))},
	CmdFontSize:                      {run: fontSizeCommand},
	CmdUndo:                          {kind: kindHistory, run: undoCommand},
	CmdRedo:                          {kind: kindHistory, run: redoCommand},
	CmdCut:                           {run: cutCommand},
	CmdCopy:                          {kind: kindReadOnly, run: copyCommand},
	CmdPaste:                         {run: pasteCommand},
	strings.ToLower(CmdInsertHTML):   {run: insertHTMLCommand},
}

// Vocabulary lists the command names the substrate understands.
func Vocabulary() []string {
	return []string{
		CmdRemoveFormat, CmdBold, CmdItalic, CmdUnderline, CmdJustifyLeft,
		CmdJustifyCenter, CmdJustifyRight, CmdInsertOrderedList,
		CmdInsertUnorderedList, CmdFormatBlock, CmdOutdent, CmdIndent,
		CmdCreateLink, CmdUnlink, CmdForeColor, CmdBackColor, CmdFontName,
		CmdFontSize, CmdUndo, CmdRedo, CmdCut, CmdCopy, CmdPaste, CmdInsertHTML,
	}
}

// inlineFormatting are the inline elements removeFormat strips.
var inlineFormatting = map[string]bool{
	"b": true, "i": true, "u": true, "strong": true, "em": true,
	"font": true, "span": true, "s": true, "strike": true, "sub": true,
	"sup": true, "big": true, "small": true, "mark": true, "tt": true,
}

// blockFormats are the values accepted by formatblock.
var blockFormats = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "pre": true, "blockquote": true, "div": true, "address": true,
}

// keepEmpty are elements that stay in the tree when a deletion empties them.
var keepEmpty = map[string]bool{
	"br": true, "img": true, "hr": true, "input": true, "video": true,
	"source": true, "embed": true, "wbr": true, "a": true,
}

const indentStyle = "margin: 0 0 0 40px; border: none; padding: 0px;"

func toggleInline(tag string) func(*treeSubstrate, string) bool {
	return func(s *treeSubstrate, _ string) bool {
		nodes := s.splitSelection()
		if len(nodes) == 0 {
			return false
		}
		inside := true
		for _, n := range nodes {
			if s.ancestor(n, tag) == nil {
				inside = false
				break
			}
		}
		for _, n := range nodes {
			a := s.ancestor(n, tag)
			switch {
			case inside && a != nil:
				markup.Unwrap(a)
			case !inside && a == nil:
				markup.Wrap(n, markup.NewElement(tag))
			}
		}
		s.selectNodes(nodes)
		return true
	}
}

func setAttr(key string) func(*html.Node, string) {
	return func(n *html.Node, v string) { markup.SetAttr(n, key, v) }
}

func setStyle(prop string) func(*html.Node, string) {
	return func(n *html.Node, v string) { markup.SetStyle(n, prop, v) }
}

// inlineValue wraps the selected text in tag and applies value through set.
// A wrapper that already holds exactly one selected node is reused.
func inlineValue(tag string, set func(*html.Node, string)) func(*treeSubstrate, string) bool {
	return func(s *treeSubstrate, value string) bool {
		if strings.TrimSpace(value) == "" {
			return false
		}
		nodes := s.splitSelection()
		if len(nodes) == 0 {
			return false
		}
		for _, n := range nodes {
			p := n.Parent
			if markup.IsElement(p, tag) && p != s.doc.root && p.FirstChild == n && p.LastChild == n {
				set(p, value)
				continue
			}
			wrapper := markup.NewElement(tag)
			set(wrapper, value)
			markup.Wrap(n, wrapper)
		}
		s.selectNodes(nodes)
		return true
	}
}

func fontSizeCommand(s *treeSubstrate, value string) bool {
	value = strings.TrimSpace(value)
	if len(value) != 1 || value[0] < '1' || value[0] > '7' {
		return false
	}
	return inlineValue("font", setAttr("size"))(s, value)
}

func removeFormatCommand(s *treeSubstrate, _ string) bool {
	nodes := s.splitSelection()
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		for {
			p := n.Parent
			if p == nil || p == s.doc.root || p.Type != html.ElementNode || !inlineFormatting[p.Data] {
				break
			}
			markup.Unwrap(p)
		}
	}
	s.selectNodes(nodes)
	return true
}

func justify(align string) func(*treeSubstrate, string) bool {
	return func(s *treeSubstrate, _ string) bool {
		blocks := s.blocks()
		if len(blocks) == 0 {
			return false
		}
		for _, b := range blocks {
			markup.SetStyle(b, "text-align", align)
		}
		return true
	}
}

func insertList(tag string) func(*treeSubstrate, string) bool {
	other := "ul"
	if tag == "ul" {
		other = "ol"
	}
	return func(s *treeSubstrate, _ string) bool {
		blocks := s.blocks()
		if len(blocks) == 0 {
			return false
		}

		listed := true
		for _, b := range blocks {
			if !(markup.IsElement(b, "li") && markup.IsElement(b.Parent, tag)) {
				listed = false
				break
			}
		}
		out := make([]*html.Node, 0, len(blocks))
		if listed {
			for _, b := range blocks {
				out = append(out, s.unlistItem(b))
			}
			s.selectBlocks(out)
			return true
		}

		var list *html.Node
		for _, b := range blocks {
			switch {
			case markup.IsElement(b, "li"):
				if markup.IsElement(b.Parent, other) {
					markup.Rename(b.Parent, tag)
				}
				out = append(out, b)
			case markup.IsElement(b, "ol", "ul"):
				markup.Rename(b, tag)
				out = append(out, b)
			default:
				if list == nil {
					list = markup.NewElement(tag)
					b.Parent.InsertBefore(list, b)
				}
				li := markup.NewElement("li")
				if markup.IsElement(b, "p", "div") {
					markup.MoveChildren(li, b)
					b.Parent.RemoveChild(b)
				} else {
					b.Parent.RemoveChild(b)
					li.AppendChild(b)
				}
				list.AppendChild(li)
				out = append(out, li)
			}
		}
		s.selectBlocks(out)
		return true
	}
}

// unlistItem turns li into a paragraph placed after its list, splitting the
// list so that later items keep their order. It returns the paragraph.
func (s *treeSubstrate) unlistItem(li *html.Node) *html.Node {
	list := li.Parent
	p := markup.NewElement("p")
	markup.MoveChildren(p, li)
	if list == nil || list.Parent == nil {
		return p
	}
	list.Parent.InsertBefore(p, list.NextSibling)

	if li.NextSibling != nil {
		tail := markup.NewElement(list.Data, append([]html.Attribute(nil), list.Attr...)...)
		list.Parent.InsertBefore(tail, p.NextSibling)
		for c := li.NextSibling; c != nil; c = li.NextSibling {
			list.RemoveChild(c)
			tail.AppendChild(c)
		}
	}
	list.RemoveChild(li)
	if !hasElementChild(list) {
		list.Parent.RemoveChild(list)
	}
	return p
}

func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func formatBlockCommand(s *treeSubstrate, value string) bool {
	tag := strings.ToLower(strings.Trim(strings.TrimSpace(value), "<>"))
	if !blockFormats[tag] {
		return false
	}
	blocks := s.blocks()
	if len(blocks) == 0 {
		return false
	}
	for _, b := range blocks {
		switch {
		case tag == "blockquote":
			if s.ancestor(b, "blockquote") == nil {
				markup.Wrap(b, markup.NewElement("blockquote"))
			}
		case markup.IsElement(b, "li"):
			inner := markup.NewElement(tag)
			markup.MoveChildren(inner, b)
			b.AppendChild(inner)
		case markup.IsElement(b, "ol", "ul", "table"):
			continue
		default:
			markup.Rename(b, tag)
		}
	}
	s.selectBlocks(blocks)
	return true
}

func indentCommand(s *treeSubstrate, _ string) bool {
	blocks := s.blocks()
	if len(blocks) == 0 {
		return false
	}
	for _, b := range blocks {
		markup.Wrap(b, markup.NewElement("blockquote", html.Attribute{Key: "style", Val: indentStyle}))
	}
	s.selectBlocks(blocks)
	return true
}

func outdentCommand(s *treeSubstrate, _ string) bool {
	blocks := s.blocks()
	done := map[*html.Node]bool{}
	for _, b := range blocks {
		bq := s.ancestor(b, "blockquote")
		if bq == nil || done[bq] {
			continue
		}
		done[bq] = true
		markup.Unwrap(bq)
	}
	if len(done) == 0 {
		return false
	}
	s.selectBlocks(blocks)
	return true
}

func createLinkCommand(s *treeSubstrate, value string) bool {
	if value == "" {
		return false
	}
	sel := s.current()
	if sel == nil {
		return false
	}
	if !sel.IsRange() {
		a := markup.NewElement("a", html.Attribute{Key: "href", Val: value})
		a.AppendChild(markup.NewText(value))
		return s.insertAt(s.caretPoint(sel), []*html.Node{a})
	}
	nodes := s.splitSelection()
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if a := s.ancestor(n, "a"); a != nil {
			markup.SetAttr(a, "href", value)
			continue
		}
		markup.Wrap(n, markup.NewElement("a", html.Attribute{Key: "href", Val: value}))
	}
	s.selectNodes(nodes)
	return true
}

func unlinkCommand(s *treeSubstrate, _ string) bool {
	nodes := s.touchedNodes()
	done := map[*html.Node]bool{}
	for _, n := range nodes {
		a := s.ancestor(n, "a")
		if a == nil || done[a] {
			continue
		}
		done[a] = true
		markup.Unwrap(a)
	}
	return len(done) > 0
}

func copyCommand(s *treeSubstrate, _ string) bool {
	sel := s.current()
	if sel == nil || !sel.IsRange() {
		return false
	}
	text := sel.Text()
	if text == "" {
		return false
	}
	return s.clipboard.WriteText(text) == nil
}

func cutCommand(s *treeSubstrate, v string) bool {
	if !copyCommand(s, v) {
		return false
	}
	at, ok := s.deleteSelection()
	if !ok {
		return false
	}
	at = s.settle(at)
	s.doc.setSelection(Caret(at.Node, at.Offset))
	return true
}

func pasteCommand(s *treeSubstrate, _ string) bool {
	text, err := s.clipboard.ReadText()
	if err != nil || text == "" {
		return false
	}
	at, ok := s.deleteSelection()
	if !ok {
		return false
	}
	return s.insertAt(at, []*html.Node{markup.NewText(text)})
}

func insertHTMLCommand(s *treeSubstrate, value string) bool {
	at, ok := s.deleteSelection()
	if !ok {
		return false
	}
	context := at.Node
	if context.Type != html.ElementNode {
		context = context.Parent
	}
	nodes, err := markup.ParseFragment(value, context)
	if err != nil {
		at = s.settle(at)
		s.doc.setSelection(Caret(at.Node, at.Offset))
		return true
	}
	return s.insertAt(at, nodes)
}
