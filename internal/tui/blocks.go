package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/editor"
	"github.com/open-cli-collective/richtext-cli/pkg/markup"
	"github.com/open-cli-collective/richtext-cli/pkg/md"
)

// blocks returns the top-level content nodes, skipping blank text.
func (m *Model) blocks() []*html.Node {
	var out []*html.Node
	for c := m.doc.Root().FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// span returns the first and last selected block indexes.
func (m *Model) span() (int, int) {
	if m.mark < 0 {
		return m.cursor, m.cursor
	}
	if m.mark < m.cursor {
		return m.mark, m.cursor
	}
	return m.cursor, m.mark
}

// syncSelection selects the text of the blocks between mark and cursor.
func (m *Model) syncSelection() {
	if m.doc.Mode() != editor.ModeWysiwyg {
		return
	}
	blocks := m.blocks()
	if len(blocks) == 0 {
		m.cursor, m.mark = 0, -1
		m.doc.Select(editor.Caret(m.doc.Root(), 0))
		return
	}
	m.cursor = clamp(m.cursor, 0, len(blocks)-1)
	if m.mark >= 0 {
		m.mark = clamp(m.mark, 0, len(blocks)-1)
	}
	from, to := m.span()
	first := markup.FirstText(blocks[from])
	last := markup.LastText(blocks[to])
	if first == nil || last == nil {
		m.doc.Select(editor.Caret(blocks[from], 0))
		return
	}
	m.doc.Select(editor.Range(first, 0, last, len(last.Data)))
}

// collapseToCaret puts a caret at the end of the cursor block.
func (m *Model) collapseToCaret() {
	blocks := m.blocks()
	if len(blocks) == 0 {
		m.doc.Select(editor.Caret(m.doc.Root(), 0))
		return
	}
	b := blocks[clamp(m.cursor, 0, len(blocks)-1)]
	if last := markup.LastText(b); last != nil {
		m.doc.Select(editor.Caret(last, len(last.Data)))
		return
	}
	m.doc.Select(editor.Caret(b, markup.ChildCount(b)))
}

func (m *Model) handleViewerKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.blocks())
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Up):
		m.mark = -1
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.mark = -1
		m.cursor++
	case key.Matches(msg, m.keys.ExtendUp):
		if m.mark < 0 {
			m.mark = m.cursor
		}
		m.cursor--
	case key.Matches(msg, m.keys.ExtendDown):
		if m.mark < 0 {
			m.mark = m.cursor
		}
		m.cursor++
	case key.Matches(msg, m.keys.Mark):
		if m.mark < 0 {
			m.mark = m.cursor
		} else {
			m.mark = -1
		}
	case key.Matches(msg, m.keys.SelectAll):
		if n > 0 {
			m.mark, m.cursor = 0, n-1
		}
	case key.Matches(msg, m.keys.Cancel):
		m.mark = -1
	case key.Matches(msg, m.keys.EditBlock):
		return m.openBlockPrompt()
	case key.Matches(msg, m.keys.Confirm):
		m.pressEnter()
		return nil
	default:
		return nil
	}
	if n > 0 {
		m.cursor = clamp(m.cursor, 0, n-1)
	}
	m.syncSelection()
	m.refreshViewer()
	return nil
}

// pressEnter feeds Enter to the document with a caret at the start of the
// cursor block.
func (m *Model) pressEnter() {
	blocks := m.blocks()
	if len(blocks) == 0 {
		return
	}
	m.doc.Select(editor.Caret(blocks[m.cursor], 0))
	if !m.doc.HandleEnter() {
		m.status = "Enter only breaks lines in empty paragraphs"
	}
	m.afterEdit()
}

// replaceBlock swaps the cursor block's markup and records the edit as
// direct input.
func (m *Model) replaceBlock(fragment string) {
	blocks := m.blocks()
	if len(blocks) == 0 {
		return
	}
	var b strings.Builder
	for i, n := range blocks {
		if i == m.cursor {
			b.WriteString(fragment)
			continue
		}
		b.WriteString(renderNode(n))
	}
	m.doc.Input(b.String())
}

func renderNode(n *html.Node) string {
	s, err := markup.RenderNode(n)
	if err != nil {
		return markup.TextContent(n)
	}
	return s
}

// preview renders a block as markdown for display.
func preview(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	out, err := md.FromHTML(renderNode(n))
	if err != nil || out == "" {
		out = strings.TrimSpace(markup.TextContent(n))
	}
	if out == "" {
		return "(empty)"
	}
	return out
}

func tagOf(n *html.Node) string {
	if n.Type == html.ElementNode {
		return n.Data
	}
	return "#text"
}

func (m *Model) refreshViewer() {
	blocks := m.blocks()
	if len(blocks) == 0 {
		m.viewer.SetContent(statusStyle.Render("(empty document)"))
		return
	}
	from, to := m.span()
	var lines []string
	cursorLine := 0
	for i, n := range blocks {
		if i == m.cursor {
			cursorLine = len(lines)
		}
		marker := "  "
		if i == m.cursor {
			marker = "› "
		}
		for j, text := range strings.Split(preview(n), "\n") {
			tag := ""
			if j == 0 {
				tag = tagOf(n)
			}
			line := marker + tagStyle.Render(tag) + text
			switch {
			case i == m.cursor && m.focus == focusViewer:
				line = cursorStyle.Render(line)
			case i >= from && i <= to && m.mark >= 0:
				line = selectedStyle.Render(line)
			}
			lines = append(lines, line)
			marker = "  "
		}
	}
	m.viewer.SetContent(strings.Join(lines, "\n"))

	if cursorLine < m.viewer.YOffset {
		m.viewer.SetYOffset(cursorLine)
	} else if m.viewer.Height > 0 && cursorLine >= m.viewer.YOffset+m.viewer.Height {
		m.viewer.SetYOffset(cursorLine - m.viewer.Height + 1)
	}
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
