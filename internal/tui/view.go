package tui

import (
	"fmt"
	"strings"

	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

// View renders the editor.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.menuBar())
	b.WriteString("\n")
	for _, id := range m.tb.Menus().Open() {
		b.WriteString(m.controlRow(id))
		b.WriteString("\n")
	}

	switch m.focus {
	case focusPrompt:
		b.WriteString(formStyle.Render(m.input.View()))
	case focusDialog:
		b.WriteString(m.dialogView())
	case focusChoice:
		b.WriteString(m.choiceView())
	default:
		if m.doc.Mode() == editor.ModeSource {
			b.WriteString(m.source.View())
		} else {
			b.WriteString(m.viewer.View())
		}
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) titleLine() string {
	title := "rte: " + m.name
	if m.dirty {
		title += " [modified]"
	}
	if m.doc.Readonly() {
		title += " [readonly]"
	}
	return titleStyle.Render(title)
}

func (m *Model) menuBar() string {
	keys := []string{"F1", "F2", "F3", "F4"}
	parts := make([]string, 0, len(editor.AllMenus))
	for i, id := range editor.AllMenus {
		label := keys[i] + " " + id.String()
		if m.tb.Menus().IsOpen(id) {
			parts = append(parts, menuOpenStyle.Render(label))
		} else {
			parts = append(parts, menuStyle.Render(label))
		}
	}
	return strings.Join(parts, "")
}

func (m *Model) controlRow(id editor.MenuID) string {
	controls := m.tb.ControlsIn(id)
	parts := make([]string, 0, len(controls)+1)
	parts = append(parts, labelStyle.Render(id.String()))
	for i, c := range controls {
		label := c.Label
		if len(c.Choices) > 0 {
			label += " ▾"
		}
		switch {
		case m.focus == focusMenu && m.menu == id && i == m.menuCursor:
			parts = append(parts, cursorStyle.Render(" "+label+" "))
		case c.Disabled:
			parts = append(parts, disabledStyle.Render(label))
		case c.Active:
			parts = append(parts, activeStyle.Render(label))
		default:
			parts = append(parts, controlStyle.Render(label))
		}
	}
	return strings.Join(parts, "")
}

func (m *Model) choiceView() string {
	lines := make([]string, 0, len(m.choices)+1)
	lines = append(lines, titleStyle.Render(string(m.choiceFor)))
	for i, c := range m.choices {
		line := "  " + c.Name
		if i == m.choiceCursor {
			line = cursorStyle.Render("› " + c.Name)
		}
		lines = append(lines, line)
	}
	return formStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) dialogView() string {
	draft := m.dialog.Draft()
	lines := []string{titleStyle.Render("Insert " + m.dialog.Kind().String())}
	for i := range m.fields {
		lines = append(lines, m.fields[i].View())
	}
	lock := "unlocked"
	if draft.Locked {
		lock = "locked"
	}
	natural := "unknown"
	if draft.HasRatio() {
		natural = fmt.Sprintf("%dx%d", draft.NaturalWidth, draft.NaturalHeight)
	}
	lines = append(lines, statusStyle.Render(fmt.Sprintf("ratio %s, natural size %s", lock, natural)))
	return formStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) statusLine() string {
	parts := []string{m.doc.Mode().String()}
	if m.doc.Mode() == editor.ModeWysiwyg {
		formats := m.doc.ActiveFormats().Sorted()
		if len(formats) > 0 {
			parts = append(parts, strings.Join(formats, ","))
		}
	}
	fore, back := m.tb.Colors()
	parts = append(parts, "fg "+fore, "bg "+back)
	line := statusStyle.Render(strings.Join(parts, " | "))
	if m.err != nil {
		return line + "  " + errorStyle.Render(m.err.Error())
	}
	if m.status != "" {
		return line + "  " + m.status
	}
	return line
}
