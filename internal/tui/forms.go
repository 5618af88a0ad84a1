package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

func (m *Model) enterForm(f focus) {
	if m.focus != focusPrompt && m.focus != focusDialog && m.focus != focusChoice {
		m.back = m.focus
	}
	m.focus = f
}

// leaveForm returns focus to where the form was opened from.
func (m *Model) leaveForm() {
	m.focus = m.back
	if m.focus == focusMenu && len(m.tb.Menus().Open()) == 0 {
		m.focus = focusViewer
	}
	m.prompt = nil
	m.dialog = nil
	m.input.Blur()
	m.afterEdit()
}

func (m *Model) openEditorPrompt(p *editor.Prompt) tea.Cmd {
	m.enterForm(focusPrompt)
	m.promptKind = promptEditor
	m.prompt = p
	m.input.Prompt = p.Title() + ": "
	m.input.SetValue(p.Initial())
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) openColorPrompt(id editor.ActionID) tea.Cmd {
	m.enterForm(focusPrompt)
	m.promptKind = promptColor
	m.colorFor = id
	fore, back := m.tb.Colors()
	value := fore
	if id == editor.ActBackColor {
		value = back
	}
	m.input.Prompt = "Color (#rrggbb): "
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) openBlockPrompt() tea.Cmd {
	blocks := m.blocks()
	if len(blocks) == 0 || m.doc.Mode() != editor.ModeWysiwyg || m.doc.Readonly() {
		return nil
	}
	m.enterForm(focusPrompt)
	m.promptKind = promptBlock
	m.input.Prompt = "Block: "
	m.input.SetValue(renderNode(blocks[m.cursor]))
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.promptKind == promptEditor && m.prompt != nil {
			m.prompt.Cancel()
		}
		m.leaveForm()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		m.submitPrompt(m.input.Value())
		m.leaveForm()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) submitPrompt(value string) {
	m.err = nil
	switch m.promptKind {
	case promptEditor:
		title := m.prompt.Title()
		applied := m.prompt.Submit(value)
		events.UI.Action("prompt", applied)
		if !applied {
			m.status = fmt.Sprintf("%s: %q was not applied", title, value)
		}
	case promptColor:
		if !m.tb.Choose(m.colorFor, value) {
			m.err = fmt.Errorf("invalid color %q", value)
		}
	case promptBlock:
		m.replaceBlock(value)
	}
}

func (m *Model) openChoices(c editor.Control) {
	m.enterForm(focusChoice)
	m.choices = c.Choices
	m.choiceFor = c.ID
	m.choiceCursor = 0
}

func (m *Model) handleChoiceKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.leaveForm()
	case key.Matches(msg, m.keys.Up):
		if m.choiceCursor > 0 {
			m.choiceCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.choiceCursor < len(m.choices)-1 {
			m.choiceCursor++
		}
	case key.Matches(msg, m.keys.Confirm):
		choice := m.choices[m.choiceCursor]
		changed := m.tb.Choose(m.choiceFor, choice.Value)
		events.UI.Action(string(m.choiceFor)+":"+choice.Value, changed)
		m.leaveForm()
	}
}

func (m *Model) openDialog(d *editor.MediaDialog) tea.Cmd {
	m.enterForm(focusDialog)
	m.dialog = d
	draft := d.Draft()
	m.fields[fieldURL].SetValue(draft.URL)
	m.fields[fieldAlt].SetValue(draft.Alt)
	m.fields[fieldWidth].SetValue(draft.Width)
	m.fields[fieldHeight].SetValue(draft.Height)
	return m.focusField(fieldURL)
}

func (m *Model) focusField(i int) tea.Cmd {
	for f := range m.fields {
		m.fields[f].Blur()
	}
	m.field = i
	return m.fields[i].Focus()
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	d := m.dialog
	switch {
	case key.Matches(msg, m.keys.Cancel):
		d.Cancel()
		m.leaveForm()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		if !d.Insert() {
			m.err = errNoSource
			return nil
		}
		events.UI.Action(d.Kind().String()+":insert", true)
		m.err = nil
		m.leaveForm()
		return nil
	case key.Matches(msg, m.keys.NextField):
		return m.focusField((m.field + 1) % fieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m.focusField((m.field + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.Lock):
		locked := d.ToggleLock()
		m.status = fmt.Sprintf("Aspect ratio lock: %t", locked)
		return nil
	}

	before := m.fields[m.field].Value()
	var cmd tea.Cmd
	m.fields[m.field], cmd = m.fields[m.field].Update(msg)
	value := m.fields[m.field].Value()
	if value == before {
		return cmd
	}

	switch m.field {
	case fieldURL:
		d.SetURL(m.ctx, value)
		return tea.Batch(cmd, waitProbe(d))
	case fieldAlt:
		d.SetAlt(value)
	case fieldWidth:
		d.SetWidth(value)
		m.fields[fieldHeight].SetValue(d.Draft().Height)
	case fieldHeight:
		d.SetHeight(value)
		m.fields[fieldWidth].SetValue(d.Draft().Width)
	}
	return cmd
}
