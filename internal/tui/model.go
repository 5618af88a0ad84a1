// Package tui is the interactive terminal editor: a menu bar over the
// toolbar, a block viewer for the structured view, a textarea for the
// source view, and forms for prompts and media dialogs.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

type focus int

const (
	focusViewer focus = iota
	focusMenu
	focusChoice
	focusPrompt
	focusDialog
)

func (f focus) String() string {
	switch f {
	case focusMenu:
		return "menu"
	case focusChoice:
		return "choice"
	case focusPrompt:
		return "prompt"
	case focusDialog:
		return "dialog"
	default:
		return "viewer"
	}
}

type promptKind int

const (
	promptEditor promptKind = iota
	promptColor
	promptBlock
)

// Dialog field order.
const (
	fieldURL = iota
	fieldAlt
	fieldWidth
	fieldHeight
	fieldCount
)

// probeDoneMsg is delivered once a dialog's pending probes have settled.
type probeDoneMsg struct {
	kind editor.DialogKind
}

// chromeHeight is the number of lines around the body: title, menu bar,
// status and help.
const chromeHeight = 4

// Model holds all state for the editor TUI.
type Model struct {
	ctx  context.Context
	tb   *editor.Toolbar
	doc  *editor.Document
	name string

	keys KeyMap
	help help.Model

	focus focus
	back  focus

	// Menu focus
	menu       editor.MenuID
	menuCursor int

	// Selector list
	choices      []editor.Choice
	choiceFor    editor.ActionID
	choiceCursor int

	// Single-line prompt
	promptKind promptKind
	prompt     *editor.Prompt
	colorFor   editor.ActionID
	input      textinput.Model

	// Media dialog
	dialog *editor.MediaDialog
	fields [fieldCount]textinput.Model
	field  int

	source textarea.Model
	viewer viewport.Model

	// Block cursor; mark is -1 without a range.
	cursor int
	mark   int

	status      string
	err         error
	dirty       bool
	confirmQuit bool
	width       int
	height      int
	unsubscribe func()
}

// New creates a model editing the toolbar's document. name is shown in the
// title bar.
func New(ctx context.Context, tb *editor.Toolbar, name string) *Model {
	m := &Model{
		ctx:    ctx,
		tb:     tb,
		doc:    tb.Document(),
		name:   name,
		keys:   DefaultKeyMap,
		help:   help.New(),
		mark:   -1,
		input:  textinput.New(),
		source: textarea.New(),
		viewer: viewport.New(80, 20),
	}
	for i := range m.fields {
		m.fields[i] = textinput.New()
	}
	m.fields[fieldURL].Prompt = "URL    "
	m.fields[fieldAlt].Prompt = "Alt    "
	m.fields[fieldWidth].Prompt = "Width  "
	m.fields[fieldHeight].Prompt = "Height "
	m.source.ShowLineNumbers = true

	m.unsubscribe = m.doc.Subscribe(func(e editor.Event) {
		if e.Type == editor.EventContentChanged {
			m.dirty = true
		}
	})
	m.syncSelection()
	m.syncSource()
	m.refreshViewer()
	m.dirty = false
	return m
}

// Run starts the editor full screen and blocks until it exits.
func Run(ctx context.Context, tb *editor.Toolbar, name string) error {
	m := New(ctx, tb, name)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Close detaches the model from its document.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Dirty reports whether the document changed since it was loaded or saved.
func (m *Model) Dirty() bool { return m.dirty }

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case probeDoneMsg:
		m.handleProbeDone(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	if m.doc.Mode() == editor.ModeSource && m.focus == focusViewer {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	body := m.bodyHeight()
	m.viewer.Width = width
	m.viewer.Height = body
	m.source.SetWidth(width)
	m.source.SetHeight(body)
	m.refreshViewer()
}

func (m *Model) bodyHeight() int {
	h := m.height - chromeHeight - len(m.tb.Menus().Open())
	if h < 3 {
		return 3
	}
	return h
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	events.UI.Key(m.focus.String(), msg.String())

	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}
	m.confirmQuit = false

	switch m.focus {
	case focusPrompt:
		return m.handlePromptKey(msg)
	case focusDialog:
		return m.handleDialogKey(msg)
	case focusChoice:
		m.handleChoiceKey(msg)
		return nil
	}

	if handled, cmd := m.handleGlobalKey(msg); handled {
		return cmd
	}
	if m.focus == focusMenu {
		return m.handleMenuKey(msg)
	}
	if m.doc.Mode() == editor.ModeSource {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return cmd
	}
	return m.handleViewerKey(msg)
}

func (m *Model) quit() tea.Cmd {
	if m.dirty && !m.confirmQuit {
		m.confirmQuit = true
		m.status = "Unsaved changes. Press again to quit."
		return nil
	}
	return tea.Quit
}

// handleGlobalKey handles menus and shortcuts. In the source view only the
// shortcuts that do not edit text are taken; the rest reach the textarea.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	menus := map[*key.Binding]editor.MenuID{
		&m.keys.FileMenu:   editor.MenuFile,
		&m.keys.FormatMenu: editor.MenuFormat,
		&m.keys.EditMenu:   editor.MenuEdit,
		&m.keys.InsertMenu: editor.MenuInsert,
	}
	for b, id := range menus {
		if key.Matches(msg, *b) {
			m.toggleMenu(id)
			return true, nil
		}
	}

	shortcuts := []struct {
		binding *key.Binding
		action  editor.ActionID
		source  bool
	}{
		{&m.keys.Save, editor.ActSave, true},
		{&m.keys.Open, editor.ActOpen, true},
		{&m.keys.Source, editor.ActSource, true},
		{&m.keys.Undo, editor.ActUndo, false},
		{&m.keys.Redo, editor.ActRedo, false},
		{&m.keys.Bold, editor.ActBold, false},
		{&m.keys.Underline, editor.ActUnderline, false},
		{&m.keys.Link, editor.ActLink, false},
		{&m.keys.Cut, editor.ActCut, false},
		{&m.keys.Copy, editor.ActCopy, false},
		{&m.keys.Paste, editor.ActPaste, false},
	}
	inSource := m.doc.Mode() == editor.ModeSource
	for _, s := range shortcuts {
		if inSource && !s.source {
			continue
		}
		if key.Matches(msg, *s.binding) {
			return true, m.invoke(s.action)
		}
	}
	return false, nil
}

func (m *Model) toggleMenu(id editor.MenuID) {
	open := m.tb.ToggleMenu(id)
	events.UI.Menu(id.String(), open)
	if open {
		m.focus = focusMenu
		m.menu = id
		m.menuCursor = 0
	} else if m.focus == focusMenu && m.menu == id {
		m.focusNextMenu(0)
	}
	m.resize(m.width, m.height)
}

// focusNextMenu moves menu focus by delta among open menus, falling back
// to the viewer when none is open.
func (m *Model) focusNextMenu(delta int) {
	open := m.tb.Menus().Open()
	if len(open) == 0 {
		m.focus = focusViewer
		return
	}
	idx := 0
	for i, id := range open {
		if id == m.menu {
			idx = i
		}
	}
	idx = (idx + delta + len(open)) % len(open)
	if m.menu != open[idx] {
		m.menuCursor = 0
	}
	m.menu = open[idx]
	m.focus = focusMenu
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	controls := m.tb.ControlsIn(m.menu)
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.tb.Menus().CloseAll()
		m.focus = focusViewer
		m.resize(m.width, m.height)
	case key.Matches(msg, m.keys.Left):
		m.focusNextMenu(-1)
	case key.Matches(msg, m.keys.Right):
		m.focusNextMenu(1)
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(controls)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.PickColor):
		if m.menuCursor < len(controls) {
			id := controls[m.menuCursor].ID
			if id == editor.ActForeColor || id == editor.ActBackColor {
				m.openColorPrompt(id)
			}
		}
	case key.Matches(msg, m.keys.Confirm):
		if m.menuCursor >= len(controls) {
			return nil
		}
		c := controls[m.menuCursor]
		if c.Disabled {
			m.status = c.Label + " is not available here"
			return nil
		}
		if len(c.Choices) > 0 {
			m.openChoices(c)
			return nil
		}
		return m.invoke(c.ID)
	}
	return nil
}

// collapsing lists actions that insert at the cursor rather than act on
// the selected blocks.
var collapsing = map[editor.ActionID]bool{
	editor.ActImage:  true,
	editor.ActMedia:  true,
	editor.ActAnchor: true,
	editor.ActPaste:  true,
}

// invoke runs a toolbar action and opens whatever form it left open.
func (m *Model) invoke(id editor.ActionID) tea.Cmd {
	m.flushSource()
	if collapsing[id] && m.doc.Mode() == editor.ModeWysiwyg {
		m.collapseToCaret()
	}

	changed, err := m.tb.Invoke(m.ctx, id)
	events.UI.Action(string(id), changed)
	m.err = err
	m.status = ""
	switch {
	case err != nil:
	case id == editor.ActSave:
		m.dirty = false
		m.status = "Saved " + m.name
	case id == editor.ActOpen && changed:
		m.dirty = false
		m.cursor, m.mark = 0, -1
		m.status = "Reloaded " + m.name
	}

	switch {
	case m.tb.LinkPrompt().IsOpen():
		return m.openEditorPrompt(m.tb.LinkPrompt())
	case m.tb.AnchorPrompt().IsOpen():
		return m.openEditorPrompt(m.tb.AnchorPrompt())
	case m.tb.ImageDialog().IsOpen():
		return m.openDialog(m.tb.ImageDialog())
	case m.tb.MediaDialog().IsOpen():
		return m.openDialog(m.tb.MediaDialog())
	}
	m.afterEdit()
	return nil
}

// afterEdit brings the views back in line with the document.
func (m *Model) afterEdit() {
	m.syncSource()
	m.syncSelection()
	m.refreshViewer()
}

// flushSource hands textarea edits to the document before anything reads
// or toggles the source buffer.
func (m *Model) flushSource() {
	if m.doc.Mode() == editor.ModeSource {
		m.doc.SetSource(m.source.Value())
	}
}

func (m *Model) syncSource() {
	if m.doc.Mode() == editor.ModeSource {
		if m.source.Value() != m.doc.Source() {
			m.source.SetValue(m.doc.Source())
		}
		m.source.Focus()
		return
	}
	m.source.Blur()
}

func (m *Model) handleProbeDone(msg probeDoneMsg) {
	if m.focus != focusDialog || m.dialog == nil || m.dialog.Kind() != msg.kind {
		return
	}
	draft := m.dialog.Draft()
	m.fields[fieldWidth].SetValue(draft.Width)
	m.fields[fieldHeight].SetValue(draft.Height)
}

func waitProbe(d *editor.MediaDialog) tea.Cmd {
	return func() tea.Msg {
		d.Wait()
		return probeDoneMsg{kind: d.Kind()}
	}
}

var errNoSource = errors.New("a source URL is required")
