package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor keybindings.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	// Menus
	FileMenu   key.Binding
	FormatMenu key.Binding
	EditMenu   key.Binding
	InsertMenu key.Binding

	// Shortcuts
	Save      key.Binding
	Open      key.Binding
	Source    key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Bold      key.Binding
	Underline key.Binding
	Link      key.Binding
	Cut       key.Binding
	Copy      key.Binding
	Paste     key.Binding

	// Navigation
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	ExtendUp   key.Binding
	ExtendDown key.Binding
	Mark       key.Binding
	SelectAll  key.Binding

	// Forms and blocks
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Lock      key.Binding
	EditBlock key.Binding
	PickColor key.Binding
}

// DefaultKeyMap provides the default keybindings.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+q", "ctrl+c"),
		key.WithHelp("C-q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),

	FileMenu: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "file"),
	),
	FormatMenu: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("F2", "format"),
	),
	EditMenu: key.NewBinding(
		key.WithKeys("f3"),
		key.WithHelp("F3", "edit"),
	),
	InsertMenu: key.NewBinding(
		key.WithKeys("f4"),
		key.WithHelp("F4", "insert"),
	),

	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save"),
	),
	Open: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "reload"),
	),
	Source: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("C-e", "source"),
	),
	Undo: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("C-z", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("C-y", "redo"),
	),
	Bold: key.NewBinding(
		key.WithKeys("ctrl+b"),
		key.WithHelp("C-b", "bold"),
	),
	Underline: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "underline"),
	),
	Link: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("C-k", "link"),
	),
	Cut: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "cut"),
	),
	Copy: key.NewBinding(
		key.WithKeys("alt+c"),
		key.WithHelp("M-c", "copy"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("C-v", "paste"),
	),

	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "prev menu"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next menu"),
	),
	ExtendUp: key.NewBinding(
		key.WithKeys("shift+up", "K"),
		key.WithHelp("S-↑", "extend"),
	),
	ExtendDown: key.NewBinding(
		key.WithKeys("shift+down", "J"),
		key.WithHelp("S-↓", "extend"),
	),
	Mark: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "mark"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("C-a", "select all"),
	),

	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev field"),
	),
	Lock: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "ratio lock"),
	),
	EditBlock: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit block"),
	),
	PickColor: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "pick color"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FileMenu, k.FormatMenu, k.EditMenu, k.InsertMenu, k.Source, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FileMenu, k.FormatMenu, k.EditMenu, k.InsertMenu, k.Left, k.Right},
		{k.Save, k.Open, k.Source, k.Undo, k.Redo},
		{k.Bold, k.Underline, k.Link, k.Cut, k.Copy, k.Paste},
		{k.Up, k.Down, k.ExtendUp, k.ExtendDown, k.Mark, k.SelectAll, k.EditBlock},
		{k.Confirm, k.Cancel, k.NextField, k.Lock, k.PickColor, k.Help, k.Quit},
	}
}
