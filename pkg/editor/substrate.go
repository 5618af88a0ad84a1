package editor

import (
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

// Command names understood by the substrate.
const (
	CmdRemoveFormat        = "removeFormat"
	CmdBold                = "bold"
	CmdItalic              = "italic"
	CmdUnderline           = "underline"
	CmdJustifyLeft         = "justifyleft"
	CmdJustifyCenter       = "justifycenter"
	CmdJustifyRight        = "justifyright"
	CmdInsertOrderedList   = "insertorderedlist"
	CmdInsertUnorderedList = "insertunorderedlist"
	CmdFormatBlock         = "formatblock"
	CmdOutdent             = "outdent"
	CmdIndent              = "indent"
	CmdCreateLink          = "createlink"
	CmdUnlink              = "unlink"
	CmdForeColor           = "forecolor"
	CmdBackColor           = "backcolor"
	CmdFontName            = "fontname"
	CmdFontSize            = "fontsize"
	CmdUndo                = "undo"
	CmdRedo                = "redo"
	CmdCut                 = "cut"
	CmdCopy                = "copy"
	CmdPaste               = "paste"
	CmdInsertHTML          = "insertHTML"
)

// maxHistory bounds the undo and redo stacks.
const maxHistory = 100

// Substrate executes the fixed command vocabulary against the current
// selection. It reports whether the command had an effect.
type Substrate interface {
	ExecCommand(name string, value ...string) bool
}

// Clipboard is the collaborator behind cut, copy and paste.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// MemoryClipboard is a process-local Clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// ReadText returns the last written text.
func (c *MemoryClipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

// WriteText stores s.
func (c *MemoryClipboard) WriteText(s string) error {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
	return nil
}

type commandKind int

const (
	kindMutating commandKind = iota
	kindReadOnly
	kindHistory
)

type commandSpec struct {
	kind commandKind
	run  func(s *treeSubstrate, value string) bool
}

// treeSubstrate executes commands directly against a Document's tree.
type treeSubstrate struct {
	doc       *Document
	clipboard Clipboard
	undo      []string
	redo      []string
	// marker holds the place of deleted content until settle resolves it.
	marker *html.Node
}

func newTreeSubstrate(doc *Document, clipboard Clipboard) *treeSubstrate {
	if clipboard == nil {
		clipboard = &MemoryClipboard{}
	}
	return &treeSubstrate{doc: doc, clipboard: clipboard}
}

// ExecCommand runs one command. Commands are matched case-insensitively. In
// source mode the tree is not the live surface and every command is inert.
func (s *treeSubstrate) ExecCommand(name string, value ...string) bool {
	var v string
	if len(value) > 0 {
		v = value[0]
	}
	def, ok := commands[strings.ToLower(name)]
	switch {
	case !ok:
		s.doc.trace("editor.command.unknown", map[string]interface{}{"command": name})
		return false
	case s.doc.mode == ModeSource:
		s.doc.trace("editor.command.inert", map[string]interface{}{"command": name, "reason": "source view"})
		return false
	case def.kind != kindReadOnly && s.doc.readonly:
		s.doc.trace("editor.command.inert", map[string]interface{}{"command": name, "reason": "readonly"})
		return false
	}

	var before string
	if def.kind == kindMutating {
		before = markup.Render(s.doc.root)
	}
	applied := def.run(s, v)
	s.doc.trace("editor.command", map[string]interface{}{"command": name, "value": v, "applied": applied})
	if !applied {
		return false
	}
	if def.kind == kindMutating {
		s.undo = pushHistory(s.undo, before)
		s.redo = nil
	}
	if def.kind != kindReadOnly {
		s.doc.contentChanged()
	}
	return true
}

// reset drops history, used when the tree is replaced wholesale.
func (s *treeSubstrate) reset() {
	s.undo, s.redo = nil, nil
}

func pushHistory(stack []string, snapshot string) []string {
	stack = append(stack, snapshot)
	if len(stack) > maxHistory {
		stack = stack[len(stack)-maxHistory:]
	}
	return stack
}

func (s *treeSubstrate) restore(snapshot string) bool {
	if err := markup.ReplaceChildren(s.doc.root, snapshot); err != nil {
		return false
	}
	s.doc.setSelection(Caret(s.doc.root, markup.ChildCount(s.doc.root)))
	return true
}

func undoCommand(s *treeSubstrate, _ string) bool {
	if len(s.undo) == 0 {
		return false
	}
	snapshot := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = pushHistory(s.redo, markup.Render(s.doc.root))
	return s.restore(snapshot)
}

func redoCommand(s *treeSubstrate, _ string) bool {
	if len(s.redo) == 0 {
		return false
	}
	snapshot := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = pushHistory(s.undo, markup.Render(s.doc.root))
	return s.restore(snapshot)
}
