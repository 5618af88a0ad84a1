package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

// ViewMode selects which presentation of the document is live.
type ViewMode int

const (
	ModeWysiwyg ViewMode = iota
	ModeSource
)

func (m ViewMode) String() string {
	if m == ModeSource {
		return "source"
	}
	return "wysiwyg"
}

// Option configures a Document.
type Option func(*Document)

// WithReadonly makes the substrate reject every mutating command.
func WithReadonly(readonly bool) Option {
	return func(d *Document) { d.readonly = readonly }
}

// WithTracer routes engine traces to t.
func WithTracer(t Tracer) Option {
	return func(d *Document) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithClipboard sets the clipboard used by cut, copy and paste.
func WithClipboard(c Clipboard) Option {
	return func(d *Document) { d.clipboard = c }
}

// Document owns the document tree and its two presentations: the live
// structured view and the raw source buffer. It is the tree's only mutator
// and the single owner of the current selection.
type Document struct {
	root      *html.Node
	mode      ViewMode
	source    string
	sel       *Selection
	readonly  bool
	mounted   bool
	clipboard Clipboard
	substrate *treeSubstrate
	tracer    Tracer
	listeners map[int]Listener
	nextID    int
}

// NewDocument creates an empty document in WYSIWYG mode.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		root:      markup.NewRoot(),
		tracer:    nopTracer{},
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.substrate = newTreeSubstrate(d, d.clipboard)
	return d
}

// Root returns the container whose children are the document content.
func (d *Document) Root() *html.Node { return d.root }

// Mode returns the live view.
func (d *Document) Mode() ViewMode { return d.mode }

// Readonly reports whether mutating commands are rejected.
func (d *Document) Readonly() bool { return d.readonly }

// SetReadonly toggles the readonly flag.
func (d *Document) SetReadonly(readonly bool) { d.readonly = readonly }

// Substrate returns the command executor bound to this document's tree.
func (d *Document) Substrate() Substrate { return d.substrate }

// Subscribe registers l for every event and returns a function that
// removes it.
func (d *Document) Subscribe(l Listener) func() {
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	return func() { delete(d.listeners, id) }
}

func (d *Document) emit(e Event) {
	for i := 0; i < d.nextID; i++ {
		if l, ok := d.listeners[i]; ok {
			l(e)
		}
	}
}

func (d *Document) trace(event string, payload map[string]interface{}) {
	d.tracer.Trace(event, payload)
}

// Mount seeds the tree from a template payload the first time it is called
// with non-blank content. It reports whether the tree was seeded.
func (d *Document) Mount(template string) bool {
	if d.mounted {
		return false
	}
	content := strings.TrimSpace(template)
	if content == "" {
		return false
	}
	d.mounted = true
	if err := markup.ReplaceChildren(d.root, content); err != nil {
		markup.Clear(d.root)
	}
	d.trace("document.mount", map[string]interface{}{"bytes": len(content)})
	d.replaced()
	return true
}

// Source returns the raw source buffer. It is only meaningful in source mode.
func (d *Document) Source() string { return d.source }

// SetSource records edits made to the source buffer. Edits only reach the
// tree when the view is toggled back. Outside source mode it is a no-op.
func (d *Document) SetSource(buf string) bool {
	if d.mode != ModeSource {
		return false
	}
	d.source = buf
	return true
}

// ToggleView switches between the structured and the source view.
//
// Entering source mode snapshots the serialized tree, without template
// markers, into the buffer. Leaving it parses the buffer as a document and
// replaces the tree with the parsed body; a buffer that yields no body
// clears the tree.
func (d *Document) ToggleView() ViewMode {
	if d.mode == ModeWysiwyg {
		d.source = markup.StripTemplateMarkers(markup.Render(d.root))
		d.mode = ModeSource
	} else {
		d.replaceFromPayload(d.source)
		d.mode = ModeWysiwyg
		d.replaced()
	}
	d.trace("document.toggle", map[string]interface{}{"mode": d.mode.String()})
	d.emit(Event{Type: EventViewModeToggled, Mode: d.mode})
	return d.mode
}

// Load replaces the document with a full markup payload, e.g. an opened
// file. In source mode the buffer is refreshed too so that toggling back
// does not discard the loaded content.
func (d *Document) Load(payload string) {
	d.replaceFromPayload(payload)
	if d.mode == ModeSource {
		d.source = markup.StripTemplateMarkers(markup.Render(d.root))
	}
	d.trace("document.load", map[string]interface{}{"bytes": len(payload)})
	d.replaced()
}

// Input records content edited directly in the structured view. The prior
// content stays reachable through undo.
func (d *Document) Input(fragment string) {
	if d.mode != ModeWysiwyg || d.readonly {
		return
	}
	before := markup.Render(d.root)
	if err := markup.ReplaceChildren(d.root, fragment); err != nil {
		markup.Clear(d.root)
	}
	d.substrate.undo = pushHistory(d.substrate.undo, before)
	d.substrate.redo = nil
	d.sel = nil
	d.contentChanged()
}

func (d *Document) replaceFromPayload(payload string) {
	body, err := markup.ParseBody(payload)
	markup.Clear(d.root)
	if err != nil || body == nil {
		d.trace("document.parse.empty", map[string]interface{}{"error": errString(err)})
		return
	}
	markup.MoveChildren(d.root, body)
}

// replaced resets state tied to the previous tree after a wholesale
// replacement.
func (d *Document) replaced() {
	d.substrate.reset()
	d.setSelection(nil)
	d.contentChanged()
}

func (d *Document) contentChanged() {
	d.emit(Event{Type: EventContentChanged, Content: d.Content()})
}

// Content returns the serialized tree.
func (d *Document) Content() string {
	return markup.Render(d.root)
}

// Export returns the tree wrapped in the fixed document shell.
func (d *Document) Export() string {
	return markup.Shell(d.Content())
}

// Select replaces the current selection. It is the only selection-change
// signal the document listens to.
func (d *Document) Select(sel *Selection) {
	d.setSelection(sel)
}

func (d *Document) setSelection(sel *Selection) {
	d.sel = sel
	d.emit(Event{Type: EventSelectionChanged, Selection: sel})
}

// Selection returns the current selection, possibly nil.
func (d *Document) Selection() *Selection { return d.sel }

// ActiveFormats returns the formats active at the current selection.
func (d *Document) ActiveFormats() FormatSet {
	return ActiveFormats(d.sel, d.root)
}

// HandleEnter handles the Enter key. Inside an empty paragraph it inserts a
// line break instead of a new paragraph and reports the key as handled.
func (d *Document) HandleEnter() bool {
	if d.sel == nil || d.sel.IsRange() || d.sel.Kind() == KindText {
		return false
	}
	n := d.sel.Anchor().Node
	if n == nil {
		return false
	}
	if n.Type != html.ElementNode {
		n = n.Parent
	}
	if !markup.IsElement(n, "p") || !markup.Contains(d.root, n) {
		return false
	}
	if strings.TrimSpace(markup.TextContent(n)) != "" && strings.TrimSpace(markup.Render(n)) != "<br/>" {
		return false
	}
	return d.substrate.ExecCommand(CmdInsertHTML, "<br>")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
