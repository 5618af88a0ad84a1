package editor

import (
	"context"
	"errors"
	"regexp"
)

// ErrCanceled is returned by a FileAccess when the user backs out. It is
// never reported.
var ErrCanceled = errors.New("canceled")

// FileAccess opens and saves whole documents.
type FileAccess interface {
	OpenFile(ctx context.Context) (string, error)
	SaveFile(ctx context.Context, content string) error
}

// FontSource enumerates the fonts offered by the font name selector.
type FontSource interface {
	AvailableFonts() []string
}

// ActionID identifies a toolbar control.
type ActionID string

const (
	ActRemoveFormat  ActionID = "removeformat"
	ActBold          ActionID = "bold"
	ActItalic        ActionID = "italic"
	ActUnderline     ActionID = "underline"
	ActJustifyLeft   ActionID = "justifyleft"
	ActJustifyCenter ActionID = "justifycenter"
	ActJustifyRight  ActionID = "justifyright"
	ActOrderedList   ActionID = "orderedlist"
	ActUnorderedList ActionID = "unorderedlist"
	ActBlockquote    ActionID = "blockquote"
	ActOutdent       ActionID = "outdent"
	ActIndent        ActionID = "indent"
	ActLink          ActionID = "link"
	ActUnlink        ActionID = "unlink"
	ActForeColor     ActionID = "forecolor"
	ActBackColor     ActionID = "backcolor"
	ActBlockFormat   ActionID = "blockformat"
	ActFontName      ActionID = "fontname"
	ActFontSize      ActionID = "fontsize"
	ActUndo          ActionID = "undo"
	ActRedo          ActionID = "redo"
	ActCut           ActionID = "cut"
	ActCopy          ActionID = "copy"
	ActPaste         ActionID = "paste"
	ActOpen          ActionID = "open"
	ActSave          ActionID = "save"
	ActSource        ActionID = "source"
	ActImage         ActionID = "image"
	ActMedia         ActionID = "media"
	ActAnchor        ActionID = "anchor"
)

// Choice is one entry of a selector control.
type Choice struct {
	Name  string
	Value string
}

// Action describes a toolbar control. Actions with a Command are
// declarative and go straight to the dispatcher; the rest are handled by
// the toolbar itself.
type Action struct {
	ID        ActionID
	Label     string
	Menu      MenuID
	Command   string
	Value     string
	ActiveTag string
	Mutating  bool
	Selector  bool
}

var blockFormatChoices = []Choice{
	{"Normal Text", Unset},
	{"Heading 1", "h1"},
	{"Heading 2", "h2"},
	{"Heading 3", "h3"},
	{"Heading 4", "h4"},
	{"Heading 5", "h5"},
	{"Heading 6", "h6"},
	{"Paragraph", "p"},
	{"Pre-Formatted", "pre"},
}

var fontSizeChoices = []Choice{
	{"Font Size", Unset},
	{"Very Small", "1"},
	{"Small", "2"},
	{"Normal", "3"},
	{"Medium Large", "4"},
	{"Large", "5"},
	{"Very Large", "6"},
	{"Maximum", "7"},
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var actions = []Action{
	{ID: ActOpen, Label: "Open", Menu: MenuFile},
	{ID: ActSave, Label: "Save", Menu: MenuFile},
	{ID: ActSource, Label: "Source", Menu: MenuFile},

	{ID: ActRemoveFormat, Label: "Clear formatting", Menu: MenuFormat, Command: CmdRemoveFormat, Mutating: true},
	{ID: ActBold, Label: "Bold", Menu: MenuFormat, Command: CmdBold, ActiveTag: "b", Mutating: true},
	{ID: ActItalic, Label: "Italic", Menu: MenuFormat, Command: CmdItalic, ActiveTag: "i", Mutating: true},
	{ID: ActUnderline, Label: "Underline", Menu: MenuFormat, Command: CmdUnderline, ActiveTag: "u", Mutating: true},
	{ID: ActJustifyLeft, Label: "Align left", Menu: MenuFormat, Command: CmdJustifyLeft, Mutating: true},
	{ID: ActJustifyCenter, Label: "Align center", Menu: MenuFormat, Command: CmdJustifyCenter, Mutating: true},
	{ID: ActJustifyRight, Label: "Align right", Menu: MenuFormat, Command: CmdJustifyRight, Mutating: true},
	{ID: ActOrderedList, Label: "Numbered list", Menu: MenuFormat, Command: CmdInsertOrderedList, ActiveTag: "ol", Mutating: true},
	{ID: ActUnorderedList, Label: "Bulleted list", Menu: MenuFormat, Command: CmdInsertUnorderedList, ActiveTag: "ul", Mutating: true},
	{ID: ActBlockquote, Label: "Quote", Menu: MenuFormat, Command: CmdFormatBlock, Value: "blockquote", Mutating: true},
	{ID: ActOutdent, Label: "Outdent", Menu: MenuFormat, Command: CmdOutdent, Mutating: true},
	{ID: ActIndent, Label: "Indent", Menu: MenuFormat, Command: CmdIndent, Mutating: true},
	{ID: ActForeColor, Label: "Text color", Menu: MenuFormat, Mutating: true},
	{ID: ActBackColor, Label: "Highlight", Menu: MenuFormat, Mutating: true},
	{ID: ActBlockFormat, Label: "Block format", Menu: MenuFormat, Command: CmdFormatBlock, Mutating: true, Selector: true},
	{ID: ActFontName, Label: "Font", Menu: MenuFormat, Command: CmdFontName, Mutating: true, Selector: true},
	{ID: ActFontSize, Label: "Size", Menu: MenuFormat, Command: CmdFontSize, Mutating: true, Selector: true},

	{ID: ActUndo, Label: "Undo", Menu: MenuEdit, Command: CmdUndo, Mutating: true},
	{ID: ActRedo, Label: "Redo", Menu: MenuEdit, Command: CmdRedo, Mutating: true},
	{ID: ActCut, Label: "Cut", Menu: MenuEdit, Command: CmdCut, Mutating: true},
	{ID: ActCopy, Label: "Copy", Menu: MenuEdit, Command: CmdCopy},
	{ID: ActPaste, Label: "Paste", Menu: MenuEdit, Command: CmdPaste, Mutating: true},

	{ID: ActLink, Label: "Link", Menu: MenuInsert, ActiveTag: "a", Mutating: true},
	{ID: ActUnlink, Label: "Unlink", Menu: MenuInsert, Command: CmdUnlink, ActiveTag: "a", Mutating: true},
	{ID: ActImage, Label: "Image", Menu: MenuInsert, Mutating: true},
	{ID: ActMedia, Label: "Media", Menu: MenuInsert, Mutating: true},
	{ID: ActAnchor, Label: "Anchor", Menu: MenuInsert, Mutating: true},
}

// Actions returns the registered toolbar actions in display order.
func Actions() []Action {
	return append([]Action(nil), actions...)
}

// LookupAction finds a registered action.
func LookupAction(id ActionID) (Action, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Control is an action as rendered for the current document state.
type Control struct {
	Action
	Active   bool
	Disabled bool
	Choices  []Choice
}

// ToolbarOption configures a Toolbar.
type ToolbarOption func(*Toolbar)

// WithFonts sets the font collaborator.
func WithFonts(f FontSource) ToolbarOption {
	return func(t *Toolbar) { t.fonts = f }
}

// WithFiles sets the file collaborator used by open and save.
func WithFiles(f FileAccess) ToolbarOption {
	return func(t *Toolbar) { t.files = f }
}

// WithProber sets the prober used by the image and media dialogs.
func WithProber(p Prober) ToolbarOption {
	return func(t *Toolbar) { t.prober = p }
}

// WithExclusiveMenus lets at most one menu be open.
func WithExclusiveMenus(exclusive bool) ToolbarOption {
	return func(t *Toolbar) { t.exclusive = exclusive }
}

// WithRatioLock sets the ratio-lock default of new media drafts.
func WithRatioLock(locked bool) ToolbarOption {
	return func(t *Toolbar) { t.ratioLock = locked }
}

// Toolbar renders active and disabled state for every action and routes
// invocations to the dispatcher or to the toolbar's own handlers.
type Toolbar struct {
	doc        *Document
	dispatcher *Dispatcher
	tracer     Tracer
	fonts      FontSource
	files      FileAccess
	prober     Prober
	exclusive  bool
	ratioLock  bool

	menus  *Menus
	link   *Prompt
	anchor *Prompt
	image  *MediaDialog
	media  *MediaDialog

	foreColor string
	backColor string
}

// NewToolbar creates a toolbar bound to doc.
func NewToolbar(doc *Document, opts ...ToolbarOption) *Toolbar {
	t := &Toolbar{
		doc:       doc,
		tracer:    doc.tracer,
		ratioLock: true,
		foreColor: "#000000",
		backColor: "#ffff00",
	}
	for _, opt := range opts {
		opt(t)
	}
	t.dispatcher = NewDispatcher(doc.Substrate(), t.tracer)
	t.menus = NewMenus(t.exclusive)
	t.link = NewPrompt("Write the URL here", t.dispatcher.CreateLink)
	t.anchor = NewPrompt("Anchor name", t.dispatcher.InsertAnchor)
	t.image = NewMediaDialog(DialogImage, t.dispatcher, t.prober, WithLockDefault(t.ratioLock), WithMediaTracer(t.tracer))
	t.media = NewMediaDialog(DialogMedia, t.dispatcher, t.prober, WithLockDefault(t.ratioLock), WithMediaTracer(t.tracer))
	return t
}

// Document returns the document the toolbar drives.
func (t *Toolbar) Document() *Document { return t.doc }

// Dispatcher returns the toolbar's dispatcher.
func (t *Toolbar) Dispatcher() *Dispatcher { return t.dispatcher }

// Menus returns the menu state.
func (t *Toolbar) Menus() *Menus { return t.menus }

// ToggleMenu flips menu id and returns its new state.
func (t *Toolbar) ToggleMenu(id MenuID) bool { return t.menus.Toggle(id) }

// LinkPrompt returns the link URL prompt.
func (t *Toolbar) LinkPrompt() *Prompt { return t.link }

// AnchorPrompt returns the anchor name prompt.
func (t *Toolbar) AnchorPrompt() *Prompt { return t.anchor }

// ImageDialog returns the image insertion dialog.
func (t *Toolbar) ImageDialog() *MediaDialog { return t.image }

// MediaDialog returns the media insertion dialog.
func (t *Toolbar) MediaDialog() *MediaDialog { return t.media }

// Colors returns the current fore and back color picker values.
func (t *Toolbar) Colors() (fore, back string) { return t.foreColor, t.backColor }

// Choices returns the options of a selector action.
func (t *Toolbar) Choices(id ActionID) []Choice {
	switch id {
	case ActBlockFormat:
		return blockFormatChoices
	case ActFontSize:
		return fontSizeChoices
	case ActFontName:
		choices := []Choice{{"Font Name", Unset}}
		if t.fonts != nil {
			for _, f := range t.fonts.AvailableFonts() {
				choices = append(choices, Choice{f, f})
			}
		}
		return choices
	default:
		return nil
	}
}

// Controls renders every action for the current selection and mode.
func (t *Toolbar) Controls() []Control {
	formats := t.doc.ActiveFormats()
	source := t.doc.Mode() == ModeSource
	out := make([]Control, 0, len(actions))
	for _, a := range actions {
		c := Control{Action: a}
		if a.ActiveTag != "" {
			c.Active = formats.Has(a.ActiveTag)
		}
		if a.ID == ActSource {
			c.Active = source
		}
		c.Disabled = a.Mutating && (source || t.doc.Readonly())
		if a.Selector {
			c.Choices = t.Choices(a.ID)
		}
		out = append(out, c)
	}
	return out
}

// ControlsIn renders the actions that belong to menu.
func (t *Toolbar) ControlsIn(menu MenuID) []Control {
	var out []Control
	for _, c := range t.Controls() {
		if c.Menu == menu {
			out = append(out, c)
		}
	}
	return out
}

func (t *Toolbar) disabled(a Action) bool {
	return a.Mutating && (t.doc.Mode() == ModeSource || t.doc.Readonly())
}

// Invoke runs an action. It reports whether the document changed. Only
// file access failures are returned; a canceled file flow is not an error.
func (t *Toolbar) Invoke(ctx context.Context, id ActionID) (bool, error) {
	a, ok := LookupAction(id)
	if !ok {
		t.tracer.Trace("toolbar.unknown", map[string]interface{}{"action": string(id)})
		return false, nil
	}
	if t.disabled(a) {
		t.tracer.Trace("toolbar.disabled", map[string]interface{}{"action": string(id)})
		return false, nil
	}
	if a.Command != "" && !a.Selector {
		if a.Value != "" {
			return t.dispatcher.Dispatch(a.Command, a.Value), nil
		}
		return t.dispatcher.Dispatch(a.Command), nil
	}

	t.doc.emit(Event{Type: EventAction, Action: string(id)})
	switch id {
	case ActLink:
		t.link.Open("https://")
	case ActAnchor:
		t.anchor.Open("")
	case ActImage:
		t.image.Open()
	case ActMedia:
		t.media.Open()
	case ActForeColor:
		return t.dispatcher.Dispatch(CmdForeColor, t.foreColor), nil
	case ActBackColor:
		return t.dispatcher.Dispatch(CmdBackColor, t.backColor), nil
	case ActSource:
		t.doc.ToggleView()
		return true, nil
	case ActOpen:
		return t.open(ctx)
	case ActSave:
		return false, t.save(ctx)
	}
	return false, nil
}

// Choose applies a selector or color picker value. The Unset value clears
// formatting instead.
func (t *Toolbar) Choose(id ActionID, value string) bool {
	a, ok := LookupAction(id)
	if !ok || t.disabled(a) {
		return false
	}
	switch id {
	case ActForeColor, ActBackColor:
		if !hexColor.MatchString(value) {
			t.tracer.Trace("toolbar.rejected", map[string]interface{}{"action": string(id), "value": value})
			return false
		}
		if id == ActForeColor {
			t.foreColor = value
			return t.dispatcher.Dispatch(CmdForeColor, value)
		}
		t.backColor = value
		return t.dispatcher.Dispatch(CmdBackColor, value)
	}
	if !a.Selector {
		return false
	}
	return t.dispatcher.Dispatch(a.Command, value)
}

func (t *Toolbar) open(ctx context.Context) (bool, error) {
	if t.files == nil {
		return false, nil
	}
	content, err := t.files.OpenFile(ctx)
	if errors.Is(err, ErrCanceled) {
		return false, nil
	}
	if err != nil {
		t.tracer.Trace("toolbar.open.failed", map[string]interface{}{"error": err.Error()})
		return false, err
	}
	t.doc.Load(content)
	return true, nil
}

func (t *Toolbar) save(ctx context.Context) error {
	if t.files == nil {
		return nil
	}
	err := t.files.SaveFile(ctx, t.doc.Export())
	if errors.Is(err, ErrCanceled) {
		return nil
	}
	if err != nil {
		t.tracer.Trace("toolbar.save.failed", map[string]interface{}{"error": err.Error()})
	}
	return err
}
