package editor

// PromptState is the lifecycle of a modal text input.
type PromptState int

const (
	PromptClosed PromptState = iota
	PromptOpen
	PromptResolved
)

func (s PromptState) String() string {
	switch s {
	case PromptOpen:
		return "open"
	case PromptResolved:
		return "resolved"
	default:
		return "closed"
	}
}

// Prompt is a modal input used for link URLs and anchor names. The host
// renders it while it is open and resolves it with Submit or Cancel.
type Prompt struct {
	title   string
	initial string
	state   PromptState
	applied bool
	resolve func(string) bool
}

// NewPrompt creates a closed prompt whose submitted value goes to resolve.
func NewPrompt(title string, resolve func(string) bool) *Prompt {
	return &Prompt{title: title, resolve: resolve}
}

// Title is the question shown to the user.
func (p *Prompt) Title() string { return p.title }

// Initial is the value the input starts with.
func (p *Prompt) Initial() string { return p.initial }

// State returns the prompt lifecycle state.
func (p *Prompt) State() PromptState { return p.state }

// IsOpen reports whether the prompt awaits input.
func (p *Prompt) IsOpen() bool { return p.state == PromptOpen }

// Applied reports whether the last resolution changed the document.
func (p *Prompt) Applied() bool { return p.applied }

// Open shows the prompt with an initial value.
func (p *Prompt) Open(initial string) {
	p.initial = initial
	p.state = PromptOpen
	p.applied = false
}

// Submit resolves an open prompt with value. It reports whether the
// document changed; invalid input simply has no effect.
func (p *Prompt) Submit(value string) bool {
	if p.state != PromptOpen {
		return false
	}
	p.state = PromptResolved
	p.applied = p.resolve(value)
	return p.applied
}

// Cancel closes the prompt without effect.
func (p *Prompt) Cancel() {
	p.state = PromptClosed
	p.applied = false
}
