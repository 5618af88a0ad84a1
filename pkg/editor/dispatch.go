package editor

import (
	"html"
	"regexp"
	"strings"
)

// Unset is the value multi-option selectors use for "no selection"; it
// dispatches removeFormat instead of the selector's command.
const Unset = "--"

// linkURL is the only shape of URL accepted for links.
var linkURL = regexp.MustCompile(`^(http|https)://[^ \\"]+$`)

// ValidLinkURL reports whether url may be used for a link.
func ValidLinkURL(url string) bool {
	return linkURL.MatchString(url)
}

// Dispatcher maps named formatting intents onto substrate commands. It is
// stateless apart from the substrate it forwards to.
type Dispatcher struct {
	substrate Substrate
	tracer    Tracer
}

// NewDispatcher creates a dispatcher over s. A nil tracer discards traces.
func NewDispatcher(s Substrate, t Tracer) *Dispatcher {
	if t == nil {
		t = nopTracer{}
	}
	return &Dispatcher{substrate: s, tracer: t}
}

// Dispatch forwards name and an optional value to the substrate. The Unset
// value turns any command into removeFormat with no value.
func (d *Dispatcher) Dispatch(name string, value ...string) bool {
	if len(value) > 0 && value[0] == Unset {
		d.tracer.Trace("dispatch.unset", map[string]interface{}{"command": name})
		return d.substrate.ExecCommand(CmdRemoveFormat)
	}
	return d.substrate.ExecCommand(name, value...)
}

// CreateLink links the selection to url. URLs other than plain http(s) are
// silently refused.
func (d *Dispatcher) CreateLink(url string) bool {
	if !ValidLinkURL(url) {
		d.tracer.Trace("dispatch.rejected", map[string]interface{}{"command": CmdCreateLink, "value": url})
		return false
	}
	return d.substrate.ExecCommand(CmdCreateLink, url)
}

// InsertAnchor inserts a named anchor at the selection. Blank names are a
// no-op.
func (d *Dispatcher) InsertAnchor(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		d.tracer.Trace("dispatch.rejected", map[string]interface{}{"command": "anchor"})
		return false
	}
	return d.substrate.ExecCommand(CmdInsertHTML, AnchorMarkup(name))
}

// AnchorMarkup builds the fragment inserted for a named anchor.
func AnchorMarkup(name string) string {
	return `<a name="` + html.EscapeString(name) + `"></a>`
}
