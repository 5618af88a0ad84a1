package editor

// EventType names the signals a Document emits to its containing context.
type EventType string

const (
	EventSelectionChanged EventType = "selection-changed"
	EventContentChanged   EventType = "content-changed"
	EventViewModeToggled  EventType = "view-mode-toggled"
	EventAction           EventType = "action"
)

// Event is delivered to subscribers. Only the field matching Type is set.
type Event struct {
	Type      EventType
	Selection *Selection
	Content   string
	Mode      ViewMode
	Action    string
}

// Listener receives document events.
type Listener func(Event)

// Tracer records engine decisions, including the silent no-ops that are
// never surfaced to the user.
type Tracer interface {
	Trace(event string, payload map[string]interface{})
}

type nopTracer struct{}

func (nopTracer) Trace(string, map[string]interface{}) {}
