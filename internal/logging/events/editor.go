package events

import "github.com/open-cli-collective/richtext-cli/internal/logging"

// EditorTracer forwards engine traces to the log. It satisfies
// editor.Tracer.
type EditorTracer struct{}

var Editor = EditorTracer{}

func (EditorTracer) Trace(event string, payload map[string]interface{}) {
	logging.Trace(event, payload)
}
