package events

import "github.com/open-cli-collective/richtext-cli/internal/logging"

type FileTracer struct{}

type ScriptTracer struct{}

type ProbeTracer struct{}

var (
	File   = FileTracer{}
	Script = ScriptTracer{}
	Probe  = ProbeTracer{}
)

func (FileTracer) Open(path, format string, size int) {
	logging.Trace("file.open", map[string]interface{}{"path": path, "format": format, "bytes": size})
}

func (FileTracer) Save(path, format string, size int) {
	logging.Trace("file.save", map[string]interface{}{"path": path, "format": format, "bytes": size})
}

func (ScriptTracer) Step(index int, op string, applied bool) {
	logging.Trace("script.step", map[string]interface{}{"index": index, "op": op, "applied": applied})
}

func (ProbeTracer) Fetch(url string) {
	logging.Trace("probe.fetch", map[string]interface{}{"url": url})
}

func (ProbeTracer) Result(url, format string, width, height int, err error) {
	payload := map[string]interface{}{"url": url, "format": format, "width": width, "height": height}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("probe.result", payload)
}
