package events

import "github.com/open-cli-collective/richtext-cli/internal/logging"

type UITracer struct{}

var UI = UITracer{}

func (UITracer) Key(focus, key string) {
	logging.Trace("ui.key", map[string]interface{}{"focus": focus, "key": key})
}

func (UITracer) Menu(menu string, open bool) {
	logging.Trace("ui.menu", map[string]interface{}{"menu": menu, "open": open})
}

func (UITracer) Action(id string, changed bool) {
	logging.Trace("ui.action", map[string]interface{}{"action": id, "changed": changed})
}
