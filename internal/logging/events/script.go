package events

import "github.com/atomicstack/image-transfer/internal/logging"

type ScriptTracer struct{}

var Script = ScriptTracer{}

func (ScriptTracer) Listed(dir string, count int) {
	logging.Trace("script.listed", map[string]interface{}{"dir": dir, "count": count})
}

func (ScriptTracer) Flush(dir string) {
	logging.Trace("script.flush", map[string]interface{}{"dir": dir})
}

func (ScriptTracer) Select(kind, path string) {
	logging.Trace("script.select", map[string]interface{}{"kind": kind, "path": path})
}

func (ScriptTracer) Mode(kind string) {
	logging.Trace("script.mode", map[string]interface{}{"kind": kind})
}

func (ScriptTracer) WatchError(dir string, err error) {
	if err == nil {
		return
	}
	logging.Trace("script.watch.error", map[string]interface{}{"dir": dir, "error": err.Error()})
}
