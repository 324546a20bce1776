package events

import "github.com/atomicstack/image-transfer/internal/logging"

type RunTracer struct{}

var Run = RunTracer{}

func (RunTracer) Queue(task, name string, args []string) {
	logging.Trace("run.queue", map[string]interface{}{"task": task, "exe": name, "args": args})
}

func (RunTracer) Exit(task string, code int, err error) {
	payload := map[string]interface{}{"task": task, "code": code}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("run.exit", payload)
}

func (RunTracer) Output(task, path string, err error) {
	payload := map[string]interface{}{"task": task, "path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("run.output", payload)
}
