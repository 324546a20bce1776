package events

import "github.com/atomicstack/image-transfer/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type PickerTracer struct{}

type TaskTracer struct{}

var (
	UI     = UITracer{}
	Filter = FilterTracer{}
	Picker = PickerTracer{}
	Task   = TaskTracer{}
)

func (UITracer) Key(key string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key})
}

func (UITracer) Arity(mode string) {
	logging.Trace("ui.arity", map[string]interface{}{"mode": mode})
}

func (UITracer) Movable(enabled bool) {
	logging.Trace("ui.movable", map[string]interface{}{"enabled": enabled})
}

func (UITracer) Setting(name, value string) {
	logging.Trace("ui.setting", map[string]interface{}{"name": name, "value": value})
}

func (UITracer) Clipboard(path string, err error) {
	payload := map[string]interface{}{"path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("ui.clipboard", payload)
}

func (FilterTracer) Changed(list, filter string) {
	logging.Trace("filter.change", map[string]interface{}{"list": list, "filter": filter})
}

func (FilterTracer) Cleared(list string) {
	logging.Trace("filter.clear", map[string]interface{}{"list": list})
}



func (PickerTracer) Open(slot, dir string) {
	logging.Trace("picker.open", map[string]interface{}{"slot": slot, "dir": dir})
}

func (PickerTracer) Cancelled(slot string) {
	logging.Trace("picker.cancel", map[string]interface{}{"slot": slot})
}

func (PickerTracer) Selected(slot string, paths []string) {
	logging.Trace("picker.select", map[string]interface{}{"slot": slot, "paths": paths})
}

func (TaskTracer) Spawn(id, kind string) {
	logging.Trace("task.spawn", map[string]interface{}{"task": id, "kind": kind})
}

func (TaskTracer) Panic(id string, recovered interface{}) {
	logging.Trace("task.panic", map[string]interface{}{"task": id, "panic": recovered})
}

type CommandTracer struct{}

var Command = CommandTracer{}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}


func (FilterTracer) Cursor(list string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"list": list, "cursor": pos})
}


func (UITracer) Cursor(list string, pos int) {
	logging.Trace("ui.cursor", map[string]interface{}{"list": list, "cursor": pos})
}
