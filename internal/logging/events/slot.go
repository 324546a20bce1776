package events

import "github.com/atomicstack/image-transfer/internal/logging"

type SlotTracer struct{}

type slotReason string

const (
	SlotReasonBusy     slotReason = "busy"
	SlotReasonPolicy   slotReason = "policy"
	SlotReasonEmpty    slotReason = "empty"
	SlotReasonInactive slotReason = "inactive"
)

var Slot = SlotTracer{}

func (SlotTracer) Begin(name, task string) {
	logging.Trace("slot.begin", map[string]interface{}{"slot": name, "task": task})
}

func (SlotTracer) Ignored(name string, reason slotReason) {
	logging.Trace("slot.ignored", map[string]interface{}{"slot": name, "reason": string(reason)})
}

func (SlotTracer) Populated(name, task, path string, width, height int) {
	logging.Trace("slot.populated", map[string]interface{}{
		"slot":   name,
		"task":   task,
		"path":   path,
		"width":  width,
		"height": height,
	})
}

func (SlotTracer) Failed(name, task string, err error) {
	payload := map[string]interface{}{"slot": name, "task": task}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("slot.failed", payload)
}

func (SlotTracer) Closed(name, task string) {
	logging.Trace("slot.closed", map[string]interface{}{"slot": name, "task": task})
}

func (SlotTracer) Unload(name string) {
	logging.Trace("slot.unload", map[string]interface{}{"slot": name})
}
