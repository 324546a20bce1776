package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/atomicstack/image-transfer/internal/picker"
	"github.com/atomicstack/image-transfer/internal/runner"
	"github.com/atomicstack/image-transfer/internal/slot"
	"github.com/atomicstack/image-transfer/internal/task"
	"github.com/atomicstack/image-transfer/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// clipboardMsg reports the outcome of a clipboard write.
type clipboardMsg struct {
	path string
	err  error
}

// pickInput asks the picker for an image on a background task and attaches
// the handle to the nth input slot of the current arity.
func (m *Model) pickInput(index int) tea.Cmd {
	names := m.arity.InputSlots()
	if index < 0 || index >= len(names) {
		m.setInfo(fmt.Sprintf("%s mode has no input %d", m.arity, index+1))
		return nil
	}
	name := names[index]
	if m.slots.Busy(name) {
		events.Slot.Ignored(name, events.SlotReasonBusy)
		m.setInfo(fmt.Sprintf("%s is still loading", name))
		return nil
	}
	if m.picker == nil {
		m.errMsg = "no file picker configured"
		return nil
	}
	ctx, p, dec := m.ctx, m.picker, m.codec
	req := picker.Request{
		Title: fmt.Sprintf("Select image for %s", name),
		Dir:   m.imageDir,
	}
	events.Picker.Open(name, req.Dir)
	h := task.Spawn("pick", func() (slot.Delivery, bool) {
		path, err := picker.Single(ctx, p, req)
		switch {
		case errors.Is(err, picker.ErrCancelled):
			events.Picker.Cancelled(name)
			return slot.Delivery{}, false
		case errors.Is(err, picker.ErrMultiSelect):
			logging.Error(fmt.Errorf("%s: %w", name, err))
			return slot.Delivery{}, false
		case err != nil:
			return slot.Delivery{Err: err}, true
		}
		events.Picker.Selected(name, []string{path})
		img, err := dec.Decode(path)
		if err != nil {
			return slot.Delivery{Path: path, Err: err}, true
		}
		d := slot.Delivery{Path: path, Image: img}
		if info, err := os.Stat(path); err == nil {
			d.Bytes = info.Size()
		}
		return d, true
	})
	if err := m.slots.Begin(name, slot.Deliveries(h)); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	return nil
}

// execute launches the selected script against the current inputs. All
// arities share one output path, so it waits until no output slot is busy.
func (m *Model) execute() tea.Cmd {
	desc, ok := m.SelectedScript()
	if !ok {
		m.setInfo("Select a script first (enter)")
		return nil
	}
	for _, name := range m.slots.Names() {
		if isOutputSlot(name) && m.slots.Busy(name) {
			events.Slot.Ignored(name, events.SlotReasonBusy)
			m.setInfo("A script is already running")
			return nil
		}
	}
	inputs := make([]string, 0, m.arity.Inputs())
	for _, name := range m.arity.InputSlots() {
		s, _ := m.slots.Get(name)
		if s.Image == nil {
			m.setInfo(fmt.Sprintf("Load an image into %s first", name))
			return nil
		}
		inputs = append(inputs, s.Image.Path)
	}
	r := *m.runner
	r.Interpreter = m.interpreter
	req := runner.Request{
		Script:    desc,
		Arity:     m.arity,
		Inputs:    inputs,
		Output:    m.output,
		ExtraArgs: m.extraArgs,
	}
	h := r.Run(m.ctx, req)
	out := m.arity.OutputSlot()
	if err := m.slots.Begin(out, slot.FromHandle(h, resultDelivery)); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Running %s", desc.Name()))
	return nil
}

func resultDelivery(res runner.Result) slot.Delivery {
	return slot.Delivery{Path: res.Output, Image: res.Image, Bytes: res.Bytes, Err: res.Err}
}

// unload clears the nth slot of the current arity; index == -1 selects the
// output slot.
func (m *Model) unload(index int) tea.Cmd {
	var name string
	if index < 0 {
		name = m.arity.OutputSlot()
	} else {
		names := m.arity.InputSlots()
		if index >= len(names) {
			events.Slot.Ignored(fmt.Sprintf("input-%d", index+1), events.SlotReasonInactive)
			return nil
		}
		name = names[index]
	}
	if err := m.slots.Unload(name); err != nil {
		switch {
		case errors.Is(err, slot.ErrLocked):
			m.setInfo("Unloading is disabled (ctrl+l to allow)")
		case errors.Is(err, slot.ErrBusy):
			m.setInfo(fmt.Sprintf("%s is still loading", name))
		default:
			m.errMsg = err.Error()
		}
	}
	return nil
}

func (m *Model) toggleKind() {
	m.kind = m.kind.Toggle()
	events.Script.Mode(m.kind.String())
	m.forceClearInfo()
}

func (m *Model) flushScripts() {
	src := m.sources[m.kind]
	if src == nil {
		return
	}
	src.Flush()
	events.Script.Flush(src.Dir())
	m.setInfo(fmt.Sprintf("Rescanning %s", src.Dir()))
}

func (m *Model) cycleArity() {
	m.arity = m.arity.Next()
	events.UI.Arity(m.arity.String())
}

func (m *Model) toggleMovable() {
	enabled := !m.slots.Movable()
	m.slots.SetMovable(enabled)
	events.UI.Movable(enabled)
	if enabled {
		m.setInfo("Image unloading allowed")
	} else {
		m.setInfo("Image unloading locked")
	}
}

func (m *Model) selectScript() {
	l := m.currentList()
	item, ok := l.Choose()
	if !ok {
		return
	}
	events.Script.Select(m.kind.String(), item.ID)
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Selected %s", item.Label))
}

// copyOutput copies the absolute path of the shown result to the clipboard.
func (m *Model) copyOutput() tea.Cmd {
	s, _ := m.slots.Get(m.arity.OutputSlot())
	if s.Image == nil {
		m.setInfo("No result to copy")
		return nil
	}
	if m.clipboard == nil {
		m.errMsg = "clipboard unavailable"
		return nil
	}
	path := s.Image.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	write := m.clipboard
	return m.bus.Execute(command.Request{
		ID:    "clipboard:copy",
		Label: path,
		Run: func() tea.Msg {
			return clipboardMsg{path: path, err: write(path)}
		},
	})
}

func (m *Model) handleClipboardMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(clipboardMsg)
	if !ok {
		return nil
	}
	events.UI.Clipboard(res.path, res.err)
	if res.err != nil {
		logging.Error(res.err)
		m.errMsg = fmt.Sprintf("copy failed: %v", res.err)
		return nil
	}
	m.setInfo(fmt.Sprintf("Copied %s", res.path))
	return nil
}
