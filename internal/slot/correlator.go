package slot

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/atomicstack/image-transfer/internal/codec"
	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/atomicstack/image-transfer/internal/task"
	"github.com/atomicstack/image-transfer/internal/thumb"
)

var (
	// ErrBusy is returned when a slot already has an outstanding task.
	ErrBusy = errors.New("slot busy")
	// ErrUnknown is returned for slot names the correlator does not own.
	ErrUnknown = errors.New("unknown slot")
	// ErrLocked is returned by Unload while the movable policy is off.
	ErrLocked = errors.New("slot unloading disabled")
)

// Renderer builds the texture for a freshly decoded image.
type Renderer func(*codec.Image) thumb.Texture

// Transition records one state change produced by Poll.
type Transition struct {
	Slot   string
	TaskID string
	From   State
	To     State
	Err    error
}

type entry struct {
	Slot

	pending  Source
	priorSt  State
	priorErr error
}

// Correlator owns every slot. It is used from the render loop only and is not
// safe for concurrent use.
type Correlator struct {
	slots   map[string]*entry
	order   []string
	movable bool
	render  Renderer
}

// New creates empty slots with the given names.
func New(names []string, render Renderer) *Correlator {
	c := &Correlator{slots: make(map[string]*entry, len(names)), render: render}
	for _, name := range names {
		if _, ok := c.slots[name]; ok {
			continue
		}
		c.slots[name] = &entry{Slot: Slot{Name: name}}
		c.order = append(c.order, name)
	}
	return c
}

// Names returns the slot names in creation order.
func (c *Correlator) Names() []string {
	return append([]string(nil), c.order...)
}

// Get returns a snapshot of the named slot.
func (c *Correlator) Get(name string) (Slot, bool) {
	e, ok := c.slots[name]
	if !ok {
		return Slot{}, false
	}
	return e.Slot, true
}

// Busy reports whether the slot is waiting on a task.
func (c *Correlator) Busy(name string) bool {
	e, ok := c.slots[name]
	return ok && e.State == StatePending
}

// Pending returns how many slots are waiting on tasks.
func (c *Correlator) Pending() int {
	n := 0
	for _, e := range c.slots {
		if e.State == StatePending {
			n++
		}
	}
	return n
}

// Movable reports whether populated slots may be unloaded.
func (c *Correlator) Movable() bool {
	return c.movable
}

// SetMovable switches the unload policy. With it on, a failed or cancelled
// task also clears the slot's image.
func (c *Correlator) SetMovable(enabled bool) {
	c.movable = enabled
}

// Begin attaches src to the named slot. The slot keeps showing its current
// image until src resolves.
func (c *Correlator) Begin(name string, src Source) error {
	e, ok := c.slots[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	if src == nil {
		return fmt.Errorf("slot %s: nil source", name)
	}
	if e.State == StatePending {
		events.Slot.Ignored(name, events.SlotReasonBusy)
		return fmt.Errorf("%w: %s", ErrBusy, name)
	}
	e.priorSt = e.State
	e.priorErr = e.Err
	e.pending = src
	e.State = StatePending
	e.TaskID = src.ID()
	events.Slot.Begin(name, e.TaskID)
	return nil
}

// Poll checks every pending slot once, whichever arity mode is showing, and
// applies the results that arrived.
func (c *Correlator) Poll() []Transition {
	var out []Transition
	for _, name := range c.order {
		e := c.slots[name]
		if e.State != StatePending || e.pending == nil {
			continue
		}
		delivery, status := e.pending.Poll()
		switch status {
		case task.StatusPending:
			continue
		case task.StatusReady:
			out = append(out, c.deliver(e, delivery))
		default:
			out = append(out, c.close(e))
		}
	}
	return out
}

func (c *Correlator) deliver(e *entry, d Delivery) Transition {
	id := e.TaskID
	e.pending = nil
	if d.Err == nil && d.Image == nil {
		d.Err = fmt.Errorf("task %s returned no image", id)
	}
	if d.Err != nil {
		e.State = StateFailed
		e.Err = d.Err
		if c.movable {
			e.Image = nil
		}
		events.Slot.Failed(e.Name, id, d.Err)
		logging.Error(fmt.Errorf("slot %s: %w", e.Name, d.Err))
		return Transition{Slot: e.Name, TaskID: id, From: StatePending, To: StateFailed, Err: d.Err}
	}
	handle := &ImageHandle{
		Path:   d.Path,
		Label:  filepath.Base(d.Path),
		Width:  d.Image.Width,
		Height: d.Image.Height,
		Bytes:  d.Bytes,
	}
	if c.render != nil {
		handle.Texture = c.render(d.Image)
	}
	e.Image = handle
	e.State = StatePopulated
	e.Err = nil
	events.Slot.Populated(e.Name, id, d.Path, d.Image.Width, d.Image.Height)
	return Transition{Slot: e.Name, TaskID: id, From: StatePending, To: StatePopulated}
}

func (c *Correlator) close(e *entry) Transition {
	id := e.TaskID
	e.pending = nil
	switch {
	case c.movable:
		e.Image = nil
		e.Err = nil
		e.State = StateEmpty
	default:
		e.State = e.priorSt
		e.Err = e.priorErr
	}
	events.Slot.Closed(e.Name, id)
	return Transition{Slot: e.Name, TaskID: id, From: StatePending, To: e.State}
}

// Unload clears a slot's image. It is refused while the movable policy is
// off or the slot is waiting on a task.
func (c *Correlator) Unload(name string) error {
	e, ok := c.slots[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	if !c.movable {
		events.Slot.Ignored(name, events.SlotReasonPolicy)
		return fmt.Errorf("%w: %s", ErrLocked, name)
	}
	if e.State == StatePending {
		events.Slot.Ignored(name, events.SlotReasonBusy)
		return fmt.Errorf("%w: %s", ErrBusy, name)
	}
	if e.State == StateEmpty {
		events.Slot.Ignored(name, events.SlotReasonEmpty)
		return nil
	}
	e.Image = nil
	e.Err = nil
	e.State = StateEmpty
	e.TaskID = ""
	events.Slot.Unload(name)
	return nil
}
