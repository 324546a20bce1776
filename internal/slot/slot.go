// Package slot tracks the image slots shown by the UI and correlates each
// background result with the slot that asked for it.
package slot

import (
	"fmt"

	"github.com/atomicstack/image-transfer/internal/codec"
	"github.com/atomicstack/image-transfer/internal/task"
	"github.com/atomicstack/image-transfer/internal/thumb"
)

// State is the lifecycle position of a slot.
type State int

const (
	StateEmpty State = iota
	StatePending
	StatePopulated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ImageHandle is what a populated slot shows. It is replaced wholesale.
type ImageHandle struct {
	Path    string
	Label   string
	Width   int
	Height  int
	Bytes   int64
	Texture thumb.Texture
}

// Slot is a read-only snapshot of one slot.
type Slot struct {
	Name   string
	State  State
	Image  *ImageHandle
	Err    error
	TaskID string
}

// Delivery is what a background task hands back for a slot.
type Delivery struct {
	Path  string
	Image *codec.Image
	Bytes int64
	Err   error
}

// Source is a pending result the correlator polls once per frame.
type Source interface {
	ID() string
	Poll() (Delivery, task.Status)
}

type handleSource[T any] struct {
	handle  *task.Handle[T]
	convert func(T) Delivery
}

// FromHandle adapts a task handle to a Source.
func FromHandle[T any](h *task.Handle[T], convert func(T) Delivery) Source {
	return &handleSource[T]{handle: h, convert: convert}
}

func (s *handleSource[T]) ID() string {
	return s.handle.ID()
}

func (s *handleSource[T]) Poll() (Delivery, task.Status) {
	value, status := s.handle.TryTake()
	if status != task.StatusReady {
		return Delivery{}, status
	}
	return s.convert(value), status
}

// Deliveries adapts a handle that already yields Delivery values.
func Deliveries(h *task.Handle[Delivery]) Source {
	return FromHandle(h, func(d Delivery) Delivery { return d })
}
