// Package task runs single units of blocking work off the render loop and
// hands their result back through a poll-only, one-shot Handle.
//
// A Handle has exactly one consumer (the render loop) and one producer (the
// goroutine started by Spawn). The result channel is buffered, so the
// producer never blocks on delivery even if the Handle has been dropped, and
// the goroutine always exits once its work returns.
package task

import (
	"fmt"

	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/google/uuid"
)

// Status is the outcome of a single TryTake call.
type Status int

const (
	// StatusPending means the work has not finished yet.
	StatusPending Status = iota
	// StatusReady means a value was delivered and has now been consumed.
	StatusReady
	// StatusClosed means no value is, or will ever be, available.
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Handle is a single-result reference to a background unit of work.
type Handle[T any] struct {
	id     string
	kind   string
	result chan T
	done   chan struct{}
	taken  bool
}

// Spawn starts work on its own goroutine. work reports ok=false when it
// finished without producing a value (for example a cancelled picker); the
// handle then resolves to StatusClosed. A panic inside work is recovered,
// logged, and also resolves to StatusClosed.
func Spawn[T any](kind string, work func() (T, bool)) *Handle[T] {
	h := newHandle[T](kind)
	events.Task.Spawn(h.id, kind)
	go h.run(work)
	return h
}

// Resolved returns a handle that already holds value.
func Resolved[T any](kind string, value T) *Handle[T] {
	h := newHandle[T](kind)
	h.result <- value
	close(h.result)
	close(h.done)
	return h
}

// Closed returns a handle that finished without a value.
func Closed[T any](kind string) *Handle[T] {
	h := newHandle[T](kind)
	close(h.result)
	close(h.done)
	return h
}

func newHandle[T any](kind string) *Handle[T] {
	return &Handle[T]{
		id:     uuid.NewString(),
		kind:   kind,
		result: make(chan T, 1),
		done:   make(chan struct{}),
	}
}

func (h *Handle[T]) run(work func() (T, bool)) {
	defer close(h.done)
	defer close(h.result)
	defer func() {
		if r := recover(); r != nil {
			events.Task.Panic(h.id, r)
			logging.Error(fmt.Errorf("task %s (%s) panicked: %v", h.id, h.kind, r))
		}
	}()
	if work == nil {
		return
	}
	value, ok := work()
	if ok {
		h.result <- value
	}
}

// TryTake polls the handle without blocking. After a StatusReady result
// every later call returns StatusClosed.
func (h *Handle[T]) TryTake() (T, Status) {
	var zero T
	if h == nil || h.taken {
		return zero, StatusClosed
	}
	select {
	case value, ok := <-h.result:
		h.taken = true
		if !ok {
			return zero, StatusClosed
		}
		return value, StatusReady
	default:
		return zero, StatusPending
	}
}

// ID returns the identifier used to correlate trace entries.
func (h *Handle[T]) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

// Kind returns the label passed to Spawn.
func (h *Handle[T]) Kind() string {
	if h == nil {
		return ""
	}
	return h.kind
}

// Done is closed once the work has returned. Receiving from it never
// consumes the result. A nil handle reports done.
func (h *Handle[T]) Done() <-chan struct{} {
	if h == nil {
		return closedDone
	}
	return h.done
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()
