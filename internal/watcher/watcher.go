package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/image-transfer/internal/logging/events"
)

// DefaultTimeSlice is the step the background goroutine advances its Poller
// by on every tick.
const DefaultTimeSlice = 100 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Dir           string
	Extensions    []string
	FlushInterval time.Duration
	TimeSlice     time.Duration
}

// Watcher lists a script directory on a background goroutine and publishes
// the most recent listing for the render loop to collect.
type Watcher struct {
	dir   string
	slice time.Duration

	poller *Poller

	ctx    context.Context
	cancel context.CancelFunc

	flush chan struct{}
	lists chan []string
	wg    sync.WaitGroup
}

// New starts a watcher for opts.Dir. The first listing is published
// immediately.
func New(opts Options) *Watcher {
	slice := opts.TimeSlice
	if slice <= 0 {
		slice = DefaultTimeSlice
	}
	dir := opts.Dir
	exts := append([]string(nil), opts.Extensions...)
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:    dir,
		slice:  slice,
		ctx:    ctx,
		cancel: cancel,
		flush:  make(chan struct{}, 1),
		lists:  make(chan []string, 1),
	}
	w.poller = NewPoller(opts.FlushInterval, func() []string {
		files := List(dir, exts)
		events.Script.Listed(dir, len(files))
		return files
	})
	w.poller.Flush()

	w.wg.Add(1)
	go w.run()
	return w
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// TryNext returns the newest listing published since the last call, if any.
// It never blocks.
func (w *Watcher) TryNext() ([]string, bool) {
	select {
	case files := <-w.lists:
		return files, true
	default:
		return nil, false
	}
}

// Flush requests a listing on the next tick. Repeated requests before the
// watcher wakes collapse into one.
func (w *Watcher) Flush() {
	select {
	case w.flush <- struct{}{}:
		events.Script.Flush(w.dir)
	default:
	}
}

// Stop cancels the watcher goroutine.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	if files, ok := w.poller.Poll(0); ok {
		w.publish(files)
	}

	ticker := time.NewTicker(w.slice)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flush:
			w.poller.Flush()
			if files, ok := w.poller.Poll(0); ok {
				w.publish(files)
			}
		case <-ticker.C:
			if files, ok := w.poller.Poll(w.slice); ok {
				w.publish(files)
			}
		}
	}
}

// publish replaces any listing the render loop has not collected yet.
func (w *Watcher) publish(files []string) {
	select {
	case <-w.lists:
	default:
	}
	select {
	case w.lists <- files:
	default:
	}
}
