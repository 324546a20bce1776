package watcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period a Notifier waits before flushing.
const DefaultDebounce = 200 * time.Millisecond

// Flusher receives forced refresh requests.
type Flusher interface {
	Flush()
}

// Notifier turns filesystem events in a directory into debounced Flush calls
// so new scripts appear before the next periodic listing.
type Notifier struct {
	dir  string
	fs   *fsnotify.Watcher
	done chan struct{}
	once sync.Once
}

// Notify starts watching dir and calls target.Flush after each burst of
// changes settles for delay.
func Notify(dir string, delay time.Duration, target Flusher) (*Notifier, error) {
	if target == nil {
		return nil, fmt.Errorf("notify %s: nil target", dir)
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	n := &Notifier{dir: dir, fs: fsw, done: make(chan struct{})}
	go n.loop(debounce.New(delay), target)
	return n, nil
}

func (n *Notifier) loop(debounced func(func()), target Flusher) {
	defer close(n.done)
	for {
		select {
		case event, ok := <-n.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			debounced(target.Flush)
		case err, ok := <-n.fs.Errors:
			if !ok {
				return
			}
			events.Script.WatchError(n.dir, err)
			logging.Error(fmt.Errorf("watch %s: %w", n.dir, err))
		}
	}
}

// Close stops the filesystem watch and waits for the event loop to exit.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	var err error
	n.once.Do(func() {
		err = n.fs.Close()
		<-n.done
	})
	return err
}
