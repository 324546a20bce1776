package watcher

import "time"

// DefaultFlushInterval is how often a listing is produced without a forced
// refresh.
const DefaultFlushInterval = time.Second

// Poller is the cooperative timer behind a Watcher. It is not safe for
// concurrent use; the owning goroutine drives it.
type Poller struct {
	interval time.Duration
	elapsed  time.Duration
	forced   bool
	list     func() []string
}

// NewPoller returns a Poller that calls list once per interval.
func NewPoller(interval time.Duration, list func() []string) *Poller {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Poller{interval: interval, list: list}
}

// Flush forces the next Poll to produce a listing.
func (p *Poller) Flush() {
	p.forced = true
}

// Poll advances the accumulator by elapsed. It returns a fresh listing when
// the accumulator reaches the interval or a Flush is outstanding, resetting
// the accumulator either way.
func (p *Poller) Poll(elapsed time.Duration) ([]string, bool) {
	if elapsed > 0 {
		p.elapsed += elapsed
	}
	if !p.forced && p.elapsed < p.interval {
		return nil, false
	}
	p.forced = false
	p.elapsed = 0
	if p.list == nil {
		return []string{}, true
	}
	return p.list(), true
}
