package picker

import (
	"context"
	"sync"
)

// Bridge is a Picker answered by the render loop. Pick queues a Prompt and
// blocks the calling task; the render loop collects prompts with TryRequest,
// shows its own picker, and answers through Resolve or Cancel.
type Bridge struct {
	prompts chan *Prompt
}

// Prompt is one outstanding Bridge request.
type Prompt struct {
	Request Request

	reply chan answer
	once  sync.Once
}

type answer struct {
	paths []string
	err   error
}

// NewBridge returns a Bridge with room for a handful of queued prompts.
func NewBridge() *Bridge {
	return &Bridge{prompts: make(chan *Prompt, 4)}
}

func (b *Bridge) Pick(ctx context.Context, req Request) ([]string, error) {
	p := &Prompt{Request: req, reply: make(chan answer, 1)}
	select {
	case b.prompts <- p:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case a := <-p.reply:
		return a.paths, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryRequest returns the next queued prompt without blocking.
func (b *Bridge) TryRequest() (*Prompt, bool) {
	select {
	case p := <-b.prompts:
		return p, true
	default:
		return nil, false
	}
}

// Resolve answers the prompt with paths. Only the first answer counts.
func (p *Prompt) Resolve(paths ...string) {
	p.send(answer{paths: append([]string(nil), paths...)})
}

// Cancel answers the prompt with ErrCancelled.
func (p *Prompt) Cancel() {
	p.send(answer{err: ErrCancelled})
}

func (p *Prompt) send(a answer) {
	p.once.Do(func() {
		p.reply <- a
	})
}
