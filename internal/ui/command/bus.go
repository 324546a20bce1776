package command

import (
	"fmt"

	"github.com/atomicstack/image-transfer/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request describes a short side effect run outside the render loop, such as
// writing to the clipboard.
type Request struct {
	ID    string
	Label string
	Run   func() tea.Msg
}

// Bus turns requests into Bubble Tea commands while emitting trace logs.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps req into a command. Bubble Tea runs it on its own goroutine.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		msg := req.Run()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
