package ui

import (
	"fmt"
	"time"

	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/atomicstack/image-transfer/internal/script"
	"github.com/atomicstack/image-transfer/internal/slot"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg drives one pass of the render loop.
type frameMsg struct {
	at time.Time
}

func (m *Model) frameCmd() tea.Cmd {
	if !m.animated() {
		return nil
	}
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{at: t}
	})
}

// handleFrameMsg refreshes the script lists, drains finished tasks into their
// slots and picks up picker prompts. Nothing here blocks.
func (m *Model) handleFrameMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(frameMsg); !ok {
		return nil
	}
	m.refreshScripts()
	for _, tr := range m.slots.Poll() {
		m.applyTransition(tr)
	}
	cmds := []tea.Cmd{}
	if cmd := m.pollBridge(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.frameCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// handleSpinnerTick advances the busy-slot spinner. Without animation the
// next tick is not scheduled.
func (m *Model) handleSpinnerTick(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(tick)
	if !m.animated() {
		return nil
	}
	return cmd
}

func (m *Model) refreshScripts() {
	for kind, src := range m.sources {
		if src == nil {
			continue
		}
		paths, ok := src.TryNext()
		if !ok {
			continue
		}
		m.lists[kind].Replace(scriptItems(script.Descriptors(paths, kind)))
		events.Script.Listed(src.Dir(), len(paths))
	}
}

func (m *Model) applyTransition(tr slot.Transition) {
	switch tr.To {
	case slot.StateFailed:
		m.errMsg = describeFailure(tr.Slot, tr.Err)
	case slot.StatePopulated:
		if isOutputSlot(tr.Slot) {
			if s, ok := m.slots.Get(tr.Slot); ok && s.Image != nil {
				m.setInfo(fmt.Sprintf("Result ready: %s", s.Image.Label))
			}
			m.errMsg = ""
		}
	}
}

func isOutputSlot(name string) bool {
	switch name {
	case script.SlotOutputNone, script.SlotOutputSingle, script.SlotOutputDual:
		return true
	}
	return false
}

func describeFailure(name string, err error) string {
	if err == nil {
		return fmt.Sprintf("%s failed", name)
	}
	return fmt.Sprintf("%s: %v", name, err)
}
