package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/image-transfer/internal/runner"
	"github.com/atomicstack/image-transfer/internal/script"
	tea "github.com/charmbracelet/bubbletea"
)

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	if m.output != runner.DefaultOutput {
		t.Fatalf("expected default output %q, got %q", runner.DefaultOutput, m.output)
	}
	if m.thumbCols != defaultThumbCols || m.thumbRows != defaultThumbRows {
		t.Fatalf("unexpected thumbnail size %dx%d", m.thumbCols, m.thumbRows)
	}
	if m.Kind() != script.KindInterpreted || m.Arity() != script.ArityNone {
		t.Fatalf("unexpected initial kind/arity %s/%s", m.Kind(), m.Arity())
	}
	if m.Mode() != ModeBrowse {
		t.Fatalf("expected browse mode")
	}
	for _, name := range script.SlotNames {
		if _, ok := m.Slot(name); !ok {
			t.Fatalf("missing slot %s", name)
		}
	}
	if cmd := m.frameCmd(); cmd != nil {
		t.Fatalf("expected no self-scheduled frame with zero interval")
	}
}

func TestFrameReplacesScriptLists(t *testing.T) {
	py := newFakeSource("pyscripts")
	native := newFakeSource("nativescripts")
	h := NewHarness(NewModel(Config{}, Deps{Python: py, Native: native}))

	py.Publish("pyscripts/a.py", "pyscripts/b.py", "pyscripts/c.py")
	native.Publish("nativescripts/run.sh")
	h.Frame()

	got := h.Model().Scripts(script.KindInterpreted)
	if len(got) != 3 || got[0].Label != "a.py" || got[2].ID != "pyscripts/c.py" {
		t.Fatalf("unexpected python list %#v", got)
	}
	if native := h.Model().Scripts(script.KindNative); len(native) != 1 || native[0].Label != "run.sh" {
		t.Fatalf("unexpected native list %#v", native)
	}

	// no new listing keeps the current one
	h.Frame()
	if got := h.Model().Scripts(script.KindInterpreted); len(got) != 3 {
		t.Fatalf("expected list to persist, got %#v", got)
	}

	py.Publish("pyscripts/b.py")
	h.Frame()
	if got := h.Model().Scripts(script.KindInterpreted); len(got) != 1 || got[0].Label != "b.py" {
		t.Fatalf("expected wholesale replacement, got %#v", got)
	}
}

func TestSelectionDroppedWhenScriptDisappears(t *testing.T) {
	py := newFakeSource("pyscripts")
	h := NewHarness(NewModel(Config{}, Deps{Python: py}))
	py.Publish("pyscripts/a.py", "pyscripts/b.py")
	h.Frame()
	h.Key("down")
	h.Key("enter")
	desc, ok := h.Model().SelectedScript()
	if !ok || desc.Path != "pyscripts/b.py" || desc.Kind != script.KindInterpreted {
		t.Fatalf("unexpected selection %#v ok=%v", desc, ok)
	}

	py.Publish("pyscripts/a.py")
	h.Frame()
	if _, ok := h.Model().SelectedScript(); ok {
		t.Fatalf("expected selection to be dropped with its script")
	}
}

func TestToggleKindAndFlush(t *testing.T) {
	py := newFakeSource("pyscripts")
	native := newFakeSource("nativescripts")
	h := NewHarness(NewModel(Config{}, Deps{Python: py, Native: native}))

	h.Key("ctrl+f")
	if py.Flushes() != 1 || native.Flushes() != 0 {
		t.Fatalf("expected flush of the python source only, got %d/%d", py.Flushes(), native.Flushes())
	}
	h.Key("ctrl+t")
	if h.Model().Kind() != script.KindNative {
		t.Fatalf("expected native kind after toggle")
	}
	h.Key("ctrl+f")
	if native.Flushes() != 1 {
		t.Fatalf("expected native flush, got %d", native.Flushes())
	}
	if !strings.Contains(h.View(), "Native scripts") {
		t.Fatalf("expected native title in view:\n%s", h.View())
	}
}

func TestCycleArity(t *testing.T) {
	h := NewHarness(NewModel(Config{}, Deps{}))
	want := []script.Arity{script.AritySingle, script.ArityDual, script.ArityNone}
	for _, a := range want {
		h.Key("ctrl+n")
		if h.Model().Arity() != a {
			t.Fatalf("expected arity %s, got %s", a, h.Model().Arity())
		}
	}
}

func TestWindowSizeRespectsFixedDimensions(t *testing.T) {
	m := NewModel(Config{Width: 60}, Deps{})
	h := NewHarness(m)
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.width != 60 || m.height != 40 {
		t.Fatalf("expected fixed width and tracked height, got %dx%d", m.width, m.height)
	}
}

func TestEscapeClearsFilterThenQuits(t *testing.T) {
	py := newFakeSource("pyscripts")
	h := NewHarness(NewModel(Config{}, Deps{Python: py}))
	py.Publish("pyscripts/alpha.py", "pyscripts/beta.py")
	h.Frame()
	h.Type("bet")
	if got := h.Model().Scripts(script.KindInterpreted); len(got) != 1 {
		t.Fatalf("expected filtered list, got %#v", got)
	}
	h.Key("esc")
	if h.Quit() {
		t.Fatalf("esc with a filter should only clear it")
	}
	if got := h.Model().Scripts(script.KindInterpreted); len(got) != 2 {
		t.Fatalf("expected full list after clearing, got %#v", got)
	}
	h.Key("esc")
	if !h.Quit() {
		t.Fatalf("expected esc on an empty filter to quit")
	}
}
