package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/image-transfer/internal/script"
	uistate "github.com/atomicstack/image-transfer/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func TestHandleTextInputInsertsRunes(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	current := m.currentList()
	current.Replace([]uistate.Item{{ID: "pyscripts/one.py", Label: "one.py"}})
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")}) {
		t.Fatalf("expected key press to be handled")
	}
	if q := current.Query(); q.String() != "abc" || q.Pos() != 3 {
		t.Fatalf("expected 'abc' with caret at 3, got %q at %d", q.String(), q.Pos())
	}
}

func TestHandleTextInputIgnoresAltRunes(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	if m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true}) {
		t.Fatalf("alt chords must reach the key bindings")
	}
}

func TestHandleTextInputCaretAndBackspace(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	current := m.currentList()
	current.Replace([]uistate.Item{{ID: "pyscripts/one.py", Label: "one.py"}})
	current.Edit(func(q *uistate.Query) bool { return q.Insert("abc") })

	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyLeft}) {
		t.Fatalf("expected left arrow to be handled")
	}
	if pos := current.Query().Pos(); pos != 2 {
		t.Fatalf("expected caret at 2 after left, got %d", pos)
	}
	if !m.filterCursorDirty {
		t.Fatalf("expected caret move to reset the blink")
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatalf("expected backspace to be handled")
	}
	if q := current.Query(); q.String() != "ac" || q.Pos() != 1 {
		t.Fatalf("expected 'ac' with caret at 1, got %q at %d", q.String(), q.Pos())
	}
}

func TestEmptyFilterLeavesArrowsToList(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	if m.handleTextInput(tea.KeyMsg{Type: tea.KeyLeft}) {
		t.Fatalf("left on an empty filter must not be consumed")
	}
	if m.handleTextInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatalf("backspace on an empty filter must not be consumed")
	}
}

func TestCtrlWDeletesLastWord(t *testing.T) {
	py := newFakeSource("pyscripts")
	h := NewHarness(NewModel(Config{}, Deps{Python: py}))
	py.Publish("pyscripts/blur_edges.py", "pyscripts/sharpen.py")
	h.Frame()
	h.Type("blur sharp")
	if got := h.Model().Scripts(script.KindInterpreted); len(got) != 0 {
		t.Fatalf("expected no script matching both words, got %#v", got)
	}
	h.Key("ctrl+w")
	if q := h.Model().currentList().Query(); q.String() != "blur " {
		t.Fatalf("expected 'blur ' after ctrl+w, got %q", q.String())
	}
	if got := h.Model().Scripts(script.KindInterpreted); len(got) != 1 || got[0].Label != "blur_edges.py" {
		t.Fatalf("expected blur script listed again, got %#v", got)
	}
}

func TestCtrlUReturnsCursorToChosenScript(t *testing.T) {
	py := newFakeSource("pyscripts")
	h := NewHarness(NewModel(Config{}, Deps{Python: py}))
	py.Publish("pyscripts/a.py", "pyscripts/b.py", "pyscripts/c.py")
	h.Frame()
	h.Key("down")
	h.Key("enter")
	h.Type("c")
	current := h.Model().currentList()
	if item, _ := current.Current(); item.ID != "pyscripts/c.py" {
		t.Fatalf("expected cursor on the best match, got %q", item.ID)
	}
	h.Key("ctrl+u")
	if !current.Query().Empty() {
		t.Fatalf("expected ctrl+u to clear the filter")
	}
	if item, _ := current.Current(); item.ID != "pyscripts/b.py" {
		t.Fatalf("expected cursor back on the chosen script, got %q", item.ID)
	}
}

func TestFilterPromptPlaceholder(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	prompt := m.filterPrompt()
	if !strings.Contains(prompt, "ype to filter scripts") {
		t.Fatalf("expected placeholder in prompt, got %q", prompt)
	}
}

func TestCursorWrapsAroundList(t *testing.T) {
	py := newFakeSource("pyscripts")
	h := NewHarness(NewModel(Config{}, Deps{Python: py}))
	py.Publish("pyscripts/a.py", "pyscripts/b.py", "pyscripts/c.py")
	h.Frame()
	current := h.Model().currentList()
	h.Key("up")
	if current.Cursor != 2 {
		t.Fatalf("expected wrap to last entry, got %d", current.Cursor)
	}
	h.Key("down")
	if current.Cursor != 0 {
		t.Fatalf("expected wrap to first entry, got %d", current.Cursor)
	}
	h.Key("end")
	if current.Cursor != 2 {
		t.Fatalf("expected end to reach last entry, got %d", current.Cursor)
	}
}

func TestSettingFormsEditOptions(t *testing.T) {
	h := NewHarness(NewModel(Config{}, Deps{}))

	h.Key("alt+a")
	if h.Model().Mode() != ModeForm {
		t.Fatalf("expected form mode")
	}
	h.Type("--steps 4")
	h.Key("enter")
	if h.Model().Mode() != ModeBrowse || h.Model().extraArgs != "--steps 4" {
		t.Fatalf("expected extra args saved, got %q", h.Model().extraArgs)
	}

	h.Key("alt+i")
	h.Type("/opt/py/bin/python3")
	h.Key("enter")
	if h.Model().interpreter.Path != "/opt/py/bin/python3" {
		t.Fatalf("expected interpreter saved, got %q", h.Model().interpreter.Path)
	}

	h.Key("alt+o")
	h.Key("ctrl+u")
	h.Key("enter")
	if h.Model().output != "outcome/result.jpg" {
		t.Fatalf("empty output must not replace the path, got %q", h.Model().output)
	}

	h.Key("alt+a")
	h.Type(" more")
	h.Key("esc")
	if h.Model().extraArgs != "--steps 4" {
		t.Fatalf("esc must discard edits, got %q", h.Model().extraArgs)
	}
	if !strings.Contains(h.View(), "--steps 4") {
		t.Fatalf("expected options panel to show extra args:\n%s", h.View())
	}
}
