package ui

import (
	"unicode"

	"github.com/atomicstack/image-transfer/internal/logging/events"
	uistate "github.com/atomicstack/image-transfer/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeBrowse {
		return nil
	}
	if m.verbose {
		events.UI.Key(keyMsg.String())
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		m.selectScript()
	case "up":
		m.moveCursor(func(l *list) bool { return l.Step(-1) })
	case "down":
		m.moveCursor(func(l *list) bool { return l.Step(1) })
	case "pgup":
		m.moveCursor(func(l *list) bool { return l.Page(-1, m.pageRows()) })
	case "pgdown":
		m.moveCursor(func(l *list) bool { return l.Page(1, m.pageRows()) })
	case "home":
		m.moveCursor((*list).First)
	case "end":
		m.moveCursor((*list).Last)
	case "ctrl+t":
		m.toggleKind()
	case "ctrl+f":
		m.flushScripts()
	case "ctrl+n":
		m.cycleArity()
	case "ctrl+o":
		return m.pickInput(0)
	case "ctrl+p":
		return m.pickInput(1)
	case "ctrl+x":
		return m.execute()
	case "ctrl+l":
		m.toggleMovable()
	case "alt+1":
		return m.unload(0)
	case "alt+2":
		return m.unload(1)
	case "alt+3":
		return m.unload(-1)
	case "ctrl+y":
		return m.copyOutput()
	case "alt+a":
		return m.startSettingForm(settingExtraArgs)
	case "alt+i":
		return m.startSettingForm(settingInterpreter)
	case "alt+o":
		return m.startSettingForm(settingOutput)
	}
	return nil
}

func (m *Model) handleEscapeKey() tea.Cmd {
	if l := m.currentList(); l != nil && !l.Query().Empty() {
		m.editFilter(l, (*uistate.Query).Clear)
		events.Filter.Cleared(l.ID)
		return nil
	}
	return tea.Quit
}

// moveCursor applies a cursor motion to the visible list.
func (m *Model) moveCursor(move func(*list) bool) {
	if l := m.currentList(); l != nil && move(l) {
		events.UI.Cursor(l.ID, l.Cursor)
	}
}

func (m *Model) pageRows() int {
	return m.maxVisibleItems()
}

// filterKeys are the editing chords of the filter prompt. Printable runes
// are inserted by handleTextInput.
var filterKeys = map[string]func(*uistate.Query) bool{
	"backspace": (*uistate.Query).Backspace,
	"ctrl+h":    (*uistate.Query).Backspace,
	"ctrl+w":    (*uistate.Query).DeleteWord,
	"ctrl+u":    (*uistate.Query).Clear,
	"ctrl+a":    (*uistate.Query).Home,
	"ctrl+e":    (*uistate.Query).End,
	"left":      (*uistate.Query).Left,
	"right":     (*uistate.Query).Right,
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// handleTextInput routes a key to the filter. It reports false when the key
// did not change the filter so the list bindings get it.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	l := m.currentList()
	if l == nil {
		return false
	}
	if edit, ok := filterKeys[msg.String()]; ok {
		return m.editFilter(l, edit)
	}
	var text string
	switch msg.Type {
	case tea.KeySpace:
		text = " "
	case tea.KeyRunes:
		if msg.Alt {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		text = string(msg.Runes)
	default:
		return false
	}
	return m.editFilter(l, func(q *uistate.Query) bool { return q.Insert(text) })
}

// editFilter applies edit to l's query and traces what changed.
func (m *Model) editFilter(l *list, edit func(*uistate.Query) bool) bool {
	before := l.Query()
	text, pos := before.String(), before.Pos()
	if !l.Edit(edit) {
		return false
	}
	after := l.Query()
	if after.Pos() != pos {
		m.filterCursorDirty = true
	}
	if after.String() == text {
		events.Filter.Cursor(l.ID, after.Pos())
		return true
	}
	m.forceClearInfo()
	events.Filter.Changed(l.ID, after.String())
	return true
}

func (m *Model) filterPrompt() string {
	current := m.currentList()
	if current == nil {
		return ">"
	}
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	q := current.Query()
	if q.Empty() {
		runes := []rune("(type to filter scripts)")
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(string(runes[0]))
		return prompt + caret + render(styles.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(q.String())
	pos := q.Pos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		return base.Inherit(cursorStyle).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
