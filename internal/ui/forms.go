package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/atomicstack/image-transfer/internal/script"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type setting int

const (
	settingExtraArgs setting = iota
	settingInterpreter
	settingOutput
)

func (s setting) String() string {
	switch s {
	case settingExtraArgs:
		return "extra-args"
	case settingInterpreter:
		return "interpreter"
	case settingOutput:
		return "output"
	default:
		return fmt.Sprintf("setting(%d)", int(s))
	}
}

// settingForm edits one string option in place.
type settingForm struct {
	input   textinput.Model
	setting setting
	title   string
	help    string
	// allowEmpty lets an empty submission clear the option.
	allowEmpty bool
}

func newSettingForm(s setting, initial string) *settingForm {
	ti := textinput.New()
	ti.CharLimit = 512
	f := &settingForm{input: ti, setting: s}
	switch s {
	case settingExtraArgs:
		ti.Placeholder = "strength=0.5"
		f.title = "Extra argument passed after the images (one entry)"
		f.help = "Enter to save, empty clears. Esc to cancel."
		f.allowEmpty = true
	case settingInterpreter:
		ti.Placeholder = "auto (python3)"
		f.title = "Python interpreter"
		f.help = "Enter to save, empty restores auto. Esc to cancel."
		f.allowEmpty = true
	case settingOutput:
		ti.Placeholder = "outcome/result.jpg"
		f.title = "Output image path"
		f.help = "Press Enter to save. Esc to cancel."
	}
	if initial != "" {
		ti.SetValue(initial)
		ti.CursorEnd()
	}
	ti.Focus()
	f.input = ti
	return f
}

func (f *settingForm) Title() string     { return f.title }
func (f *settingForm) Help() string      { return f.help }
func (f *settingForm) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *settingForm) InputView() string { return f.input.View() }

// Update returns the input's command and whether the form was submitted or
// cancelled.
func (f *settingForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+u":
			if f.input.Value() != "" {
				f.input.SetValue("")
				f.input.CursorStart()
			}
			return nil, false, false
		}
		switch key.Type {
		case tea.KeyEsc:
			return nil, false, true
		case tea.KeyEnter:
			if f.Value() == "" && !f.allowEmpty {
				return nil, false, true
			}
			return nil, true, false
		}
	}
	updated, cmd := f.input.Update(msg)
	f.input = updated
	return cmd, false, false
}

func (m *Model) startSettingForm(s setting) tea.Cmd {
	var initial string
	switch s {
	case settingExtraArgs:
		initial = m.extraArgs
	case settingInterpreter:
		initial = m.interpreter.Path
	case settingOutput:
		initial = m.output
	}
	m.form = newSettingForm(s, initial)
	m.mode = ModeForm
	if !m.animated() {
		return nil
	}
	return textinput.Blink
}

func (m *Model) handleSettingForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeBrowse
		return false, nil
	}
	cmd, done, cancel := m.form.Update(msg)
	if cancel {
		m.form = nil
		m.mode = ModeBrowse
		return true, nil
	}
	if done {
		m.applySetting(m.form.setting, m.form.Value())
		m.form = nil
		m.mode = ModeBrowse
		return true, nil
	}
	if !m.animated() {
		cmd = nil
	}
	return true, cmd
}

func (m *Model) applySetting(s setting, value string) {
	switch s {
	case settingExtraArgs:
		m.extraArgs = value
	case settingInterpreter:
		m.interpreter = script.Interpreter{Path: value}
		value = m.interpreter.String()
	case settingOutput:
		m.output = value
	}
	events.UI.Setting(s.String(), value)
	m.setInfo(fmt.Sprintf("%s set to %q", s, value))
}

func (m *Model) viewSettingForm(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	title := m.form.Title()
	if styles.FormTitle != nil {
		title = styles.FormTitle.Render(title)
	}
	lines = append(lines, title, "", m.form.InputView(), "", m.form.Help())
	return strings.Join(lines, "\n")
}
