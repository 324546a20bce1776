package ui

import (
	"strings"

	"github.com/atomicstack/image-transfer/internal/picker"
	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
)

const overlayMinHeight = 5

// pickerOverlay answers one picker.Bridge prompt with the in-terminal file
// picker.
type pickerOverlay struct {
	prompt *picker.Prompt
	fp     filepicker.Model
}

func newPickerOverlay(prompt *picker.Prompt, height int) *pickerOverlay {
	fp := filepicker.New()
	fp.CurrentDirectory = prompt.Request.Dir
	if strings.TrimSpace(fp.CurrentDirectory) == "" {
		fp.CurrentDirectory = "."
	}
	fp.AllowedTypes = allowedTypes(prompt.Request.Extensions)
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	if height < overlayMinHeight {
		height = overlayMinHeight
	}
	fp.Height = height
	if styles.SelectedItem != nil {
		fp.Styles.Selected = styles.SelectedItem.Copy()
	}
	if styles.SlotEmpty != nil {
		fp.Styles.DisabledFile = styles.SlotEmpty.Copy()
	}
	return &pickerOverlay{prompt: prompt, fp: fp}
}

// allowedTypes turns bare extensions into the suffixes filepicker matches,
// in both cases since the match is case-sensitive.
func allowedTypes(exts []string) []string {
	if len(exts) == 0 {
		exts = picker.DefaultImageExtensions
	}
	out := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		out = append(out, "."+strings.ToLower(ext), "."+strings.ToUpper(ext))
	}
	return lo.Uniq(out)
}

// pollBridge opens the overlay for the next queued prompt.
func (m *Model) pollBridge() tea.Cmd {
	if m.bridge == nil || m.mode != ModeBrowse || m.overlay != nil {
		return nil
	}
	prompt, ok := m.bridge.TryRequest()
	if !ok {
		return nil
	}
	m.overlay = newPickerOverlay(prompt, m.overlayHeight())
	m.mode = ModePicker
	return m.overlay.fp.Init()
}

func (m *Model) overlayHeight() int {
	if m.height <= 0 {
		return 10
	}
	// header, title, directory, two blanks, help
	return m.height - 6
}

func (m *Model) handlePickerOverlay(msg tea.Msg) (bool, tea.Cmd) {
	if m.overlay == nil {
		m.mode = ModeBrowse
		return false, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c", "q":
			m.overlay.prompt.Cancel()
			m.closeOverlay()
			return true, nil
		}
	}
	var cmd tea.Cmd
	m.overlay.fp, cmd = m.overlay.fp.Update(msg)
	if selected, path := m.overlay.fp.DidSelectFile(msg); selected {
		m.overlay.prompt.Resolve(path)
		m.closeOverlay()
		return true, nil
	}
	return true, cmd
}

func (m *Model) closeOverlay() {
	m.overlay = nil
	m.mode = ModeBrowse
}

func (m *Model) viewPickerOverlay(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	title := m.overlay.prompt.Request.Title
	if title == "" {
		title = "Select an image"
	}
	if styles.FormTitle != nil {
		title = styles.FormTitle.Render(title)
	}
	help := "enter select  h/← up a directory  esc cancel"
	if styles.Footer != nil {
		help = styles.Footer.Render(help)
	}
	lines = append(lines, title, m.overlay.fp.CurrentDirectory, "", m.overlay.fp.View(), "", help)
	return strings.Join(lines, "\n")
}
