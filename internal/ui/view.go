package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/image-transfer/internal/format/table"
	"github.com/atomicstack/image-transfer/internal/script"
	"github.com/atomicstack/image-transfer/internal/slot"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

const footerText = "enter select  ^o/^p load A/B  ^x run  ^n arity  ^t python/native  ^f rescan  ^l unload lock  alt+1/2/3 unload  ^y copy  alt+a/i/o edit  esc quit"

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.header()
	switch m.mode {
	case ModeForm:
		if m.form != nil {
			return m.viewSettingForm(header)
		}
	case ModePicker:
		if m.overlay != nil {
			return m.viewPickerOverlay(header)
		}
	}
	return m.viewBrowse(header)
}

func (m *Model) viewBrowse(header string) string {
	lines := make([]styledLine, 0, 32)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	if current := m.currentList(); current != nil {
		start, end := current.Window(m.maxVisibleItems())
		displayItems := current.Items[start:end]
		if len(current.Items) == 0 {
			msg := m.emptyListText()
			if q := current.Query(); !q.Empty() {
				msg = fmt.Sprintf("No matches for %q", q.String())
			}
			lines = append(lines, styledLine{text: msg, style: styles.Info})
		} else {
			for i, item := range displayItems {
				lines = append(lines, m.buildItemLine(item.ID, item.Label, start+i, m.width))
			}
		}
	}
	lines = append(lines, styledLine{})
	for _, row := range strings.Split(m.renderSlots(), "\n") {
		lines = append(lines, styledLine{text: row, raw: true})
	}
	for _, row := range m.optionLines() {
		lines = append(lines, styledLine{text: row, raw: true})
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: footerText, style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	bottomLines := applyWidth([]styledLine{statusLine, {text: m.filterPrompt(), raw: true}}, m.width)
	lines = append(lines, bottomLines...)
	return renderLines(lines)
}

func (m *Model) emptyListText() string {
	src := m.sources[m.kind]
	if src == nil {
		return "(no scripts)"
	}
	return fmt.Sprintf("(no scripts in %s)", src.Dir())
}

func (m *Model) header() string {
	segments := []string{
		"image-transfer",
		m.currentList().Title,
		fmt.Sprintf("%s input", m.arity),
	}
	if m.slots.Movable() {
		segments = append(segments, "unload allowed")
	}
	if n := m.slots.Pending(); n > 0 {
		segments = append(segments, fmt.Sprintf("%d busy", n))
	}
	return strings.Join(segments, headerSeparator)
}

// buildItemLine constructs a single styledLine for a script. The chosen
// script carries a mark; the cursor row is highlighted.
func (m *Model) buildItemLine(id, label string, idx int, width int) styledLine {
	current := m.currentList()
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	mark := "  "
	if current.IsChosen(id) {
		mark = "✓ "
	}
	if idx == current.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + mark + label
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

// visibleSlots returns the slots shown for the current arity, inputs first.
func (m *Model) visibleSlots() []string {
	return append(m.arity.InputSlots(), m.arity.OutputSlot())
}

func slotTitle(name string) string {
	switch name {
	case script.SlotInputSingle:
		return "Input"
	case script.SlotInput1:
		return "Input A"
	case script.SlotInput2:
		return "Input B"
	default:
		return "Output"
	}
}

func (m *Model) renderSlots() string {
	boxes := make([]string, 0, 3)
	for _, name := range m.visibleSlots() {
		s, _ := m.slots.Get(name)
		boxes = append(boxes, m.renderSlot(s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m *Model) spinnerFrame() string {
	return strings.TrimSpace(m.spin.View())
}

func (m *Model) renderSlot(s slot.Slot) string {
	w, h := m.thumbCols, m.thumbRows
	title := slotTitle(s.Name)
	switch s.State {
	case slot.StatePending:
		title += " " + m.spinnerFrame()
	case slot.StateFailed:
		title += " failed"
	}

	var body string
	switch {
	case s.Image != nil && !s.Image.Texture.IsZero():
		body = s.Image.Texture.String()
	case s.State == slot.StatePending:
		body = m.spinnerFrame() + " loading"
	case s.State == slot.StateFailed && s.Err != nil:
		msg := truncate.StringWithTail(firstLine(s.Err.Error()), uint(w*2), "…")
		body = styles.SlotFailed.Copy().Width(w).Align(lipgloss.Center).Render(msg)
	default:
		body = styles.SlotEmpty.Render("empty")
	}
	body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, body)

	caption := ""
	if s.Image != nil {
		caption = imageCaption(s.Image)
	}
	caption = truncate.StringWithTail(caption, uint(w), "…")
	if pad := w - lipgloss.Width(caption); pad > 0 {
		caption += strings.Repeat(" ", pad)
	}

	titleStyle := styles.SlotTitle
	if s.State == slot.StateFailed {
		titleStyle = styles.SlotFailed
	}
	box := styles.SlotBox
	if s.State == slot.StatePending {
		box = styles.SlotActiveBox
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(truncate.StringWithTail(title, uint(w), "…")),
		body,
		styles.SlotCaption.Render(caption),
	)
	return box.Render(content)
}

func imageCaption(img *slot.ImageHandle) string {
	parts := []string{img.Label, fmt.Sprintf("%dx%d", img.Width, img.Height)}
	if img.Bytes > 0 {
		parts = append(parts, humanize.Bytes(uint64(img.Bytes)))
	}
	return strings.Join(parts, " ")
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// slotPanelHeight is the rendered height of the slot row: border, title,
// thumbnail and caption.
func (m *Model) slotPanelHeight() int {
	return m.thumbRows + 4
}

func (m *Model) optionLines() []string {
	scriptName := "(none)"
	if desc, ok := m.SelectedScript(); ok {
		scriptName = desc.Name()
	}
	extra := m.extraArgs
	if extra == "" {
		extra = "(none)"
	}
	rows := [][]string{
		{"script", scriptName},
		{"interpreter", m.interpreter.String()},
		{"extra args", extra},
		{"output", m.output},
	}
	for _, row := range rows {
		row[0] = styles.OptionKey.Render(row[0])
		row[1] = styles.OptionValue.Render(row[1])
	}
	return table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft})
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if m.overlay != nil {
		m.overlay.fp.Height = m.overlayHeight()
	}
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 3 // header + bottom bar: error/status + filter prompt
	used += 1 + m.slotPanelHeight()
	used += 4 // options
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		if line.raw {
			if lipgloss.Width(line.text) > width {
				line.text = truncate.StringWithTail(line.text, uint(width-1), "…")
			}
		} else {
			line.text = truncateText(line.text, width)
		}
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
