package ui

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/image-transfer/internal/codec"
	"github.com/atomicstack/image-transfer/internal/picker"
	"github.com/atomicstack/image-transfer/internal/runner"
	"github.com/atomicstack/image-transfer/internal/script"
	"github.com/atomicstack/image-transfer/internal/slot"
	"github.com/atomicstack/image-transfer/internal/theme"
	"github.com/atomicstack/image-transfer/internal/thumb"
	"github.com/atomicstack/image-transfer/internal/ui/command"
	uistate "github.com/atomicstack/image-transfer/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type list = uistate.List

type Mode int

const (
	ModeBrowse Mode = iota
	ModeForm
	ModePicker
)

const (
	// DefaultFrameInterval is the render loop tick.
	DefaultFrameInterval = 50 * time.Millisecond
	defaultThumbCols     = 24
	defaultThumbRows     = 10
	headerSeparator      = " · "
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// ScriptSource publishes script listings for one directory. TryNext and
// Flush never block.
type ScriptSource interface {
	Dir() string
	TryNext() ([]string, bool)
	Flush()
}

// Config holds the user-facing settings of the model.
type Config struct {
	Kind        script.Kind
	Arity       script.Arity
	Movable     bool
	Interpreter script.Interpreter
	Output      string
	ExtraArgs   string
	// ImageDir is where the picker starts.
	ImageDir string
	// FrameInterval <= 0 stops the tick from rescheduling itself; tests send
	// frames explicitly.
	FrameInterval time.Duration
	ThumbCols     int
	ThumbRows     int
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
}

// Deps are the collaborators the model drives. Nil sources show empty lists.
type Deps struct {
	Context context.Context
	Python  ScriptSource
	Native  ScriptSource
	Picker  picker.Picker
	// Bridge, when set, is polled every frame and answered by the
	// in-terminal picker overlay.
	Bridge    *picker.Bridge
	Runner    *runner.Runner
	Codec     codec.Codec
	Clipboard func(string) error
}

// Model implements the Bubble Tea model: one script list per kind, the image
// slots, and the frame tick that reconciles background work with them.
type Model struct {
	lists   map[script.Kind]*list
	sources map[script.Kind]ScriptSource
	kind    script.Kind
	arity   script.Arity
	slots   *slot.Correlator

	ctx         context.Context
	picker      picker.Picker
	bridge      *picker.Bridge
	runner      *runner.Runner
	codec       codec.Codec
	clipboard   func(string) error
	interpreter script.Interpreter
	output      string
	extraArgs   string
	imageDir    string

	mode    Mode
	form    *settingForm
	overlay *pickerOverlay

	frameInterval time.Duration
	errMsg        string
	infoMsg       string
	infoExpire    time.Time
	width         int
	height        int
	fixedWidth    bool
	fixedHeight   bool
	showFooter    bool
	verbose       bool
	thumbCols     int
	thumbRows     int

	filterCursor      cursor.Model
	filterCursorDirty bool
	// spin animates busy slots; it only ticks when the model is animated.
	spin spinner.Model

	handlers map[reflect.Type]msgHandler
	bus      *command.Bus
}

// NewModel initialises the UI state from cfg and deps.
func NewModel(cfg Config, deps Deps) *Model {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.ThumbCols <= 0 {
		cfg.ThumbCols = defaultThumbCols
	}
	if cfg.ThumbRows <= 0 {
		cfg.ThumbRows = defaultThumbRows
	}
	if strings.TrimSpace(cfg.Output) == "" {
		cfg.Output = runner.DefaultOutput
	}
	c := deps.Codec
	if c == nil {
		c = codec.Default
	}
	r := deps.Runner
	if r == nil {
		r = runner.New(cfg.Interpreter, c)
	}
	m := &Model{
		lists: map[script.Kind]*list{
			script.KindInterpreted: uistate.NewList(script.KindInterpreted.String(), "Python scripts"),
			script.KindNative:      uistate.NewList(script.KindNative.String(), "Native scripts"),
		},
		sources: map[script.Kind]ScriptSource{
			script.KindInterpreted: deps.Python,
			script.KindNative:      deps.Native,
		},
		kind:          cfg.Kind,
		arity:         cfg.Arity,
		ctx:           ctx,
		picker:        deps.Picker,
		bridge:        deps.Bridge,
		runner:        r,
		codec:         c,
		clipboard:     deps.Clipboard,
		interpreter:   cfg.Interpreter,
		output:        cfg.Output,
		extraArgs:     cfg.ExtraArgs,
		imageDir:      cfg.ImageDir,
		mode:          ModeBrowse,
		frameInterval: cfg.FrameInterval,
		showFooter:    cfg.ShowFooter,
		verbose:       cfg.Verbose,
		thumbCols:     cfg.ThumbCols,
		thumbRows:     cfg.ThumbRows,
		bus:           command.New(),
	}
	m.slots = slot.New(script.SlotNames, func(img *codec.Image) thumb.Texture {
		return thumb.Render(img, m.thumbCols, m.thumbRows)
	})
	m.slots.SetMovable(cfg.Movable)
	if m.picker == nil && m.bridge != nil {
		m.picker = m.bridge
	}
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	fc := cursor.New()
	if styles.Cursor != nil {
		fc.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		fc.TextStyle = styles.Filter.Copy()
	}
	fc.SetChar(" ")
	if !m.animated() {
		_ = fc.SetMode(cursor.CursorStatic)
		fc.Blink = false
	}
	m.filterCursor = fc
	// Unstyled; the slot title style wraps the frame.
	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.frameCmd()}
	if m.animated() {
		cmds = append(cmds, m.spin.Tick)
		if cmd := m.filterCursor.Focus(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if m.animated() {
		if cmd := m.updateFilterCursorModel(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if !m.alwaysRouted(msg) {
		if handled, cmd := m.handleActiveForm(msg); handled {
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, m.finishUpdate(cmds)
		}
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

// alwaysRouted reports messages that bypass an open form or overlay so the
// frame tick keeps polling while the user types.
func (m *Model) alwaysRouted(msg tea.Msg) bool {
	switch msg.(type) {
	case frameMsg, spinner.TickMsg, tea.WindowSizeMsg, clipboardMsg:
		return true
	}
	return false
}

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	switch m.mode {
	case ModeForm:
		return m.handleSettingForm(msg)
	case ModePicker:
		return m.handlePickerOverlay(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(frameMsg{}):          m.handleFrameMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTick,
		reflect.TypeOf(clipboardMsg{}):      m.handleClipboardMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		if m.animated() {
			m.filterCursor.Blink = false
			if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) animated() bool {
	return m.frameInterval > 0
}

func (m *Model) currentList() *list {
	return m.lists[m.kind]
}

// Kind returns the script list currently shown.
func (m *Model) Kind() script.Kind {
	return m.kind
}

// Arity returns the active input arity mode.
func (m *Model) Arity() script.Arity {
	return m.arity
}

// Mode returns the interaction mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Slot returns a snapshot of the named slot.
func (m *Model) Slot(name string) (slot.Slot, bool) {
	return m.slots.Get(name)
}

// Scripts returns the visible entries of the list for kind.
func (m *Model) Scripts(kind script.Kind) []uistate.Item {
	l := m.lists[kind]
	if l == nil {
		return nil
	}
	return l.Visible()
}

// SelectedScript returns the script chosen in the current list.
func (m *Model) SelectedScript() (script.Descriptor, bool) {
	item, ok := m.currentList().Chosen()
	if !ok {
		return script.Descriptor{}, false
	}
	return script.Descriptor{Path: item.ID, Kind: m.kind}, true
}

// Pending returns how many slots are waiting on background work.
func (m *Model) Pending() int {
	return m.slots.Pending()
}

// Err returns the status-line error, if any.
func (m *Model) Err() string {
	return m.errMsg
}

func scriptItems(descs []script.Descriptor) []uistate.Item {
	items := make([]uistate.Item, len(descs))
	for i, d := range descs {
		items[i] = uistate.Item{ID: d.Path, Label: d.Name()}
	}
	return items
}
