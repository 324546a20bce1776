package app

import (
	"context"
	"errors"
	"time"

	"github.com/atomicstack/image-transfer/internal/codec"
	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/atomicstack/image-transfer/internal/picker"
	"github.com/atomicstack/image-transfer/internal/picker/native"
	"github.com/atomicstack/image-transfer/internal/runner"
	"github.com/atomicstack/image-transfer/internal/script"
	"github.com/atomicstack/image-transfer/internal/ui"
	"github.com/atomicstack/image-transfer/internal/watcher"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	PythonDir   string
	NativeDir   string
	PythonExts  []string
	NativeExts  []string
	ImageDir    string
	Interpreter string
	Output      string
	ExtraArgs   string

	FlushInterval time.Duration
	TimeSlice     time.Duration
	FrameInterval time.Duration

	Arity   script.Arity
	Kind    script.Kind
	Movable bool
	// Picker is "terminal" for the in-app file browser or "native" for the
	// platform dialog.
	Picker   string
	FSEvents bool

	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

const pickerNative = "native"

// services are the long-lived collaborators Run owns.
type services struct {
	python    *watcher.Watcher
	native    *watcher.Watcher
	notifiers []*watcher.Notifier
	deps      ui.Deps
}

func start(ctx context.Context, cfg Config) *services {
	s := &services{
		python: watcher.New(watcher.Options{
			Dir:           cfg.PythonDir,
			Extensions:    cfg.PythonExts,
			FlushInterval: cfg.FlushInterval,
			TimeSlice:     cfg.TimeSlice,
		}),
		native: watcher.New(watcher.Options{
			Dir:           cfg.NativeDir,
			Extensions:    cfg.NativeExts,
			FlushInterval: cfg.FlushInterval,
			TimeSlice:     cfg.TimeSlice,
		}),
	}
	if cfg.FSEvents {
		for _, w := range []*watcher.Watcher{s.python, s.native} {
			n, err := watcher.Notify(w.Dir(), watcher.DefaultDebounce, w)
			if err != nil {
				logging.Error(err)
				continue
			}
			s.notifiers = append(s.notifiers, n)
		}
	}

	s.deps = ui.Deps{
		Context:   ctx,
		Python:    s.python,
		Native:    s.native,
		Runner:    runner.New(script.Interpreter{Path: cfg.Interpreter}, codec.Default),
		Codec:     codec.Default,
		Clipboard: clipboard.WriteAll,
	}
	if cfg.Picker == pickerNative {
		s.deps.Picker = native.Dialog{}
	} else {
		s.deps.Bridge = picker.NewBridge()
	}
	return s
}

func (s *services) stop() {
	for _, n := range s.notifiers {
		if err := n.Close(); err != nil {
			logging.Error(err)
		}
	}
	s.python.Stop()
	s.native.Stop()
	s.python.Wait()
	s.native.Wait()
}

func uiConfig(cfg Config) ui.Config {
	return ui.Config{
		Kind:          cfg.Kind,
		Arity:         cfg.Arity,
		Movable:       cfg.Movable,
		Interpreter:   script.Interpreter{Path: cfg.Interpreter},
		Output:        cfg.Output,
		ExtraArgs:     cfg.ExtraArgs,
		ImageDir:      cfg.ImageDir,
		FrameInterval: cfg.FrameInterval,
		Width:         cfg.Width,
		Height:        cfg.Height,
		ShowFooter:    cfg.ShowFooter,
		Verbose:       cfg.Verbose,
	}
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := start(ctx, cfg)
	defer s.stop()

	model := ui.NewModel(uiConfig(cfg), s.deps)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	cancel()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop("error")
		return err
	}
	events.App.Stop("quit")
	logging.Info("exit", map[string]interface{}{"pending": model.Pending()})
	return nil
}
