package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/image-transfer/internal/app"
	"github.com/atomicstack/image-transfer/internal/config"
	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/atomicstack/image-transfer/internal/script"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	report := newStartupReport(runtimeCfg, os.Stdin.Fd(), os.Stdout.Fd())
	if !report.Terminal.Interactive {
		logging.Info("not attached to a terminal", map[string]interface{}{"picker": runtimeCfg.App.Picker})
	}
	events.App.Start(report.payload())

	err := app.Run(runtimeCfg.App)
	if err != nil {
		logging.Error(err)
	}
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupReport records where scripts come from and what the UI will draw on.
type startupReport struct {
	Argv        []string          `json:"argv"`
	Flags       map[string]string `json:"flags"`
	ConfigFile  string            `json:"config_file,omitempty"`
	LogFile     string            `json:"log_file,omitempty"`
	Scripts     []scriptDirState  `json:"scripts"`
	Interpreter string            `json:"interpreter"`
	Output      string            `json:"output"`
	Picker      string            `json:"picker"`
	Terminal    terminalState     `json:"terminal"`
}

type scriptDirState struct {
	Kind       string   `json:"kind"`
	Dir        string   `json:"dir"`
	Extensions []string `json:"extensions"`
	Missing    bool     `json:"missing,omitempty"`
}

// terminalState describes the descriptors Bubble Tea reads keys from and
// renders to. Both must be terminals for the UI to be usable.
type terminalState struct {
	Interactive bool   `json:"interactive"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newStartupReport(cfg config.Config, in, out uintptr) startupReport {
	a := cfg.App
	return startupReport{
		Argv:       cfg.Args,
		Flags:      cfg.Flags,
		ConfigFile: cfg.File,
		LogFile:    cfg.Logging.FilePath,
		Scripts: []scriptDirState{
			scriptDir(script.KindInterpreted, a.PythonDir, a.PythonExts),
			scriptDir(script.KindNative, a.NativeDir, a.NativeExts),
		},
		Interpreter: script.Interpreter{Path: a.Interpreter}.Resolve(),
		Output:      a.Output,
		Picker:      a.Picker,
		Terminal:    inspectTerminal(int(in), int(out)),
	}
}

func scriptDir(kind script.Kind, dir string, exts []string) scriptDirState {
	st := scriptDirState{Kind: kind.String(), Dir: dir, Extensions: exts}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		st.Missing = true
	}
	return st
}

// inspectTerminal reports whether in and out are terminals and, when they
// are, the size of out.
func inspectTerminal(in, out int) terminalState {
	if !term.IsTerminal(in) || !term.IsTerminal(out) {
		return terminalState{}
	}
	st := terminalState{Interactive: true}
	width, height, err := term.GetSize(out)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Width, st.Height = width, height
	return st
}

func (r startupReport) payload() map[string]interface{} {
	return map[string]interface{}{"report": r}
}
