package script

import (
	"os/exec"
	"runtime"
	"strings"
)

var lookPath = exec.LookPath

// Interpreter is the configured executable for interpreted scripts. An empty
// Path selects the platform default.
type Interpreter struct {
	Path string
}

// Resolve returns the executable to launch. An explicit path is returned as
// configured; otherwise the first platform default found on PATH is used. If
// nothing resolves the first candidate name is returned so the spawn itself
// reports the failure.
func (i Interpreter) Resolve() string {
	if path := strings.TrimSpace(i.Path); path != "" {
		return path
	}
	candidates := defaultInterpreters(runtime.GOOS)
	for _, name := range candidates {
		if resolved, err := lookPath(name); err == nil {
			return resolved
		}
	}
	return candidates[0]
}

func (i Interpreter) String() string {
	if strings.TrimSpace(i.Path) == "" {
		return "auto"
	}
	return i.Path
}

func defaultInterpreters(goos string) []string {
	if goos == "windows" {
		return []string{"python.exe", "python3.exe"}
	}
	return []string{"python3", "python"}
}

// DefaultNativeExtensions returns the extensions listed in native mode.
func DefaultNativeExtensions() []string {
	return nativeExtensions(runtime.GOOS)
}

func nativeExtensions(goos string) []string {
	if goos == "windows" {
		return []string{".exe", ".bat", ".cmd"}
	}
	return []string{".sh"}
}

// DefaultPythonExtensions returns the extensions listed in python mode.
func DefaultPythonExtensions() []string {
	return []string{".py"}
}
