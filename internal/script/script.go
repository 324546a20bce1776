// Package script holds the value types shared by the watcher, runner and UI:
// script descriptors, the python/native mode, input arity and interpreter
// resolution.
package script

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Kind says how a script is launched.
type Kind int

const (
	// KindInterpreted scripts run as `<interpreter> <script> ...`.
	KindInterpreted Kind = iota
	// KindNative scripts are executed directly.
	KindNative
)

func (k Kind) String() string {
	switch k {
	case KindInterpreted:
		return "python"
	case KindNative:
		return "native"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Toggle returns the other kind.
func (k Kind) Toggle() Kind {
	if k == KindNative {
		return KindInterpreted
	}
	return KindNative
}

// ParseKind accepts "python"/"interpreted" and "native"/"direct".
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "python", "py", "interpreted":
		return KindInterpreted, nil
	case "native", "direct", "exe":
		return KindNative, nil
	default:
		return KindInterpreted, fmt.Errorf("unknown script mode %q", value)
	}
}

// Descriptor identifies one runnable script.
type Descriptor struct {
	Path string
	Kind Kind
}

// Name is the file name shown in lists.
func (d Descriptor) Name() string {
	return filepath.Base(d.Path)
}

// IsZero reports whether no script is set.
func (d Descriptor) IsZero() bool {
	return d.Path == ""
}

// Descriptors wraps a directory listing.
func Descriptors(paths []string, kind Kind) []Descriptor {
	return lo.Map(paths, func(path string, _ int) Descriptor {
		return Descriptor{Path: path, Kind: kind}
	})
}
