// Package picker defines the file-picker boundary used to fill input slots.
package picker

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the user dismisses the picker.
	ErrCancelled = errors.New("picker: cancelled")
	// ErrMultiSelect is returned when more than one file came back.
	ErrMultiSelect = errors.New("picker: more than one file selected")
)

// DefaultImageExtensions are offered when a request names none.
var DefaultImageExtensions = []string{"jpg", "jpeg", "png", "bmp", "gif", "tiff", "webp"}

// Request describes one picker invocation.
type Request struct {
	Title      string
	Dir        string
	Extensions []string
}

// Picker shows a file picker and blocks until it is answered. It is only ever
// called from a background task.
type Picker interface {
	Pick(ctx context.Context, req Request) ([]string, error)
}

// Func adapts a function to Picker.
type Func func(ctx context.Context, req Request) ([]string, error)

func (f Func) Pick(ctx context.Context, req Request) ([]string, error) {
	return f(ctx, req)
}

// Single runs p and insists on exactly one path. Zero paths and context
// cancellation count as ErrCancelled.
func Single(ctx context.Context, p Picker, req Request) (string, error) {
	if p == nil {
		return "", errors.New("picker: not configured")
	}
	if len(req.Extensions) == 0 {
		req.Extensions = DefaultImageExtensions
	}
	paths, err := p.Pick(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		return "", err
	}
	switch len(paths) {
	case 0:
		return "", ErrCancelled
	case 1:
		return paths[0], nil
	default:
		return "", fmt.Errorf("%w (%d files)", ErrMultiSelect, len(paths))
	}
}
