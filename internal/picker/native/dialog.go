// Package native opens the operating system file dialog.
package native

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/image-transfer/internal/picker"
	"github.com/samber/lo"
	"github.com/sqweek/dialog"
)

// Dialog is a picker.Picker backed by the platform's open-file dialog. The
// dialog is modal and cannot be interrupted, so ctx is only checked before it
// opens.
type Dialog struct {
	Title string
}

func (d Dialog) Pick(ctx context.Context, req picker.Request) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	title := req.Title
	if title == "" {
		title = d.Title
	}
	if title == "" {
		title = "Open image"
	}
	builder := dialog.File().Title(title)
	if req.Dir != "" {
		builder = builder.SetStartDir(req.Dir)
	}
	exts := lo.Map(req.Extensions, func(ext string, _ int) string {
		return strings.TrimPrefix(strings.TrimSpace(ext), ".")
	})
	if len(exts) > 0 {
		builder = builder.Filter("Images", exts...)
	}
	path, err := builder.Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return nil, picker.ErrCancelled
		}
		return nil, fmt.Errorf("file dialog: %w", err)
	}
	return []string{path}, nil
}
