// Package codec converts between image files and flat RGBA buffers.
package codec

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a decoded picture as non-premultiplied RGBA, four bytes per pixel,
// rows top to bottom.
type Image struct {
	Pix    []byte
	Width  int
	Height int
}

// Validate checks that Pix matches the dimensions.
func (i *Image) Validate() error {
	if i == nil {
		return errors.New("nil image")
	}
	if i.Width <= 0 || i.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", i.Width, i.Height)
	}
	if want := i.Width * i.Height * 4; len(i.Pix) != want {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(i.Pix), want)
	}
	return nil
}

// NRGBA wraps the buffer without copying.
func (i *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    i.Pix,
		Stride: i.Width * 4,
		Rect:   image.Rect(0, 0, i.Width, i.Height),
	}
}

// FromImage copies any image into an Image.
func FromImage(img image.Image) *Image {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Image{Pix: nrgba.Pix, Width: b.Dx(), Height: b.Dy()}
}

// Codec reads and writes image files.
type Codec interface {
	Decode(path string) (*Image, error)
	Encode(path string, img *Image) error
}

// DecodeError reports a file that could not be read as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Imaging is the file codec. The format is picked from the file contents on
// decode and from the extension on encode.
type Imaging struct {
	// AutoOrientation applies EXIF orientation on decode.
	AutoOrientation bool
}

// Default is the codec used by the application.
var Default Codec = Imaging{AutoOrientation: true}

func (c Imaging) Decode(path string) (*Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(c.AutoOrientation))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return FromImage(img), nil
}

func (c Imaging) Encode(path string, img *Image) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	}
	if err := imaging.Save(img.NRGBA(), path); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// Memory is an in-process codec keyed by path. Decode of an unknown path
// fails with a *DecodeError wrapping os.ErrNotExist.
type Memory struct {
	mu    sync.Mutex
	files map[string]*Image
}

// NewMemory returns an empty Memory codec.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]*Image)}
}

func (m *Memory) Decode(path string) (*Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.files[path]
	if !ok {
		return nil, &DecodeError{Path: path, Err: os.ErrNotExist}
	}
	return clone(img), nil
}

func (m *Memory) Encode(path string, img *Image) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = clone(img)
	return nil
}

func clone(img *Image) *Image {
	return &Image{Pix: append([]byte(nil), img.Pix...), Width: img.Width, Height: img.Height}
}
