package ui

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/image-transfer/internal/codec"
	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/slot"
)

const waitTimeout = 5 * time.Second

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeSource hands out listings set by the test.
type fakeSource struct {
	mu      sync.Mutex
	dir     string
	next    []string
	ready   bool
	flushes int
}

func newFakeSource(dir string) *fakeSource {
	return &fakeSource{dir: dir}
}

func (f *fakeSource) Publish(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = append([]string(nil), paths...)
	f.ready = true
}

func (f *fakeSource) Dir() string {
	return f.dir
}

func (f *fakeSource) TryNext() ([]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ready {
		return nil, false
	}
	f.ready = false
	return f.next, true
}

func (f *fakeSource) Flush() {
	f.mu.Lock()
	f.flushes++
	f.mu.Unlock()
}

func (f *fakeSource) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

func testImage(w, h int) *codec.Image {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i] = byte(i)
		pix[i+1] = 0x80
		pix[i+2] = 0x40
		pix[i+3] = 0xff
	}
	return &codec.Image{Pix: pix, Width: w, Height: h}
}

// writePNG encodes a w x h image into dir and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := codec.Default.Encode(path, testImage(w, h)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func slotState(name string, want slot.State) func(*Model) bool {
	return func(m *Model) bool {
		s, ok := m.Slot(name)
		return ok && s.State == want
	}
}

func noPending(m *Model) bool {
	return m.Pending() == 0
}
