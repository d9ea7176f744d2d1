// Package display adapts rendered frames to output devices. The
// hardware target is a chain of MAX7219-driven 8x8 LED modules; a
// terminal backend and an in-memory backend cover development and
// tests.
package display

import (
	"sync"

	"github.com/dleon/timemachine/internal/render/compose"
)

// Driver is the output device abstraction. Implementations are not
// required to be safe for concurrent use; the Adapter serializes
// access.
type Driver interface {
	// Init prepares the device for rendering.
	Init() error

	// Render transmits one full frame.
	Render(f compose.Frame) error

	// SetBrightness sets the device intensity, 0 (dim) to 15 (full).
	SetBrightness(level int) error

	// Clear blanks the device.
	Clear() error

	// Close releases device resources. The device is left blanked.
	Close() error

	// Name returns the driver name for logs and the -driver flag.
	Name() string
}

// MaxBrightness is the highest intensity level a driver accepts.
const MaxBrightness = 15

// clampBrightness keeps levels within the device range.
func clampBrightness(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxBrightness {
		return MaxBrightness
	}
	return level
}

// NullDriver is an in-memory driver that records what it is told to
// do. Tests assert on its state; it also serves as a sink when the
// appliance runs headless.
type NullDriver struct {
	mu sync.Mutex

	initialized bool
	closed      bool
	frames      []compose.Frame
	brightness  int
	clears      int
}

// NewNullDriver creates a NullDriver.
func NewNullDriver() *NullDriver {
	return &NullDriver{}
}

func (d *NullDriver) Name() string { return "null" }

func (d *NullDriver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialized = true
	return nil
}

func (d *NullDriver) Render(f compose.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, f)
	return nil
}

func (d *NullDriver) SetBrightness(level int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brightness = clampBrightness(level)
	return nil
}

func (d *NullDriver) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clears++
	return nil
}

func (d *NullDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Frames returns a copy of every frame rendered so far.
func (d *NullDriver) Frames() []compose.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]compose.Frame, len(d.frames))
	copy(out, d.frames)
	return out
}

// LastFrame returns the most recent frame and whether one exists.
func (d *NullDriver) LastFrame() (compose.Frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return compose.Frame{}, false
	}
	return d.frames[len(d.frames)-1], true
}

// Brightness returns the last level set.
func (d *NullDriver) Brightness() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brightness
}

// Clears returns how many times the display was blanked.
func (d *NullDriver) Clears() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clears
}
