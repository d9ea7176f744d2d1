package touch

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Line is the raw contact signal. Level is the normalized state (true
// = touched), independent of the pad's electrical polarity.
type Line interface {
	// Level samples the current signal state.
	Level() bool

	// WaitForEdge blocks until the signal changes or the timeout
	// elapses. It returns true for an edge, false for a timeout.
	WaitForEdge(timeout time.Duration) bool

	// Halt unblocks any pending WaitForEdge and releases the line.
	Halt() error
}

// GPIOLine reads a touch pad on a GPIO pin via periph.io.
type GPIOLine struct {
	pin        gpio.PinIO
	activeHigh bool
}

// OpenGPIOLine opens the named pin (e.g. "GPIO4") configured for
// both-edge detection. activeHigh states whether a touch drives the
// pin high.
func OpenGPIOLine(name string, activeHigh bool) (*GPIOLine, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("touch: host init: %w", err)
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("touch: no such pin %q", name)
	}

	pull := gpio.PullDown
	if !activeHigh {
		pull = gpio.PullUp
	}
	if err := pin.In(pull, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("touch: configure pin %q: %w", name, err)
	}
	return &GPIOLine{pin: pin, activeHigh: activeHigh}, nil
}

func (l *GPIOLine) Level() bool {
	return (l.pin.Read() == gpio.High) == l.activeHigh
}

func (l *GPIOLine) WaitForEdge(timeout time.Duration) bool {
	return l.pin.WaitForEdge(timeout)
}

func (l *GPIOLine) Halt() error {
	return l.pin.Halt()
}

// SimLine is an in-process Line for the console driver and tests.
// Callers flip the level with Set; readers observe edges exactly as
// they would from hardware.
type SimLine struct {
	level  atomic.Bool
	edges  chan struct{}
	halted chan struct{}
	once   sync.Once
}

// NewSimLine creates a released SimLine.
func NewSimLine() *SimLine {
	return &SimLine{
		edges:  make(chan struct{}, 1),
		halted: make(chan struct{}),
	}
}

// Set flips the line level and signals an edge if it changed.
func (l *SimLine) Set(pressed bool) {
	if l.level.Swap(pressed) == pressed {
		return
	}
	select {
	case l.edges <- struct{}{}:
	default:
	}
}

func (l *SimLine) Level() bool {
	return l.level.Load()
}

func (l *SimLine) WaitForEdge(timeout time.Duration) bool {
	var timer <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case <-l.edges:
		return true
	case <-timer:
		return false
	case <-l.halted:
		return false
	}
}

func (l *SimLine) Halt() error {
	l.once.Do(func() { close(l.halted) })
	return nil
}
