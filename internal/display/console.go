package display

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dleon/timemachine/internal/render/compose"
)

// Console renders the matrix in a terminal for development without
// hardware. Each pixel is drawn two cells wide to keep the aspect
// ratio close to the physical modules. Brightness maps to the color of
// lit pixels.
type Console struct {
	mu         sync.Mutex
	screen     tcell.Screen
	keys       chan rune
	quit       chan struct{}
	wg         sync.WaitGroup
	brightness int
	last       compose.Frame
	hasFrame   bool
}

// NewConsole creates a console driver on a new tcell screen.
func NewConsole() (*Console, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("display: create screen: %w", err)
	}
	return NewConsoleWithScreen(screen), nil
}

// NewConsoleWithScreen creates a console driver on the given screen.
// Tests pass a tcell simulation screen.
func NewConsoleWithScreen(screen tcell.Screen) *Console {
	return &Console{
		screen:     screen,
		keys:       make(chan rune, 8),
		brightness: 8,
	}
}

func (c *Console) Name() string { return "console" }

// Keys delivers rune keypresses from the terminal. The application
// maps them to simulated touch pulses. Ctrl+C and Escape are delivered
// as rune 0.
func (c *Console) Keys() <-chan rune {
	return c.keys
}

func (c *Console) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.screen.Init(); err != nil {
		return fmt.Errorf("display: init screen: %w", err)
	}
	c.screen.HideCursor()
	c.quit = make(chan struct{})

	c.wg.Add(1)
	go c.eventLoop()
	return nil
}

func (c *Console) eventLoop() {
	defer c.wg.Done()
	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			var r rune
			switch {
			case ev.Key() == tcell.KeyRune:
				r = ev.Rune()
			case ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape:
				r = 0
			default:
				continue
			}
			select {
			case c.keys <- r:
			default:
			}
		case *tcell.EventResize:
			c.mu.Lock()
			c.screen.Sync()
			c.redrawLocked()
			c.mu.Unlock()
		}
		select {
		case <-c.quit:
			return
		default:
		}
	}
}

func (c *Console) Render(f compose.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = f
	c.hasFrame = true
	c.redrawLocked()
	return nil
}

func (c *Console) redrawLocked() {
	c.screen.Clear()

	lit := tcell.StyleDefault.Foreground(litColor(c.brightness))
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for y := 0; y < compose.FrameHeight; y++ {
		for x := 0; x < compose.FrameWidth; x++ {
			r, style := '.', dim
			if c.hasFrame && c.last.Pixel(x, y) {
				r, style = '█', lit
			}
			// Two cells per pixel, offset by one row for the legend.
			c.screen.SetContent(x*2, y+1, r, nil, style)
			c.screen.SetContent(x*2+1, y+1, r, nil, style)
		}
	}

	legend := fmt.Sprintf("timemachine  brightness=%d  [t]ap [h]old [q]uit", c.brightness)
	for i, r := range legend {
		c.screen.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	c.screen.Show()
}

// litColor grades the 0-15 intensity range into terminal colors.
func litColor(level int) tcell.Color {
	switch {
	case level <= 3:
		return tcell.ColorDarkRed
	case level <= 7:
		return tcell.ColorRed
	case level <= 11:
		return tcell.ColorOrange
	default:
		return tcell.ColorYellow
	}
}

func (c *Console) SetBrightness(level int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brightness = clampBrightness(level)
	c.redrawLocked()
	return nil
}

func (c *Console) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = compose.Frame{}
	c.hasFrame = false
	c.redrawLocked()
	return nil
}

func (c *Console) Close() error {
	c.mu.Lock()
	if c.quit != nil {
		close(c.quit)
		c.quit = nil
	}
	c.screen.Fini()
	c.mu.Unlock()

	// Fini unblocks PollEvent; wait for the loop to exit.
	c.wg.Wait()
	return nil
}
