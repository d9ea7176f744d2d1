package display

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dleon/timemachine/internal/render/compose"
)

func newSimConsole(t *testing.T) (*Console, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	c := NewConsoleWithScreen(screen)
	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, screen
}

func TestConsole_RenderDrawsPixels(t *testing.T) {
	c, screen := newSimConsole(t)

	var f compose.Frame
	f.SetColumn(0, 0x01) // top-left pixel

	if err := c.Render(f); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	// Pixel (0,0) is drawn at cells (0,1) and (1,1); the legend
	// occupies row 0.
	cells, w, _ := screen.GetContents()
	if w < 2 {
		t.Fatalf("screen width %d too small", w)
	}
	if got := cells[1*w].Runes[0]; got != '█' {
		t.Errorf("cell (0,1) = %q, want lit block", got)
	}
	if got := cells[1*w+2].Runes[0]; got != '.' {
		t.Errorf("cell (2,1) = %q, want unlit dot", got)
	}
}

func TestConsole_KeyEvents(t *testing.T) {
	c, screen := newSimConsole(t)

	screen.InjectKey(tcell.KeyRune, 't', tcell.ModNone)

	select {
	case r := <-c.Keys():
		if r != 't' {
			t.Errorf("key = %q, want 't'", r)
		}
	case <-time.After(time.Second):
		t.Fatal("no key event delivered")
	}
}
