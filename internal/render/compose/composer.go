package compose

import (
	"errors"

	"github.com/dleon/timemachine/internal/render/font"
	"github.com/dleon/timemachine/internal/render/scene"
)

// ErrEmptyScene reports a scene with nothing to draw: no elements and
// no fallback text. Callers treat it as "leave the display alone", not
// as a failure.
var ErrEmptyScene = errors.New("compose: scene has no elements and no fallback text")

// elementSpacing is the gap between consecutive scene elements.
const elementSpacing = 2

// Composer measures and paints scenes into frames.
//
// Layout: the widths of all elements (plus the inter-element spacing)
// are summed, the whole strip is centered with offset = (32-total)/2,
// then elements paint left to right. A strip wider than the display
// gets a negative offset and clips on both sides.
type Composer struct{}

// NewComposer creates a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Render composes the scene into a new frame.
func (c *Composer) Render(s scene.Scene) (Frame, error) {
	var f Frame

	if len(s.Elements) == 0 {
		if s.FallbackText == "" {
			return f, ErrEmptyScene
		}
		c.paintText(&f, c.centerOffset(c.textWidth(s.FallbackText, font.Default)), s.FallbackText, font.Default)
		return f, nil
	}

	total := 0
	for i, el := range s.Elements {
		total += c.elementWidth(el)
		if i < len(s.Elements)-1 {
			total += elementSpacing
		}
	}

	x := c.centerOffset(total)
	for i, el := range s.Elements {
		switch el.Kind {
		case scene.ElementText:
			fnt := font.ByName(el.Text.Font)
			c.paintText(&f, x, el.Text.Str, fnt)
		case scene.ElementAnimation:
			c.paintBitmap(&f, x, el.Animation.CurrentFrame())
		}
		x += c.elementWidth(el)
		if i < len(s.Elements)-1 {
			x += elementSpacing
		}
	}
	return f, nil
}

func (c *Composer) centerOffset(total int) int {
	return (FrameWidth - total) / 2
}

func (c *Composer) elementWidth(el scene.Element) int {
	switch el.Kind {
	case scene.ElementText:
		return c.textWidth(el.Text.Str, font.ByName(el.Text.Font))
	case scene.ElementAnimation:
		return el.Animation.Width
	}
	return 0
}

// textWidth sums glyph widths, using the end-of-run glyph for the last
// character so trailing spacing does not skew centering.
func (c *Composer) textWidth(text string, fnt font.Font) int {
	width := 0
	for i := 0; i < len(text); i++ {
		var g font.Glyph
		if i == len(text)-1 {
			g = fnt.LastGlyph(text[i])
		} else {
			g = fnt.Glyph(text[i])
		}
		width += g.Width
	}
	return width
}

func (c *Composer) paintText(f *Frame, x int, text string, fnt font.Font) {
	for i := 0; i < len(text); i++ {
		var g font.Glyph
		if i == len(text)-1 {
			g = fnt.LastGlyph(text[i])
		} else {
			g = fnt.Glyph(text[i])
		}
		for col := 0; col < len(g.Columns); col++ {
			f.SetColumn(x+col, g.Columns[col])
		}
		x += g.Width
	}
}

func (c *Composer) paintBitmap(f *Frame, x int, columns []byte) {
	for col := 0; col < len(columns); col++ {
		f.SetColumn(x+col, columns[col])
	}
}
