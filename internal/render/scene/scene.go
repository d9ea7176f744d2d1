// Package scene defines the declarative description of what a panel
// wants drawn. A Scene is built fresh on every render and handed to
// the display adapter over the bus; nothing here touches hardware.
package scene

import "time"

// ElementKind identifies the type of a scene element.
type ElementKind int

const (
	// ElementText is a static text run in a given font.
	ElementText ElementKind = iota

	// ElementAnimation is a frame-based column bitmap animation.
	ElementAnimation
)

// String returns the element kind name.
func (k ElementKind) String() string {
	switch k {
	case ElementText:
		return "text"
	case ElementAnimation:
		return "animation"
	default:
		return "unknown"
	}
}

// Text is a static text element.
type Text struct {
	// Str is the text to display.
	Str string

	// Font names the font to render with. Empty selects the default font.
	Font string
}

// Animation is a frame-based bitmap element. Each frame is a column
// bitmap: one byte per column, bit 0 = top pixel.
type Animation struct {
	// Frames holds the frame bitmaps. The composer draws Frames[Frame].
	Frames [][]byte

	// Frame is the index of the frame to draw.
	Frame int

	// Width is the width of each frame in pixels.
	Width int

	// Height is the height of each frame in pixels (always 8 for the
	// cascaded matrix).
	Height int

	// FrameDelay is the delay between frames. Advancing frames is the
	// publisher's job; the composer only draws the current one.
	FrameDelay time.Duration
}

// CurrentFrame returns the bitmap for the current frame index, or nil
// if the animation has no frames.
func (a Animation) CurrentFrame() []byte {
	if len(a.Frames) == 0 {
		return nil
	}
	idx := a.Frame
	if idx < 0 || idx >= len(a.Frames) {
		idx = 0
	}
	return a.Frames[idx]
}

// Element is one visual unit within a Scene.
type Element struct {
	Kind      ElementKind
	Text      Text
	Animation Animation
}

// NewText builds a text element.
func NewText(str, font string) Element {
	return Element{Kind: ElementText, Text: Text{Str: str, Font: font}}
}

// NewAnimation builds an animation element.
func NewAnimation(a Animation) Element {
	return Element{Kind: ElementAnimation, Animation: a}
}

// Scene is a renderable composition. Simple backends may ignore the
// structured elements and render FallbackText instead.
type Scene struct {
	// Elements are drawn left to right, centered as a group.
	Elements []Element

	// FallbackText is a plain string for backends that do not support
	// structured elements, and the content rendered when Elements is empty.
	FallbackText string
}

// IsEmpty reports whether the scene has nothing to render.
func (s Scene) IsEmpty() bool {
	return len(s.Elements) == 0 && s.FallbackText == ""
}
