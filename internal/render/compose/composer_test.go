package compose

import (
	"errors"
	"testing"

	"github.com/dleon/timemachine/internal/render/font"
	"github.com/dleon/timemachine/internal/render/scene"
)

func TestFrame_SetColumnClips(t *testing.T) {
	var f Frame
	f.SetColumn(-1, 0xFF)
	f.SetColumn(FrameWidth, 0xFF)
	for i, c := range f.Columns {
		if c != 0 {
			t.Errorf("column %d written by out-of-range SetColumn", i)
		}
	}

	f.SetColumn(0, 0x81)
	if !f.Pixel(0, 0) || !f.Pixel(0, 7) {
		t.Error("expected top and bottom pixel of column 0 lit")
	}
	if f.Pixel(0, 3) {
		t.Error("middle pixel should be unlit")
	}
}

func TestComposer_Render_CenteredText(t *testing.T) {
	c := NewComposer()

	// "AB" in the default font: 'A' keeps its spacing column, 'B' is
	// the last character (spacing column is blank either way). Both are
	// 4 columns, so the 8-column strip starts at (32-8)/2 = 12.
	f, err := c.Render(scene.Scene{Elements: []scene.Element{scene.NewText("AB", "")}})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	want := map[int]byte{
		12: 124, 13: 10, 14: 124, 15: 0, // A + spacing
		16: 126, 17: 74, 18: 52, 19: 0, // B + spacing
	}
	for x := 0; x < FrameWidth; x++ {
		expected := want[x]
		if f.Columns[x] != expected {
			t.Errorf("column %d = %d, want %d", x, f.Columns[x], expected)
		}
	}
}

func TestComposer_Render_ElementSpacing(t *testing.T) {
	c := NewComposer()

	anim := scene.Animation{
		Frames: [][]byte{{1, 2, 3, 4, 5, 6, 7, 8}},
		Width:  8,
		Height: 8,
	}
	s := scene.Scene{Elements: []scene.Element{
		scene.NewText("1", ""),
		scene.NewAnimation(anim),
	}}

	f, err := c.Render(s)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	// "1" is 4 columns, plus 2 spacing, plus the 8-column animation:
	// total 14, offset (32-14)/2 = 9.
	if f.Columns[9] != 130 || f.Columns[10] != 255 || f.Columns[11] != 128 {
		t.Errorf("text columns = %v, want digit 1 at x=9", f.Columns[9:12])
	}
	// Spacing columns stay empty.
	if f.Columns[13] != 0 || f.Columns[14] != 0 {
		t.Errorf("spacing columns lit: %v", f.Columns[13:15])
	}
	for i := 0; i < 8; i++ {
		if f.Columns[15+i] != byte(i+1) {
			t.Errorf("animation column %d = %d, want %d", 15+i, f.Columns[15+i], i+1)
		}
	}
}

func TestComposer_Render_RoofFontLastChar(t *testing.T) {
	c := NewComposer()

	// Two dotmatrix letters: the first carries its roof spacing column,
	// the last does not, so total = 6 + 5 = 11, offset = 10.
	f, err := c.Render(scene.Scene{Elements: []scene.Element{
		scene.NewText("HI", font.NameDotmatrix),
	}})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	if f.Columns[10] != 0xFD {
		t.Errorf("column 10 = %#x, want H first column 0xFD", f.Columns[10])
	}
	if f.Columns[15] != 0x01 {
		t.Errorf("column 15 = %#x, want roof spacing 0x01", f.Columns[15])
	}
	// Last column of I, then nothing after it.
	if f.Columns[20] != 0x85 || f.Columns[21] != 0 {
		t.Errorf("columns 20,21 = %#x,%#x, want 0x85,0", f.Columns[20], f.Columns[21])
	}
}

func TestComposer_Render_Fallback(t *testing.T) {
	c := NewComposer()

	f, err := c.Render(scene.Scene{FallbackText: "0"})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	// "0" is 4 columns in the default font, offset (32-4)/2 = 14.
	if f.Columns[14] != 126 || f.Columns[15] != 129 || f.Columns[16] != 126 {
		t.Errorf("fallback columns = %v, want digit 0 at x=14", f.Columns[14:17])
	}
}

func TestComposer_Render_EmptyScene(t *testing.T) {
	c := NewComposer()

	if _, err := c.Render(scene.Scene{}); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("expected ErrEmptyScene, got %v", err)
	}
}

func TestComposer_Render_OversizedTextClips(t *testing.T) {
	c := NewComposer()

	// 12 wide characters: 12*4 = 48 columns, offset (32-48)/2 = -8.
	// Rendering must not panic and must fill the whole display.
	f, err := c.Render(scene.Scene{Elements: []scene.Element{
		scene.NewText("000000000000", ""),
	}})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	lit := 0
	for x := 0; x < FrameWidth; x++ {
		if f.Columns[x] != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("expected clipped text to light some columns")
	}
}
