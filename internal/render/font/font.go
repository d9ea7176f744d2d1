// Package font provides the column-format bitmap fonts used on the
// 32x8 matrix.
//
// Glyphs are stored as vertical columns, 8 pixels tall: bit 0 is the
// top pixel, bit 7 the bottom. Characters have variable width, so each
// font packs its column bytes into a single flat array indexed through
// per-character width and offset tables.
package font

// Glyph is a single character's bitmap in column format.
type Glyph struct {
	// Width is the number of columns, including any trailing spacing
	// column the font adds between adjacent characters.
	Width int

	// Columns holds one byte per column, bit 0 = top pixel.
	Columns []byte
}

// IsEmpty returns true if the glyph has no columns.
func (g Glyph) IsEmpty() bool {
	return g.Width == 0
}

// Font maps byte codes to glyphs.
type Font interface {
	// Name returns the font's registry name.
	Name() string

	// Glyph returns the glyph for ch, including the font's trailing
	// spacing column. Undefined characters yield an empty glyph or a
	// fallback, depending on the font.
	Glyph(ch byte) Glyph

	// LastGlyph returns the glyph for ch as it should appear at the end
	// of a text run, where the trailing spacing column may be omitted.
	LastGlyph(ch byte) Glyph
}

// Named font registry. Scene elements refer to fonts by these names.
const (
	NameDefault        = "default"
	NameDotmatrix      = "dotmatrix"
	NameDotmatrixSmall = "dotmatrix_small"
)

var registry = map[string]Font{
	NameDefault:        Default,
	NameDotmatrix:      Dotmatrix,
	NameDotmatrixSmall: DotmatrixSmall,
}

// ByName returns the font registered under name, falling back to the
// default font for unknown names.
func ByName(name string) Font {
	if f, ok := registry[name]; ok {
		return f
	}
	return Default
}
