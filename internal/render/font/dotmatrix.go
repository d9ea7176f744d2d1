package font

// Dotmatrix is the 5-column LED display font. Every letter carries a
// "roof": a lit top row spanning the full width, like classic dot
// matrix signage. The spacing column between letters keeps the roof
// pixel lit so the top line runs unbroken across a word; the last
// letter of a run drops the spacing column so the roof ends with the
// letter. Characters outside A-Z (and the degree sign) fall back to
// the default font.
var Dotmatrix Font = roofFont{
	name:   NameDotmatrix,
	data:   dotmatrixData,
	width:  &dotmatrixWidth,
	offset: &dotmatrixOffset,
}

// DotmatrixSmall is the 3-column variant for space-constrained text,
// such as panel labels next to a large value.
var DotmatrixSmall Font = roofFont{
	name:   NameDotmatrixSmall,
	data:   dotmatrixSmallData,
	width:  &dotmatrixSmallWidth,
	offset: &dotmatrixSmallOffset,
}

// roofSpacing is the spacing column both roof fonts append between
// characters: only the roof pixel lit.
const roofSpacing = 0x01

// roofFont implements the shared lookup for both roof-style fonts.
type roofFont struct {
	name   string
	data   []byte
	width  *[256]uint8
	offset *[256]uint16
}

func (f roofFont) Name() string { return f.name }

func (f roofFont) Glyph(ch byte) Glyph {
	w := int(f.width[ch])
	if w == 0 {
		return Default.Glyph(ch)
	}
	off := int(f.offset[ch])
	cols := make([]byte, w+1)
	copy(cols, f.data[off:off+w])
	cols[w] = roofSpacing
	return Glyph{Width: w + 1, Columns: cols}
}

func (f roofFont) LastGlyph(ch byte) Glyph {
	w := int(f.width[ch])
	if w == 0 {
		return Default.LastGlyph(ch)
	}
	off := int(f.offset[ch])
	return Glyph{Width: w, Columns: f.data[off : off+w]}
}

// dotmatrixData holds A-Z plus the degree sign, five columns each.
// Bit 0 is the roof, bit 1 the gap below it, bits 2-7 the letter body
// anchored to the bottom row.
var dotmatrixData = []byte{
	0xFD, 0x95, 0x93, 0x95, 0xFD, // A
	0xFD, 0x95, 0x95, 0x95, 0x69, // B
	0x79, 0x85, 0x85, 0x85, 0x85, // C
	0xFD, 0x85, 0x85, 0x85, 0x79, // D
	0xFD, 0x95, 0x95, 0x95, 0x85, // E
	0xFD, 0x15, 0x15, 0x15, 0x05, // F
	0x79, 0x85, 0x95, 0x95, 0xF5, // G
	0xFD, 0x11, 0x11, 0x11, 0xFD, // H
	0x85, 0x85, 0xFD, 0x85, 0x85, // I
	0x41, 0x81, 0x85, 0x7D, 0x05, // J
	0xFD, 0x11, 0x29, 0x45, 0x85, // K
	0xFD, 0x81, 0x81, 0x81, 0x81, // L
	0xFD, 0x05, 0x19, 0x05, 0xFD, // M
	0xFD, 0x05, 0x11, 0x41, 0xFD, // N
	0x79, 0x85, 0x85, 0x85, 0x79, // O
	0xFD, 0x15, 0x15, 0x15, 0x09, // P
	0x79, 0x85, 0xA5, 0xC5, 0xF9, // Q
	0xFD, 0x15, 0x35, 0x55, 0x89, // R
	0x49, 0x95, 0x95, 0x95, 0x65, // S
	0x05, 0x05, 0xFD, 0x05, 0x05, // T
	0x7D, 0x81, 0x81, 0x81, 0x7D, // U
	0x3D, 0x41, 0x81, 0x41, 0x3D, // V
	0x7D, 0x81, 0x7D, 0x81, 0x7D, // W
	0xC5, 0x29, 0x11, 0x29, 0xC5, // X
	0x05, 0x11, 0xE5, 0x11, 0x05, // Y
	0xC5, 0xA5, 0x95, 0x8D, 0x85, // Z
	0x0F, 0x09, 0x0F, 0x00, 0x00, // degree sign
}

var (
	dotmatrixWidth  [256]uint8
	dotmatrixOffset [256]uint16
)

// degreeSign is 0xB0 in Latin-1, the only non-letter the roof fonts define.
const degreeSign = 0xB0

func init() {
	for i := 0; i < 26; i++ {
		dotmatrixWidth['A'+i] = 5
		dotmatrixOffset['A'+i] = uint16(i * 5)
		// Lowercase shares the uppercase shapes.
		dotmatrixWidth['a'+i] = 5
		dotmatrixOffset['a'+i] = uint16(i * 5)
	}
	dotmatrixWidth[degreeSign] = 5
	dotmatrixOffset[degreeSign] = 26 * 5
}
