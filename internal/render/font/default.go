package font

// Default is the compact variable-width font. It covers the full byte
// range, with digits and letters three columns wide and a handful of
// wider symbols. Every defined glyph carries one empty trailing column
// so adjacent characters do not touch; since the spacing column is
// invisible, the last character of a run renders identically.
var Default Font = defaultFont{}

type defaultFont struct{}

func (defaultFont) Name() string { return NameDefault }

func (defaultFont) Glyph(ch byte) Glyph {
	w := int(defaultWidth[ch])
	if w == 0 {
		return Glyph{}
	}
	off := int(defaultOffset[ch])
	cols := make([]byte, w+1)
	copy(cols, defaultData[off:off+w])
	// cols[w] stays 0x00: the spacing column.
	return Glyph{Width: w + 1, Columns: cols}
}

// LastGlyph is identical to Glyph: an empty spacing column at the end
// of the text costs nothing visually and keeps centering math uniform.
func (f defaultFont) LastGlyph(ch byte) Glyph { return f.Glyph(ch) }

// defaultData packs the column bytes of every character back to back.
// defaultOffset[ch] gives the first column of ch, defaultWidth[ch] how
// many columns to read.
var defaultData = []byte{
	// 0-31: control characters, one empty column each
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,

	// 32-47: space and symbols
	0,   // 32 ' '
	94,  // 33 '!'
	0,   // 34 '"'
	63, 192, 127, 192, 63, 0, 250, 0, 255, 9, 1, 0, 250, // 35 '#'
	72, 84, 36, 0, 12, 112, 12, 0, 124, 4, 120, 0, 56, 68, 68, 0, // 36 '$'
	66, 37, 18, 72, 164, 66, // 37 '%'
	1, // 38 '&'
	6, // 39 '\''
	254, 17, 17, 254, 0, 126, 129, 65, 190, 0, 129, 255, 129, // 40 '('
	130, 186, 198, 254, 134, 234, 134, 254, 250, 130, 250, 254, 134, 234, 134, 254, 124, // 41 ')'
	250, 130, 250, 254, 130, 170, 186, 254, 130, 250, 226, 250, 134, 254, 130, 234, 234, 246, 254, 124, // 42 '*'
	0,        // 43 '+'
	64, 0, 0, // 44 ','
	8, 8, // 45 '-'
	128, // 46 '.'
	130, 246, 238, 130, 254, 250, 130, 250, 254, 130, 234, 234, 246, 254, 124, // 47 '/'

	// 48-57: digits
	126, 129, 126, // 48 '0'
	130, 255, 128, // 49 '1'
	194, 177, 142, // 50 '2'
	66, 137, 118, // 51 '3'
	15, 8, 255, // 52 '4'
	79, 137, 113, // 53 '5'
	126, 137, 114, // 54 '6'
	1, 249, 7, // 55 '7'
	118, 137, 118, // 56 '8'
	78, 145, 126, // 57 '9'

	// 58-64
	36, // 58 ':'
	0,  // 59 ';'
	0,  // 60 '<'
	254, 17, 17, 254, 0, 255, 17, 17, 14, // 61 '='
	0, // 62 '>'
	124, 254, 254, 162, 254, 254, 254, // 63 '?'
	250, // 64 '@'

	// 65-90: A-Z
	124, 10, 124, // 'A'
	126, 74, 52, // 'B'
	60, 66, 66, // 'C'
	126, 66, 60, // 'D'
	126, 74, 66, // 'E'
	126, 10, 2, // 'F'
	60, 82, 116, // 'G'
	126, 8, 126, // 'H'
	126, // 'I'
	32, 64, 62, // 'J'
	126, 8, 118, // 'K'
	126, 64, 64, // 'L'
	126, 4, 126, // 'M'
	126, 2, 124, // 'N'
	60, 66, 60, // 'O'
	126, 18, 12, // 'P'
	60, 66, 124, // 'Q'
	126, 18, 108, // 'R'
	68, 74, 50, // 'S'
	2, 126, 2, // 'T'
	62, 64, 62, // 'U'
	30, 96, 30, // 'V'
	126, 32, 126, // 'W'
	118, 8, 118, // 'X'
	6, 120, 6, // 'Y'
	98, 90, 70, // 'Z'

	// 91-96
	126, 129, 129, 66, // 91 '['
	6, 28, 48, // 92 '\\'
	255, 9, 9, 1, // 93 ']'
	8,          // 94 '^'
	32, 32, 32, // 95 '_'
	255, 8, 20, 227, // 96 '`'

	// 97-122: a-z
	249, 21, 249, // 'a'
	253, 149, 105, // 'b'
	121, 133, 73, // 'c'
	253, 133, 121, // 'd'
	253, 149, 133, // 'e'
	253, 21, 5, // 'f'
	121, 165, 233, // 'g'
	253, 17, 253, // 'h'
	1, 253, 1, // 'i'
	65, 129, 125, // 'j'
	253, 17, 237, // 'k'
	253, 129, 129, // 'l'
	253, 9, 253, // 'm'
	253, 5, 249, // 'n'
	121, 133, 121, // 'o'
	253, 37, 25, // 'p'
	121, 133, 249, // 'q'
	253, 37, 217, // 'r'
	137, 149, 101, // 's'
	5, 253, 5, // 't'
	125, 129, 125, // 'u'
	61, 193, 61, // 'v'
	253, 65, 253, // 'w'
	237, 17, 237, // 'x'
	13, 241, 13, // 'y'
	197, 181, 141, // 'z'

	// 123-126
	255, 253, 129, 253, 255, 129, 255, 129, 251, 129, 255, 129, 181, 189, 255, 249, // 123 '{'
	255, 187, 181, 205, 255, 255, 193, 191, 193, 255, 129, 237, 243, 255, 161, 255, // 124 '|'
	0, 2, 126, 2, 0, 126, 0, 126, 4, 126, 0, 126, 74, 66, 0, 6, // 125 '}'
	0, 68, 74, 50, 0, 0, 62, 64, 62, 0, 126, 18, 12, 0, 94, 0, // 126 '~'

	// 127-255: extended characters
	13, 17, 253, // 132
	253, 149, 101, // 133
	4, 126, 4, // 134
	4, 126, 4, 0, 4, 126, 4, // 135
	32, 126, 32, // 136
	32, 126, 32, 0, 32, 126, 32, // 137
	0, 64, 32, 16, 10, 6, 14, 0, // 138
	0, 8, 8, 8, 8, 28, 8, 0, // 139
	0, 2, 4, 8, 80, 96, 112, 0, // 140
	4, 126, // 145
	100, 82, 76, // 146
	66, 74, 52, // 147
	14, 8, 126, // 148
	78, 74, 50, // 149
	60, 74, 52, // 150
	2, 122, 6, // 151
	52, 74, 52, // 152
	12, 82, 60, // 153
	60, 66, 60, // 154
	227, 151, 143, 151, 227, // 161
	227, 149, 157, 149, 227, // 162
	227, 181, 185, 181, 227, // 163
	227, 245, 249, 245, 227, // 164
	224, 224, 0, 0, 0, 0, 0, 0, // 169
	224, 224, 0, 252, 252, 0, 0, 0, // 170
	224, 224, 0, 252, 252, 0, 255, 255, // 171
	64, 0, 0, 0, 0, // 174
	64, 0, 64, 0, 0, // 175
	64, 0, 64, 0, 64, // 176
	254, 146, 146, 146, 254, // 177
	128, 126, 42, 42, 170, 254, // 178
	128, 152, 64, 62, 80, 136, 128, // 179
	72, 40, 152, 254, 16, 40, 68, // 180
	68, 36, 20, 254, 20, 36, 68, // 181
	168, 232, 172, 250, 172, 232, 168, // 182
	128, 136, 136, 254, 136, 136, 128, // 183
	4, 10, 4, // 186
}

var defaultWidth = [256]uint8{
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, // 0-15
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, // 16-31
	1, 1, 1, 13, 16, 6, 1, 1, 13, 17, 20, 1, 3, 2, 1, 15, // 32-47
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 1, 1, 1, 9, 1, 7, // 48-63
	1, 3, 3, 3, 3, 3, 3, 3, 3, 1, 3, 3, 3, 3, 3, 3, // 64-79
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 3, 4, 1, 3, // 80-95
	4, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, // 96-111
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 16, 16, 16, 16, 0, // 112-127
	0, 0, 0, 0, 3, 3, 3, 7, 3, 7, 8, 8, 8, 0, 0, 0, // 128-143
	0, 2, 3, 3, 3, 3, 3, 3, 3, 3, 3, 0, 0, 0, 0, 0, // 144-159
	0, 5, 5, 5, 5, 0, 0, 0, 0, 8, 8, 8, 0, 0, 5, 5, // 160-175
	5, 5, 6, 7, 7, 7, 7, 7, 0, 0, 3, 0, 0, 0, 0, 0, // 176-191
}

var defaultOffset = [256]uint16{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, // 0-15
	16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, // 16-31
	32, 33, 34, 35, 48, 64, 70, 71, 72, 85, 102, 122, 123, 126, 128, 129, // 32-47
	144, 147, 150, 153, 156, 159, 162, 165, 168, 171, 174, 175, 176, 177, 186, 187, // 48-63
	194, 195, 198, 201, 204, 207, 210, 213, 216, 219, 220, 223, 226, 229, 232, 235, // 64-79
	238, 241, 244, 247, 250, 253, 256, 259, 262, 265, 268, 271, 275, 278, 282, 283, // 80-95
	286, 290, 293, 296, 299, 302, 305, 308, 311, 314, 317, 320, 323, 326, 329, 332, // 96-111
	335, 338, 341, 344, 347, 350, 353, 356, 359, 362, 365, 368, 384, 400, 416, 432, // 112-127
	432, 432, 432, 432, 432, 435, 438, 441, 448, 451, 458, 466, 474, 482, 482, 482, // 128-143
	482, 482, 484, 487, 490, 493, 496, 499, 502, 505, 508, 511, 511, 511, 511, 511, // 144-159
	511, 511, 516, 521, 526, 531, 531, 531, 531, 531, 539, 547, 555, 555, 555, 560, // 160-175
	565, 570, 575, 581, 588, 595, 602, 609, 616, 616, 616, 619, 619, 619, 619, 619, // 176-191
	619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, // 192-207
	619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, // 208-223
	619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, // 224-239
	619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, 619, // 240-255
}
