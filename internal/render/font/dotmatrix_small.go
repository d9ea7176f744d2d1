package font

// dotmatrixSmallData holds A-Z, three columns each, same roof layout
// as the 5-column font.
var dotmatrixSmallData = []byte{
	0xFD, 0x15, 0xFD, // A
	0xFD, 0x95, 0x6D, // B
	0x7D, 0x85, 0x85, // C
	0xFD, 0x85, 0x7D, // D
	0xFD, 0x95, 0x85, // E
	0xFD, 0x15, 0x05, // F
	0x7D, 0x95, 0xB5, // G
	0xFD, 0x11, 0xFD, // H
	0x85, 0xFD, 0x85, // I
	0x81, 0x85, 0x7D, // J
	0xFD, 0x11, 0xED, // K
	0xFD, 0x81, 0x81, // L
	0xFD, 0x0D, 0xFD, // M
	0xFD, 0x11, 0xFD, // N
	0x7D, 0x85, 0x7D, // O
	0xFD, 0x15, 0x0D, // P
	0x7D, 0xA5, 0xFD, // Q
	0xFD, 0x15, 0xED, // R
	0x4D, 0x95, 0xB5, // S
	0x05, 0xFD, 0x05, // T
	0x7D, 0x81, 0x7D, // U
	0x3D, 0xC1, 0x3D, // V
	0xFD, 0x61, 0xFD, // W
	0xED, 0x11, 0xED, // X
	0x0D, 0xF1, 0x0D, // Y
	0xE5, 0x95, 0x8D, // Z
}

var (
	dotmatrixSmallWidth  [256]uint8
	dotmatrixSmallOffset [256]uint16
)

func init() {
	for i := 0; i < 26; i++ {
		dotmatrixSmallWidth['A'+i] = 3
		dotmatrixSmallOffset['A'+i] = uint16(i * 3)
		dotmatrixSmallWidth['a'+i] = 3
		dotmatrixSmallOffset['a'+i] = uint16(i * 3)
	}
}
