// Package compose turns scenes into ready-to-transmit frames for the
// 32x8 matrix.
package compose

// Display dimensions in pixels.
const (
	FrameWidth  = 32
	FrameHeight = 8

	// FrameBlocks is the number of 8x8 blocks a frame decomposes into.
	FrameBlocks = FrameWidth / 8
)

// Frame is one rendered display image in column-major format: one byte
// per column, bit 0 the top pixel, bit 7 the bottom.
type Frame struct {
	Columns [FrameWidth]byte
}

// SetColumn writes one column, silently dropping out-of-range writes.
// Scene centering can push x negative or past the right edge; clipping
// here keeps the paint loop free of bounds checks.
func (f *Frame) SetColumn(x int, data byte) {
	if x < 0 || x >= FrameWidth {
		return
	}
	f.Columns[x] = data
}

// Clear zeroes every column.
func (f *Frame) Clear() {
	f.Columns = [FrameWidth]byte{}
}

// Pixel reports whether the pixel at (x, y) is lit, y counted from the
// top. Out-of-range coordinates are unlit.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= FrameWidth || y < 0 || y >= FrameHeight {
		return false
	}
	return f.Columns[x]&(1<<uint(y)) != 0
}

// Block returns the 8x8 block at the given index (0 is leftmost) as an
// 8-byte column slice. Used by drivers that address the matrix as
// cascaded 8x8 modules.
func (f *Frame) Block(i int) [8]byte {
	var b [8]byte
	copy(b[:], f.Columns[i*8:i*8+8])
	return b
}
