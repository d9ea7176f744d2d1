package display

// Rotate8x8 converts one 8x8 block from the frame's column-major
// layout (byte = column, bit 0 = top row) to the wire's row-major
// layout (byte = digit register row, bit = column).
//
// The modules are mounted rotated a quarter turn, so the mapping is a
// rotation, not a plain transpose: pixel (col x, row y) lands at
// register row 7-y, bit x. Applying the rotation twice does not return
// the original block; four applications do.
func Rotate8x8(in [8]byte) [8]byte {
	var out [8]byte
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if in[x]&(1<<uint(y)) != 0 {
				out[7-y] |= 1 << uint(x)
			}
		}
	}
	return out
}

// WireBlockOrder maps a transmission slot to the logical frame block
// feeding it. The MAX7219 cascade is a shift register: the first block
// shifted out ends up in the module farthest from the input, so blocks
// stream in reverse logical order.
func WireBlockOrder(slot, cascade int) int {
	return cascade - 1 - slot
}
