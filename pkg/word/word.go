// Package word holds the byte/word helpers shared by the 8080 core.
package word

// Assemble builds a 16-bit value from its high and low bytes.
func Assemble(high, low uint8) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// High returns the high-order byte of w.
func High(w uint16) uint8 {
	return uint8(w >> 8)
}

// Low returns the low-order byte of w.
func Low(w uint16) uint8 {
	return uint8(w)
}

// RotateRight rotates b right by one bit; bit 0 moves to bit 7.
func RotateRight(b uint8) uint8 {
	return (b << 7) | (b >> 1)
}

// RotateLeft rotates b left by one bit; bit 7 moves to bit 0.
func RotateLeft(b uint8) uint8 {
	return (b >> 7) | (b << 1)
}
