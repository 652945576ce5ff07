package cpu

// 8080 flag bit positions in the PSW flag byte.
const (
	FlagCY uint8 = 0x01 // Carry
	flag1  uint8 = 0x02 // Always set
	FlagP  uint8 = 0x04 // Parity (even)
	FlagAC uint8 = 0x10 // Auxiliary carry out of bit 3
	FlagZ  uint8 = 0x40 // Zero
	FlagS  uint8 = 0x80 // Sign
)

// ParityTable holds the even-parity outcome for each byte value.
var ParityTable [256]bool

func init() {
	for i := 0; i < 256; i++ {
		j := uint8(i)
		parity := uint8(0)
		for k := 0; k < 8; k++ {
			parity ^= j & 1
			j >>= 1
		}
		ParityTable[i] = parity == 0
	}
}

// Flags is the 8080 condition-code register.
type Flags struct {
	Z, S, P, CY, AC bool
}

// SetZ sets Z when value is zero.
func (f *Flags) SetZ(value uint8) {
	f.Z = value == 0
}

// SetS copies bit 7 of value into S.
func (f *Flags) SetS(value uint8) {
	f.S = value&0x80 != 0
}

// SetP sets P when value has an even number of one bits.
func (f *Flags) SetP(value uint8) {
	f.P = ParityTable[value]
}

// SetZSP derives Z, S and P from an 8-bit result.
func (f *Flags) SetZSP(value uint8) {
	f.SetZ(value)
	f.SetS(value)
	f.SetP(value)
}

// Serialize packs the flags into the PSW flag byte pushed by PUSH PSW.
// Bit 1 always reads as 1, bits 3 and 5 as 0.
func (f Flags) Serialize() uint8 {
	return bsel(f.S, FlagS, 0) |
		bsel(f.Z, FlagZ, 0) |
		bsel(f.AC, FlagAC, 0) |
		bsel(f.P, FlagP, 0) |
		flag1 |
		bsel(f.CY, FlagCY, 0)
}

// Deserialize unpacks a PSW flag byte popped by POP PSW.
func (f *Flags) Deserialize(b uint8) {
	f.S = b&FlagS != 0
	f.Z = b&FlagZ != 0
	f.AC = b&FlagAC != 0
	f.P = b&FlagP != 0
	f.CY = b&FlagCY != 0
}

// bsel returns a if cond is true, else b.
func bsel(cond bool, a, b uint8) uint8 {
	if cond {
		return a
	}
	return b
}
