package cpu

import "github.com/oisee/i8080/pkg/word"

// --- 8-bit ALU helpers ---
//
// Subtraction follows the hardware: A + ^value + 1 (or + 0 for a pending
// borrow), with CY holding the inverted carry-out and AC the carry out of
// bit 3 of that addition.

// addc adds value and carry-in to A and sets every flag.
func (s *State) addc(value uint8, cin uint8) uint8 {
	sum := uint16(s.A) + uint16(value) + uint16(cin)
	result := uint8(sum)
	s.CC.CY = sum&0x100 != 0
	s.CC.AC = (s.A&0x0F)+(value&0x0F)+cin > 0x0F
	s.CC.SetZSP(result)
	return result
}

// subb subtracts value and borrow-in from A and sets every flag.
func (s *State) subb(value uint8, borrow uint8) uint8 {
	result := s.addc(^value, borrow^1)
	s.CC.CY = !s.CC.CY
	return result
}

// Add8 implements ADD/ADI.
func (s *State) Add8(value uint8) {
	s.A = s.addc(value, 0)
}

// Adc8 implements ADC/ACI.
func (s *State) Adc8(value uint8) {
	s.A = s.addc(value, bsel(s.CC.CY, 1, 0))
}

// Sub8 implements SUB/SUI.
func (s *State) Sub8(value uint8) {
	s.A = s.subb(value, 0)
}

// Sbb8 implements SBB/SBI.
func (s *State) Sbb8(value uint8) {
	s.A = s.subb(value, bsel(s.CC.CY, 1, 0))
}

// Cmp8 implements CMP/CPI: flags as for SUB, A unchanged.
func (s *State) Cmp8(value uint8) {
	s.subb(value, 0)
}

// And8 implements ANA/ANI.
func (s *State) And8(value uint8) {
	s.A &= value
	s.logicFlags()
}

// Xor8 implements XRA/XRI.
func (s *State) Xor8(value uint8) {
	s.A ^= value
	s.logicFlags()
}

// Or8 implements ORA/ORI.
func (s *State) Or8(value uint8) {
	s.A |= value
	s.logicFlags()
}

func (s *State) logicFlags() {
	s.CC.CY = false
	s.CC.AC = false
	s.CC.SetZSP(s.A)
}

// Inr returns value+1 and sets Z, S, P and AC. CY is not affected.
func (s *State) Inr(value uint8) uint8 {
	value++
	s.CC.AC = value&0x0F == 0
	s.CC.SetZSP(value)
	return value
}

// Dcr returns value-1 and sets Z, S, P and AC. CY is not affected.
func (s *State) Dcr(value uint8) uint8 {
	value--
	s.CC.AC = value&0x0F != 0x0F
	s.CC.SetZSP(value)
	return value
}

// Add16 implements DAD: HL += addend, only CY is affected.
func (s *State) Add16(addend uint16) {
	sum := uint32(s.HL()) + uint32(addend)
	s.CC.CY = sum&0x10000 != 0
	s.SetHL(uint16(sum))
}

// --- accumulator rotates ---

// rlc rotates A left; bit 7 goes to CY and bit 0.
func (s *State) rlc() {
	s.CC.CY = s.A&0x80 != 0
	s.A = word.RotateLeft(s.A)
}

// rrc rotates A right; bit 0 goes to CY and bit 7.
func (s *State) rrc() {
	s.CC.CY = s.A&0x01 != 0
	s.A = word.RotateRight(s.A)
}

// ral rotates A left through CY.
func (s *State) ral() {
	old := s.A
	s.A = old<<1 | bsel(s.CC.CY, 0x01, 0)
	s.CC.CY = old&0x80 != 0
}

// rar rotates A right through CY.
func (s *State) rar() {
	old := s.A
	s.A = old>>1 | bsel(s.CC.CY, 0x80, 0)
	s.CC.CY = old&0x01 != 0
}
