package cpu

import "github.com/oisee/i8080/pkg/inst"

// Step executes the single instruction at PC and leaves PC at the next one.
// IN and OUT go through m. An unimplemented opcode returns a *Fault and
// leaves the state untouched.
func Step(s *State, m Machine) error {
	op := s.Opcode()
	if !inst.Supported(op) {
		return s.fault(op)
	}

	switch {
	// MOV dst,src: 0x40-0x7F (0x76 is HLT, rejected above)
	case op&0xC0 == 0x40:
		s.SetOperand(op>>3, s.Operand(op))

	// ALU A,src: 0x80-0xBF
	case op&0xC0 == 0x80:
		s.alu(op>>3, s.Operand(op))

	default:
		if !s.exec(op, m) {
			return s.fault(op)
		}
	}
	s.advance(op)
	return nil
}

// exec performs every opcode outside the MOV and ALU blocks.
// It reports false for an opcode with no behaviour.
func (s *State) exec(op uint8, m Machine) bool {
	switch op {
	// === NOP and its undocumented aliases ===
	case 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38:

	// === 16-bit loads and register-pair arithmetic ===
	case 0x01, 0x11, 0x21, 0x31: // LXI rp,d16
		s.setPair(op>>4, s.addr16())
	case 0x03, 0x13, 0x23, 0x33: // INX rp
		s.setPair(op>>4, s.pair(op>>4)+1)
	case 0x0B, 0x1B, 0x2B, 0x3B: // DCX rp
		s.setPair(op>>4, s.pair(op>>4)-1)
	case 0x09, 0x19, 0x29, 0x39: // DAD rp
		s.Add16(s.pair(op >> 4))

	// === Accumulator loads and stores ===
	case 0x02: // STAX B
		s.Memory.Set(s.BC(), s.A)
	case 0x12: // STAX D
		s.Memory.Set(s.DE(), s.A)
	case 0x0A: // LDAX B
		s.A = s.Memory.Get(s.BC())
	case 0x1A: // LDAX D
		s.A = s.Memory.Get(s.DE())
	case 0x32: // STA a16
		s.Memory.Set(s.addr16(), s.A)
	case 0x3A: // LDA a16
		s.A = s.Memory.Get(s.addr16())
	case 0x22: // SHLD a16
		addr := s.addr16()
		s.Memory.Set(addr, s.L)
		s.Memory.Set(addr+1, s.H)
	case 0x2A: // LHLD a16
		addr := s.addr16()
		s.L = s.Memory.Get(addr)
		s.H = s.Memory.Get(addr + 1)

	// === 8-bit increment, decrement, immediate load ===
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C: // INR r
		s.SetOperand(op>>3, s.Inr(s.Operand(op>>3)))
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D: // DCR r
		s.SetOperand(op>>3, s.Dcr(s.Operand(op>>3)))
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E: // MVI r,d8
		s.SetOperand(op>>3, s.Arg(1))

	// === Rotates and flag operations ===
	case 0x07:
		s.rlc()
	case 0x0F:
		s.rrc()
	case 0x17:
		s.ral()
	case 0x1F:
		s.rar()
	case 0x2F: // CMA
		s.A = ^s.A
	case 0x37: // STC
		s.CC.CY = true
	case 0x3F: // CMC
		s.CC.CY = !s.CC.CY

	// === Immediate ALU ===
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		s.alu(op>>3, s.Arg(1))

	// === Jumps, calls, returns ===
	case 0xC3, 0xCB: // JMP, *JMP
		s.JumpIf(true)
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA: // Jcc
		s.JumpIf(s.condition(op >> 3))
	case 0xCD, 0xDD, 0xED, 0xFD: // CALL, *CALL
		s.CallIf(true)
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC: // Ccc
		s.CallIf(s.condition(op >> 3))
	case 0xC9, 0xD9: // RET, *RET
		s.RetIf(true)
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8: // Rcc
		s.RetIf(s.condition(op >> 3))
	case 0xE9: // PCHL
		s.jump(s.HL())

	// === Stack ===
	case 0xC5, 0xD5, 0xE5: // PUSH rp
		s.Push16(s.pair(op >> 4))
	case 0xC1, 0xD1, 0xE1: // POP rp
		s.setPair(op>>4, s.Pop16())
	case 0xF5: // PUSH PSW
		s.Push8(s.A)
		s.Push8(s.CC.Serialize())
	case 0xF1: // POP PSW
		s.CC.Deserialize(s.Pop8())
		s.A = s.Pop8()
	case 0xE3: // XTHL
		l, h := s.Memory.Get(s.SP), s.Memory.Get(s.SP+1)
		s.Memory.Set(s.SP, s.L)
		s.Memory.Set(s.SP+1, s.H)
		s.L, s.H = l, h
	case 0xF9: // SPHL
		s.SP = s.HL()
	case 0xEB: // XCHG
		s.D, s.H = s.H, s.D
		s.E, s.L = s.L, s.E

	// === I/O and interrupt enable ===
	case 0xD3: // OUT d8
		m.Output(s.Arg(1), s.A)
	case 0xDB: // IN d8
		s.A = m.Input(s.Arg(1))
	case 0xF3: // DI
		s.IntEnable = false
	case 0xFB: // EI
		s.IntEnable = true

	default:
		return false
	}
	return true
}

// alu dispatches on the operation field (bits 3-5) of an ALU opcode.
func (s *State) alu(sel uint8, value uint8) {
	switch sel & 0x07 {
	case 0:
		s.Add8(value)
	case 1:
		s.Adc8(value)
	case 2:
		s.Sub8(value)
	case 3:
		s.Sbb8(value)
	case 4:
		s.And8(value)
	case 5:
		s.Xor8(value)
	case 6:
		s.Or8(value)
	default:
		s.Cmp8(value)
	}
}

// condition evaluates the condition field (bits 3-5) of a Jcc/Ccc/Rcc opcode:
// NZ, Z, NC, C, PO, PE, P, M.
func (s *State) condition(cc uint8) bool {
	switch cc & 0x07 {
	case 0:
		return !s.CC.Z
	case 1:
		return s.CC.Z
	case 2:
		return !s.CC.CY
	case 3:
		return s.CC.CY
	case 4:
		return !s.CC.P
	case 5:
		return s.CC.P
	case 6:
		return !s.CC.S
	}
	return s.CC.S
}

// pair reads register pair rp (bits 0-1): BC, DE, HL, SP.
func (s *State) pair(rp uint8) uint16 {
	switch rp & 0x03 {
	case 0:
		return s.BC()
	case 1:
		return s.DE()
	case 2:
		return s.HL()
	}
	return s.SP
}

// setPair writes register pair rp, split across its two halves.
func (s *State) setPair(rp uint8, v uint16) {
	switch rp & 0x03 {
	case 0:
		s.SetBC(v)
	case 1:
		s.SetDE(v)
	case 2:
		s.SetHL(v)
	default:
		s.SP = v
	}
}
