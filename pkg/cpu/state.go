package cpu

import (
	"fmt"

	"github.com/oisee/i8080/pkg/inst"
	"github.com/oisee/i8080/pkg/word"
)

// MemorySize is the full 16-bit address space.
const MemorySize = 0x10000

// Memory is the flat 64 KiB address space. Indexing with a uint16
// address can never go out of range, so address arithmetic wraps.
type Memory [MemorySize]uint8

// Get reads the byte at addr.
func (m *Memory) Get(addr uint16) uint8 {
	return m[addr]
}

// Set writes the byte at addr.
func (m *Memory) Set(addr uint16, v uint8) {
	m[addr] = v
}

// Load copies image into memory starting at base, wrapping past 0xFFFF.
func (m *Memory) Load(base uint16, image []byte) error {
	if len(image) > MemorySize {
		return fmt.Errorf("image is %d bytes, larger than the %d byte address space", len(image), MemorySize)
	}
	for i, b := range image {
		m.Set(base+uint16(i), b)
	}
	return nil
}

// Registers is the 8080 register file. B/C, D/E and H/L are separate
// bytes; the pairs only exist when assembled for a 16-bit operation.
type Registers struct {
	A, B, C, D, E, H, L uint8
	SP, PC              uint16
}

// State is the complete CPU state: registers, flags and memory.
// A State must only be stepped by one goroutine at a time.
type State struct {
	Registers
	CC        Flags
	IntEnable bool
	Memory    Memory

	branched bool // PC already repositioned by the current instruction
}

// New returns a zeroed State with image loaded at base and PC at entry.
func New(image []byte, base, entry uint16) (*State, error) {
	s := &State{}
	if err := s.Memory.Load(base, image); err != nil {
		return nil, err
	}
	s.PC = entry
	return s, nil
}

// Opcode returns the byte at PC without advancing.
func (s *State) Opcode() uint8 {
	return s.Memory.Get(s.PC)
}

// Arg returns the byte n positions after PC.
func (s *State) Arg(n uint16) uint8 {
	return s.Memory.Get(s.PC + n)
}

// addr16 returns the little-endian 16-bit operand following the opcode.
func (s *State) addr16() uint16 {
	return word.Assemble(s.Arg(2), s.Arg(1))
}

func (s *State) BC() uint16 { return word.Assemble(s.B, s.C) }
func (s *State) DE() uint16 { return word.Assemble(s.D, s.E) }
func (s *State) HL() uint16 { return word.Assemble(s.H, s.L) }

func (s *State) SetBC(v uint16) { s.B, s.C = word.High(v), word.Low(v) }
func (s *State) SetDE(v uint16) { s.D, s.E = word.High(v), word.Low(v) }
func (s *State) SetHL(v uint16) { s.H, s.L = word.High(v), word.Low(v) }

// M reads the memory operand addressed by HL.
func (s *State) M() uint8 {
	return s.Memory.Get(s.HL())
}

// SetM writes the memory operand addressed by HL.
func (s *State) SetM(v uint8) {
	s.Memory.Set(s.HL(), v)
}

// Operand decodes the source field (bits 0-2) of an opcode:
// 0-5 = B,C,D,E,H,L; 6 = memory at HL; 7 = A.
func (s *State) Operand(opcode uint8) uint8 {
	switch opcode & 0x07 {
	case 0:
		return s.B
	case 1:
		return s.C
	case 2:
		return s.D
	case 3:
		return s.E
	case 4:
		return s.H
	case 5:
		return s.L
	case 6:
		return s.M()
	}
	return s.A
}

// SetOperand writes the register selected by a 3-bit field, same encoding
// as Operand. Used with the destination field (bits 3-5) of MOV/MVI/INR/DCR.
func (s *State) SetOperand(field uint8, v uint8) {
	switch field & 0x07 {
	case 0:
		s.B = v
	case 1:
		s.C = v
	case 2:
		s.D = v
	case 3:
		s.E = v
	case 4:
		s.H = v
	case 5:
		s.L = v
	case 6:
		s.SetM(v)
	default:
		s.A = v
	}
}

// Push8 decrements SP then writes v.
func (s *State) Push8(v uint8) {
	s.SP--
	s.Memory.Set(s.SP, v)
}

// Pop8 reads the byte at SP then increments SP.
func (s *State) Pop8() uint8 {
	v := s.Memory.Get(s.SP)
	s.SP++
	return v
}

// Push16 pushes the high byte first, so the low byte ends up at SP.
func (s *State) Push16(v uint16) {
	s.Push8(word.High(v))
	s.Push8(word.Low(v))
}

// Pop16 pops the low byte first.
func (s *State) Pop16() uint16 {
	low := s.Pop8()
	high := s.Pop8()
	return word.Assemble(high, low)
}

// JumpIf transfers control to the 16-bit operand when cond holds.
func (s *State) JumpIf(cond bool) {
	if cond {
		s.jump(s.addr16())
	}
}

// CallIf pushes the address of the next instruction and jumps when cond holds.
func (s *State) CallIf(cond bool) {
	if cond {
		target := s.addr16()
		s.Push16(s.PC + 3)
		s.jump(target)
	}
}

// RetIf pops the return address into PC when cond holds.
func (s *State) RetIf(cond bool) {
	if cond {
		s.jump(s.Pop16())
	}
}

func (s *State) jump(addr uint16) {
	s.PC = addr
	s.branched = true
}

// advance moves PC past the instruction just executed unless it branched.
func (s *State) advance(opcode uint8) {
	if s.branched {
		s.branched = false
		return
	}
	s.PC += uint16(inst.Size(opcode))
}

// Snapshot is the register/flag/pointer part of a State, without memory.
type Snapshot struct {
	Registers
	CC        Flags
	IntEnable bool
}

// Snapshot captures the current registers and flags.
func (s *State) Snapshot() Snapshot {
	return Snapshot{Registers: s.Registers, CC: s.CC, IntEnable: s.IntEnable}
}

func (sn Snapshot) String() string {
	flag := func(set bool, name string) string {
		if set {
			return name
		}
		return "."
	}
	return fmt.Sprintf("A=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X PC=%04X flags=%s%s%s%s%s int=%v",
		sn.A, sn.B, sn.C, sn.D, sn.E, sn.H, sn.L, sn.SP, sn.PC,
		flag(sn.CC.S, "S"), flag(sn.CC.Z, "Z"), flag(sn.CC.AC, "A"), flag(sn.CC.P, "P"), flag(sn.CC.CY, "C"),
		sn.IntEnable)
}
