package cpu

import (
	"testing"
)

func TestNew(t *testing.T) {
	s, err := New([]byte{0xAA, 0xBB, 0xCC}, 0x0100, 0x0101)
	if err != nil {
		t.Fatal(err)
	}
	if s.PC != 0x0101 {
		t.Errorf("PC = %04X, want 0101", s.PC)
	}
	if s.Memory[0x0100] != 0xAA || s.Memory[0x0102] != 0xCC {
		t.Errorf("image not loaded at base: %02X %02X", s.Memory[0x0100], s.Memory[0x0102])
	}
	if s.Registers != (Registers{PC: 0x0101}) || s.CC != (Flags{}) || s.IntEnable {
		t.Errorf("registers not zeroed: %s", s.Snapshot())
	}
}

func TestLoadWrapsAndRejectsOversize(t *testing.T) {
	var m Memory
	if err := m.Load(0xFFFF, []byte{0x11, 0x22}); err != nil {
		t.Fatal(err)
	}
	if m[0xFFFF] != 0x11 || m[0x0000] != 0x22 {
		t.Errorf("load did not wrap: %02X %02X", m[0xFFFF], m[0x0000])
	}
	if err := m.Load(0, make([]byte, MemorySize+1)); err == nil {
		t.Error("oversized image should fail")
	}
	if _, err := New(make([]byte, MemorySize+1), 0, 0); err == nil {
		t.Error("New with oversized image should fail")
	}
}

func TestMemoryGetSet(t *testing.T) {
	s := &State{}
	s.Memory.Set(0xFFFF, 0x5A)
	if s.Memory.Get(0xFFFF) != 0x5A || s.Memory[0xFFFF] != 0x5A {
		t.Errorf("Get(FFFF) = %02X", s.Memory.Get(0xFFFF))
	}

	// SHLD at 0xFFFF writes H to 0x0000.
	copy(s.Memory[:], []byte{0x22, 0xFF, 0xFF})
	s.SetHL(0xBEEF)
	if err := Step(s, NullMachine{}); err != nil {
		t.Fatal(err)
	}
	if s.Memory.Get(0xFFFF) != 0xEF || s.Memory.Get(0x0000) != 0xBE {
		t.Errorf("SHLD wrap: %02X %02X", s.Memory.Get(0xFFFF), s.Memory.Get(0x0000))
	}
}

func TestArgWraps(t *testing.T) {
	s := &State{}
	s.PC = 0xFFFF
	s.Memory[0xFFFF] = 0xC3
	s.Memory[0x0000] = 0x34
	s.Memory[0x0001] = 0x12
	if s.Opcode() != 0xC3 {
		t.Errorf("Opcode = %02X", s.Opcode())
	}
	if s.Arg(1) != 0x34 || s.Arg(2) != 0x12 {
		t.Errorf("Arg wrap: %02X %02X", s.Arg(1), s.Arg(2))
	}
	if s.addr16() != 0x1234 {
		t.Errorf("addr16 = %04X, want 1234", s.addr16())
	}
}

func TestOperandDecode(t *testing.T) {
	s := &State{}
	s.Registers = Registers{A: 7, B: 1, C: 2, D: 3, E: 4, H: 0x20, L: 0x10}
	s.Memory[0x2010] = 0x66
	want := [8]uint8{1, 2, 3, 4, 0x20, 0x10, 0x66, 7}
	for field := uint8(0); field < 8; field++ {
		if got := s.Operand(0x80 | field); got != want[field] {
			t.Errorf("Operand(field %d) = %02X, want %02X", field, got, want[field])
		}
	}

	s.SetOperand(6, 0x99)
	if s.Memory[0x2010] != 0x99 || s.M() != 0x99 {
		t.Errorf("SetOperand(M) wrote %02X", s.Memory[0x2010])
	}
	s.SetOperand(1, 0x55)
	if s.C != 0x55 || s.B != 1 {
		t.Errorf("SetOperand(C) touched B: B=%02X C=%02X", s.B, s.C)
	}
}

func TestRegisterPairs(t *testing.T) {
	s := &State{}
	s.SetBC(0x1234)
	s.SetDE(0x5678)
	s.SetHL(0x9ABC)
	if s.B != 0x12 || s.C != 0x34 || s.D != 0x56 || s.E != 0x78 || s.H != 0x9A || s.L != 0xBC {
		t.Errorf("pair halves wrong: %s", s.Snapshot())
	}
	if s.BC() != 0x1234 || s.DE() != 0x5678 || s.HL() != 0x9ABC {
		t.Errorf("pairs: BC=%04X DE=%04X HL=%04X", s.BC(), s.DE(), s.HL())
	}
}

// TestStackDiscipline checks push/pop symmetry across SP values, including wrap.
func TestStackDiscipline(t *testing.T) {
	for _, sp := range []uint16{0x0000, 0x0001, 0x2400, 0xFFFF} {
		s := &State{}
		s.SP = sp
		s.Push8(0xA5)
		if s.SP != sp-1 {
			t.Errorf("Push8 at %04X: SP=%04X", sp, s.SP)
		}
		if s.Memory[sp-1] != 0xA5 {
			t.Errorf("Push8 at %04X wrote %02X", sp, s.Memory[sp-1])
		}
		if got := s.Pop8(); got != 0xA5 {
			t.Errorf("Pop8 at %04X = %02X", sp, got)
		}
		if s.SP != sp {
			t.Errorf("Pop8 at %04X left SP=%04X", sp, s.SP)
		}

		s.Push16(0xBEEF)
		if s.Memory[sp-1] != 0xBE || s.Memory[sp-2] != 0xEF {
			t.Errorf("Push16 order at %04X: %02X %02X", sp, s.Memory[sp-1], s.Memory[sp-2])
		}
		if got := s.Pop16(); got != 0xBEEF || s.SP != sp {
			t.Errorf("Pop16 at %04X = %04X SP=%04X", sp, got, s.SP)
		}
	}
}

func TestAdvance(t *testing.T) {
	s := &State{}
	s.PC = 0x0100
	s.advance(0x00)
	if s.PC != 0x0101 {
		t.Errorf("advance NOP: PC=%04X", s.PC)
	}
	s.advance(0x3E)
	if s.PC != 0x0103 {
		t.Errorf("advance MVI: PC=%04X", s.PC)
	}
	s.advance(0xC3)
	if s.PC != 0x0106 {
		t.Errorf("advance JMP: PC=%04X", s.PC)
	}
	s.jump(0x4000)
	s.advance(0xC3)
	if s.PC != 0x4000 {
		t.Errorf("advance after branch moved PC to %04X", s.PC)
	}
	s.advance(0x00)
	if s.PC != 0x4001 {
		t.Errorf("branch mark not cleared: PC=%04X", s.PC)
	}
}

func TestSnapshotString(t *testing.T) {
	sn := Snapshot{
		Registers: Registers{A: 0x3E, SP: 0x2400, PC: 0x0010},
		CC:        Flags{Z: true, CY: true},
	}
	want := "A=3E B=00 C=00 D=00 E=00 H=00 L=00 SP=2400 PC=0010 flags=.Z..C int=false"
	if got := sn.String(); got != want {
		t.Errorf("String() = %q\nwant       %q", got, want)
	}
}
