package cpu

import (
	"fmt"

	"github.com/oisee/i8080/pkg/inst"
)

// Fault is returned by Step when the opcode at PC is not implemented.
// The instruction was not executed and PC still points at it.
type Fault struct {
	Opcode   uint8
	PC       uint16
	Snapshot Snapshot
}

func (f *Fault) Error() string {
	return fmt.Sprintf("unimplemented instruction 0x%02X (%s) at 0x%04X",
		f.Opcode, inst.Mnemonic(f.Opcode), f.PC)
}

func (s *State) fault(opcode uint8) *Fault {
	return &Fault{Opcode: opcode, PC: s.PC, Snapshot: s.Snapshot()}
}
