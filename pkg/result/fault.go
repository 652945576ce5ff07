package result

import (
	"github.com/oisee/i8080/pkg/cpu"
	"github.com/oisee/i8080/pkg/inst"
)

// FaultFrom converts a CPU fault into its report form.
func FaultFrom(f *cpu.Fault) *FaultInfo {
	return &FaultInfo{
		Opcode:   f.Opcode,
		PC:       f.PC,
		Mnemonic: inst.Mnemonic(f.Opcode),
		Snapshot: f.Snapshot.String(),
	}
}
