package inst

import "fmt"

// Info holds static metadata for one primary opcode.
type Info struct {
	Mnemonic  string // Intel syntax; "d8", "d16" and "a16" mark the immediate
	Size      int    // Total length in bytes, including the immediate
	Supported bool   // False for opcodes the core faults on
}

// Catalog maps each opcode byte to its Info.
var Catalog [256]Info

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
var pairNames = [4]string{"B", "D", "H", "SP"}
var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// Size returns the byte length of the instruction starting with op.
func Size(op OpCode) int {
	return Catalog[op].Size
}

// Mnemonic returns the bare mnemonic for op, immediate placeholders included.
func Mnemonic(op OpCode) string {
	return Catalog[op].Mnemonic
}

// Supported reports whether the core executes op.
func Supported(op OpCode) bool {
	return Catalog[op].Supported
}

// Disassemble returns assembly text for an instruction.
func Disassemble(in Instruction) string {
	m := Catalog[in.Op].Mnemonic
	switch ImmWidth(in.Op) {
	case Imm16: // "d16" or "a16"
		return m[:len(m)-3] + fmt.Sprintf("$%04X", in.Imm)
	case Imm8: // "d8"
		return m[:len(m)-2] + fmt.Sprintf("$%02X", uint8(in.Imm))
	}
	return m
}

func init() {
	for op := range Catalog {
		Catalog[op] = Info{Size: 1, Supported: true}
	}

	// 0x00-0x3F: column layout repeats every 8 opcodes.
	for i := 0; i < 8; i++ {
		base := i << 3
		pair := pairNames[i>>1]
		Catalog[base|0x04].Mnemonic = "INR " + regNames[i]
		Catalog[base|0x05].Mnemonic = "DCR " + regNames[i]
		Catalog[base|0x06] = Info{"MVI " + regNames[i] + ",d8", 2, true}
		if i&1 == 0 {
			Catalog[base|0x01] = Info{"LXI " + pair + ",d16", 3, true}
			Catalog[base|0x03].Mnemonic = "INX " + pair
		} else {
			Catalog[base|0x01].Mnemonic = "DAD " + pair
			Catalog[base|0x03].Mnemonic = "DCX " + pair
		}
	}
	Catalog[NOP].Mnemonic = "NOP"
	for _, op := range []int{0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38} {
		Catalog[op].Mnemonic = "*NOP"
	}
	Catalog[0x02].Mnemonic = "STAX B"
	Catalog[0x12].Mnemonic = "STAX D"
	Catalog[0x0A].Mnemonic = "LDAX B"
	Catalog[0x1A].Mnemonic = "LDAX D"
	Catalog[0x22] = Info{"SHLD a16", 3, true}
	Catalog[0x2A] = Info{"LHLD a16", 3, true}
	Catalog[0x32] = Info{"STA a16", 3, true}
	Catalog[0x3A] = Info{"LDA a16", 3, true}
	Catalog[0x07].Mnemonic = "RLC"
	Catalog[0x0F].Mnemonic = "RRC"
	Catalog[0x17].Mnemonic = "RAL"
	Catalog[0x1F].Mnemonic = "RAR"
	Catalog[DAA] = Info{"DAA", 1, false}
	Catalog[0x2F].Mnemonic = "CMA"
	Catalog[0x37].Mnemonic = "STC"
	Catalog[0x3F].Mnemonic = "CMC"

	// 0x40-0x7F: MOV dst,src
	for op := 0x40; op < 0x80; op++ {
		Catalog[op].Mnemonic = "MOV " + regNames[(op>>3)&7] + "," + regNames[op&7]
	}
	Catalog[HLT] = Info{"HLT", 1, false}

	// 0x80-0xBF: ALU A,src
	alu := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for op := 0x80; op < 0xC0; op++ {
		Catalog[op].Mnemonic = alu[(op>>3)&7] + " " + regNames[op&7]
	}

	// 0xC0-0xFF
	aluImm := [8]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}
	for i := 0; i < 8; i++ {
		base := 0xC0 | i<<3
		Catalog[base|0x00].Mnemonic = "R" + condNames[i]
		Catalog[base|0x02] = Info{"J" + condNames[i] + " a16", 3, true}
		Catalog[base|0x04] = Info{"C" + condNames[i] + " a16", 3, true}
		Catalog[base|0x06] = Info{aluImm[i] + " d8", 2, true}
		Catalog[base|0x07] = Info{fmt.Sprintf("RST %d", i), 1, false}
	}
	Catalog[0xC1].Mnemonic = "POP B"
	Catalog[0xD1].Mnemonic = "POP D"
	Catalog[0xE1].Mnemonic = "POP H"
	Catalog[0xF1].Mnemonic = "POP PSW"
	Catalog[0xC5].Mnemonic = "PUSH B"
	Catalog[0xD5].Mnemonic = "PUSH D"
	Catalog[0xE5].Mnemonic = "PUSH H"
	Catalog[0xF5].Mnemonic = "PUSH PSW"
	Catalog[JMP] = Info{"JMP a16", 3, true}
	Catalog[0xCB] = Info{"*JMP a16", 3, true}
	Catalog[RET].Mnemonic = "RET"
	Catalog[0xD9].Mnemonic = "*RET"
	Catalog[CALL] = Info{"CALL a16", 3, true}
	for _, op := range []int{0xDD, 0xED, 0xFD} {
		Catalog[op] = Info{"*CALL a16", 3, true}
	}
	Catalog[OUT] = Info{"OUT d8", 2, true}
	Catalog[IN] = Info{"IN d8", 2, true}
	Catalog[0xE3].Mnemonic = "XTHL"
	Catalog[0xE9].Mnemonic = "PCHL"
	Catalog[0xEB].Mnemonic = "XCHG"
	Catalog[0xF3].Mnemonic = "DI"
	Catalog[0xF9].Mnemonic = "SPHL"
	Catalog[0xFB].Mnemonic = "EI"
}
