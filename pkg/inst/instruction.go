package inst

// OpCode is a raw 8080 primary opcode byte. Unlike the Z80 there are no
// prefixes, so the byte value identifies the instruction completely.
type OpCode = uint8

// Opcodes referred to by name.
const (
	NOP  OpCode = 0x00
	DAA  OpCode = 0x27
	HLT  OpCode = 0x76
	JMP  OpCode = 0xC3
	RET  OpCode = 0xC9
	CALL OpCode = 0xCD
	OUT  OpCode = 0xD3
	IN   OpCode = 0xDB
)

// Immediate operand widths.
const (
	ImmNone = iota
	Imm8
	Imm16
)

// Instruction is one decoded instruction: opcode plus its raw operand.
type Instruction struct {
	Op  OpCode
	Imm uint16 // 8-bit for Size 2, little-endian 16-bit for Size 3
}

// Decode reads the instruction at addr. Operand bytes wrap past 0xFFFF;
// bytes beyond the end of a short mem read as zero.
func Decode(mem []uint8, addr uint16) Instruction {
	at := func(a uint16) uint8 {
		if int(a) < len(mem) {
			return mem[a]
		}
		return 0
	}
	in := Instruction{Op: at(addr)}
	switch ImmWidth(in.Op) {
	case Imm8:
		in.Imm = uint16(at(addr + 1))
	case Imm16:
		in.Imm = uint16(at(addr+2))<<8 | uint16(at(addr+1))
	}
	return in
}

// ImmWidth returns which kind of immediate op carries.
func ImmWidth(op OpCode) int {
	switch Size(op) {
	case 2:
		return Imm8
	case 3:
		return Imm16
	}
	return ImmNone
}
