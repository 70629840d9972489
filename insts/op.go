package insts

import "fmt"

// Op represents a floating-point opcode.
type Op uint8

// Floating-point opcodes.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpLOAD
	OpSTORE
)

var opNames = [...]string{
	OpUnknown: "UNKNOWN",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpMUL:     "MUL",
	OpDIV:     "DIV",
	OpLOAD:    "LOAD",
	OpSTORE:   "STORE",
}

// String returns the canonical mnemonic of the opcode.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// IsArithmetic returns true for ADD, SUB, MUL and DIV.
func (o Op) IsArithmetic() bool {
	return o >= OpADD && o <= OpDIV
}

// IsMemory returns true for LOAD and STORE.
func (o Op) IsMemory() bool {
	return o == OpLOAD || o == OpSTORE
}

// Operator returns the infix symbol used when rendering a symbolic result.
func (o Op) Operator() string {
	switch o {
	case OpADD:
		return "+"
	case OpSUB:
		return "-"
	case OpMUL:
		return "*"
	case OpDIV:
		return "/"
	default:
		return ""
	}
}

// Reg is the index of a floating-point register.
type Reg uint8

// String returns the register name, e.g. F6.
func (r Reg) String() string {
	return fmt.Sprintf("F%d", uint8(r))
}

// Instruction represents a decoded instruction.
type Instruction struct {
	Op Op // Operation code

	// Rd is the destination register. For STORE it names the register whose
	// value is written to memory.
	Rd Reg
	Rn Reg // First source register (arithmetic only)
	Rm Reg // Second source register (arithmetic only)

	// Address is the effective memory address (LOAD/STORE only). It is
	// computed at decode time, so memory operations never wait on a register.
	Address string

	// Text is the source line the instruction was decoded from.
	Text string
}

// String renders the instruction in a normalized form.
func (i Instruction) String() string {
	switch {
	case i.Op.IsArithmetic():
		return fmt.Sprintf("%s %s, %s, %s", i.Op, i.Rd, i.Rn, i.Rm)
	case i.Op.IsMemory():
		return fmt.Sprintf("%s %s, %s", i.Op, i.Rd, i.Address)
	default:
		return i.Text
	}
}
