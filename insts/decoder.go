package insts

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultNumRegisters is the size of the floating-point register file.
const DefaultNumRegisters = 32

// MaxRegisters is the largest register file a Reg can index.
const MaxRegisters = 256

var mnemonics = map[string]Op{
	"ADD":   OpADD,
	"ADDD":  OpADD,
	"ADD.D": OpADD,
	"SUB":   OpSUB,
	"SUBD":  OpSUB,
	"SUB.D": OpSUB,
	"MUL":   OpMUL,
	"MULT":  OpMUL,
	"MULTD": OpMUL,
	"MUL.D": OpMUL,
	"DIV":   OpDIV,
	"DIVD":  OpDIV,
	"DIV.D": OpDIV,
	"LOAD":  OpLOAD,
	"LD":    OpLOAD,
	"L.D":   OpLOAD,
	"STORE": OpSTORE,
	"SD":    OpSTORE,
	"S.D":   OpSTORE,
}

// displacement matches the offset(base) memory operand form, e.g. 34(R2).
var displacement = regexp.MustCompile(`^([^()\s]*)\(([^()\s]+)\)$`)

// Decoder decodes instruction text into instructions.
type Decoder struct {
	numRegs int
}

// NewDecoder creates a decoder that accepts registers F0 to F(numRegs-1).
// A non-positive count selects DefaultNumRegisters; counts above
// MaxRegisters are clamped.
func NewDecoder(numRegs int) *Decoder {
	if numRegs <= 0 {
		numRegs = DefaultNumRegisters
	}
	if numRegs > MaxRegisters {
		numRegs = MaxRegisters
	}
	return &Decoder{numRegs: numRegs}
}

// NumRegisters returns the register file size the decoder validates against.
func (d *Decoder) NumRegisters() int {
	return d.numRegs
}

// Decode decodes one instruction of the form `OP DEST SRC1 SRC2`. Commas are
// accepted as separators. Memory operations may also be written as
// `OP REG OFFSET(BASE)`.
//
// A malformed line yields a *ParseError; a register outside the register file
// yields an *InvalidOperandError.
func (d *Decoder) Decode(text string) (*Instruction, error) {
	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
	if len(fields) == 0 {
		return nil, &ParseError{Text: text, Reason: "empty instruction"}
	}

	op, ok := mnemonics[strings.ToUpper(fields[0])]
	if !ok {
		return nil, &ParseError{Text: text, Reason: "unknown mnemonic " + fields[0]}
	}

	if op.IsMemory() && len(fields) == 3 {
		m := displacement.FindStringSubmatch(fields[2])
		if m == nil {
			return nil, &ParseError{Text: text, Reason: "malformed memory operand " + fields[2]}
		}
		offset := m[1]
		if offset == "" {
			offset = "0"
		}
		fields = []string{fields[0], fields[1], offset, m[2]}
	}

	if len(fields) != 4 {
		return nil, &ParseError{Text: text, Reason: "expected 4 fields, got " + strconv.Itoa(len(fields))}
	}

	inst := &Instruction{Op: op, Text: strings.TrimSpace(text)}

	var err error
	inst.Rd, err = d.decodeReg(fields[1], text)
	if err != nil {
		return nil, err
	}

	if op.IsMemory() {
		inst.Address = EffectiveAddress(fields[2], fields[3])
		return inst, nil
	}

	inst.Rn, err = d.decodeReg(fields[2], text)
	if err != nil {
		return nil, err
	}
	inst.Rm, err = d.decodeReg(fields[3], text)
	if err != nil {
		return nil, err
	}

	return inst, nil
}

// ValidateReg checks a register index against the register file size.
func (d *Decoder) ValidateReg(r Reg) error {
	if int(r) >= d.numRegs {
		return &InvalidOperandError{Operand: r.String(), Index: int(r), Limit: d.numRegs}
	}
	return nil
}

func (d *Decoder) decodeReg(field, text string) (Reg, error) {
	name := strings.ToUpper(field)
	if len(name) < 2 || name[0] != 'F' {
		return 0, &ParseError{Text: text, Reason: "invalid register " + field}
	}

	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 {
		return 0, &ParseError{Text: text, Reason: "invalid register " + field}
	}
	if n >= d.numRegs {
		return 0, &InvalidOperandError{Operand: field, Index: n, Limit: d.numRegs}
	}

	return Reg(n), nil
}

// EffectiveAddress renders the address of a memory operand from its two
// source fields. A literal zero first field means the second field is the
// whole address.
func EffectiveAddress(first, second string) string {
	switch {
	case first == "0":
		return second
	case strings.HasSuffix(first, "+"), strings.HasPrefix(second, "+"):
		return first + second
	default:
		return first + "+" + second
	}
}
