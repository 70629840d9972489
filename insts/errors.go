package insts

import "fmt"

// ParseError reports a malformed instruction: a wrong field count, an unknown
// mnemonic or an operand that is not a register where one is required.
type ParseError struct {
	// Line is the 1-based source line, or 0 when the caller has no line
	// information.
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Text)
}

// InvalidOperandError reports a register reference outside the register file.
type InvalidOperandError struct {
	Operand string
	Index   int
	Limit   int
}

func (e *InvalidOperandError) Error() string {
	return fmt.Sprintf("register %s out of range: index %d, have %d registers",
		e.Operand, e.Index, e.Limit)
}
