// Package loader reads floating-point instruction programs from text files.
//
// A program file holds one instruction per line, `OP DEST SRC1 SRC2`.
// Blank lines are skipped, and everything after a `#` or `;` is a comment.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/tomasim/insts"
)

// Program represents a loaded instruction program ready for scheduling.
type Program struct {
	// Path is the file the program was read from. It is empty for programs
	// parsed from a reader.
	Path string
	// Instructions are the decoded instructions in program order.
	Instructions []insts.Instruction
	// Lines holds the 1-based source line of each instruction.
	Lines []int
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.Instructions)
}

// Load reads the program file at path. Register operands are checked
// against a register file of numRegs registers.
func Load(path string, numRegs int) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f, numRegs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Parse reads a program from r. The first malformed line stops parsing.
func Parse(r io.Reader, numRegs int) (*Program, error) {
	decoder := insts.NewDecoder(numRegs)
	prog := &Program{}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := stripComment(scanner.Text())
		if strings.TrimSpace(text) == "" {
			continue
		}

		inst, err := decoder.Decode(text)
		if err != nil {
			return nil, atLine(err, line)
		}

		prog.Instructions = append(prog.Instructions, *inst)
		prog.Lines = append(prog.Lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	return prog, nil
}

func stripComment(text string) string {
	if i := strings.IndexAny(text, "#;"); i >= 0 {
		return text[:i]
	}
	return text
}

func atLine(err error, line int) error {
	var parseErr *insts.ParseError
	if errors.As(err, &parseErr) {
		parseErr.Line = line
		return parseErr
	}
	return fmt.Errorf("line %d: %w", line, err)
}
