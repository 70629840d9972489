package tomasulo

import (
	"github.com/sarchlab/tomasim/insts"
)

// RegisterStatus is the state of one architectural register: its current
// value, and the slot that will overwrite it if a write is in flight.
type RegisterStatus struct {
	Value    Value
	Producer MaybeTag
}

// RegisterFile tracks the value-or-producer status of every floating-point
// register. Each register has at most one live producer; issuing a new writer
// replaces the previous tag, which is how renaming removes WAW and WAR hazards.
type RegisterFile struct {
	regs []RegisterStatus
}

// NewRegisterFile creates a register file of n registers. Register Fi starts
// out holding the symbol Fi.
func NewRegisterFile(n int) *RegisterFile {
	rf := &RegisterFile{regs: make([]RegisterStatus, n)}
	for i := range rf.regs {
		rf.regs[i].Value = Value(insts.Reg(i).String())
	}
	return rf
}

// Len returns the number of registers.
func (rf *RegisterFile) Len() int {
	return len(rf.regs)
}

// Status returns the status of register r.
func (rf *RegisterFile) Status(r insts.Reg) (RegisterStatus, error) {
	if err := rf.check(r); err != nil {
		return RegisterStatus{}, err
	}
	return rf.regs[r], nil
}

// Read captures register r as an operand: the producer tag if a write is in
// flight, the value otherwise.
func (rf *RegisterFile) Read(r insts.Reg) (Operand, error) {
	if err := rf.check(r); err != nil {
		return Operand{}, err
	}
	return rf.read(r), nil
}

// SetProducer makes t the producer of register r, replacing any earlier tag.
func (rf *RegisterFile) SetProducer(r insts.Reg, t Tag) error {
	if err := rf.check(r); err != nil {
		return err
	}
	rf.regs[r].Producer = Some(t)
	return nil
}

// Resolve writes v into every register still waiting for t and clears the
// tag. It returns the number of registers updated. A register renamed to a
// newer producer is left untouched.
func (rf *RegisterFile) Resolve(t Tag, v Value) int {
	n := 0
	for i := range rf.regs {
		if rf.regs[i].Producer.Is(t) {
			rf.regs[i].Value = v
			rf.regs[i].Producer = None()
			n++
		}
	}
	return n
}

// Pending returns the registers that are waiting for a producer.
func (rf *RegisterFile) Pending() []insts.Reg {
	var pending []insts.Reg
	for i := range rf.regs {
		if rf.regs[i].Producer.IsSome() {
			pending = append(pending, insts.Reg(i))
		}
	}
	return pending
}

func (rf *RegisterFile) read(r insts.Reg) Operand {
	status := rf.regs[r]
	if t, ok := status.Producer.Get(); ok {
		return Pending(t)
	}
	return Resolved(status.Value)
}

func (rf *RegisterFile) check(r insts.Reg) error {
	if int(r) >= len(rf.regs) {
		return &insts.InvalidOperandError{
			Operand: r.String(),
			Index:   int(r),
			Limit:   len(rf.regs),
		}
	}
	return nil
}
