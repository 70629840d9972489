package tomasulo

import (
	"math"

	"github.com/sarchlab/tomasim/insts"
)

// Unbounded is the countdown of a slot that still waits for an operand.
const Unbounded = math.MaxUint64

// NotYet marks a cycle stamp that has not been determined.
const NotYet = -1

// Payload is the variant-specific part of a slot. It is one of
// *ArithmeticPayload, *LoadPayload or *StorePayload.
type Payload interface {
	isPayload()
}

// ArithmeticPayload holds the two source operands of an ADD, SUB, MUL or DIV.
type ArithmeticPayload struct {
	Operands [2]Operand
}

// LoadPayload holds the address of a load. Addresses are known at issue.
type LoadPayload struct {
	Address string
}

// StorePayload holds the value to store, which may still be pending, and the
// destination address.
type StorePayload struct {
	Value   Operand
	Address string
}

func (*ArithmeticPayload) isPayload() {}
func (*LoadPayload) isPayload()       {}
func (*StorePayload) isPayload()      {}

// Slot is one entry of a reservation station, load buffer or store buffer.
type Slot struct {
	Busy bool
	Op   insts.Op

	// Remaining is the number of execute cycles left. It stays Unbounded
	// until every operand is resolved.
	Remaining uint64

	// Instruction is the program index of the instruction the slot serves.
	Instruction int

	// ArmedAt is the cycle in which the countdown was started. The countdown
	// first moves in the following cycle.
	ArmedAt int

	// Seq numbers the occupancies of this slot.
	Seq uint64

	Payload Payload
}

func freeSlot() Slot {
	return Slot{
		Remaining:   Unbounded,
		Instruction: NotYet,
		ArmedAt:     NotYet,
	}
}

// Ready returns true if every operand of the slot is resolved.
func (s Slot) Ready() bool {
	switch p := s.Payload.(type) {
	case *ArithmeticPayload:
		return p.Operands[0].Ready() && p.Operands[1].Ready()
	case *LoadPayload:
		return true
	case *StorePayload:
		return p.Value.Ready()
	default:
		return false
	}
}

// Armed returns true once the countdown has started.
func (s Slot) Armed() bool {
	return s.Busy && s.Remaining != Unbounded
}

// Operands returns the register-sourced operands of the slot.
func (s Slot) Operands() []Operand {
	switch p := s.Payload.(type) {
	case *ArithmeticPayload:
		return []Operand{p.Operands[0], p.Operands[1]}
	case *StorePayload:
		return []Operand{p.Value}
	default:
		return nil
	}
}

// Address returns the memory address of a load or store slot.
func (s Slot) Address() string {
	switch p := s.Payload.(type) {
	case *LoadPayload:
		return p.Address
	case *StorePayload:
		return p.Address
	default:
		return ""
	}
}

// capture resolves every operand waiting for t. It returns true if any
// operand changed.
func (s *Slot) capture(t Tag, v Value) bool {
	switch p := s.Payload.(type) {
	case *ArithmeticPayload:
		first := p.Operands[0].capture(t, v)
		second := p.Operands[1].capture(t, v)
		return first || second
	case *StorePayload:
		return p.Value.capture(t, v)
	default:
		return false
	}
}

// result computes the symbolic value the slot broadcasts. Stores produce no
// value.
func (s *Slot) result() (Value, bool) {
	switch p := s.Payload.(type) {
	case *ArithmeticPayload:
		return Combine(s.Op, p.Operands[0].Value, p.Operands[1].Value), true
	case *LoadPayload:
		return MemoryValue(p.Address), true
	default:
		return "", false
	}
}

func (s Slot) clone() Slot {
	switch p := s.Payload.(type) {
	case *ArithmeticPayload:
		c := *p
		s.Payload = &c
	case *LoadPayload:
		c := *p
		s.Payload = &c
	case *StorePayload:
		c := *p
		s.Payload = &c
	}
	return s
}
