package tomasulo

import (
	"fmt"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

// station is the slot array shared by functional-unit pools and memory
// queues.
type station struct {
	kind    StationKind
	slots   []Slot
	latency *latency.Table
	seq     uint64
}

func newStation(kind StationKind, n int, table *latency.Table) station {
	s := station{
		kind:    kind,
		slots:   make([]Slot, n),
		latency: table,
	}
	for i := range s.slots {
		s.slots[i] = freeSlot()
	}
	return s
}

// Kind returns the station kind.
func (s *station) Kind() StationKind {
	return s.kind
}

// Capacity returns the number of slots.
func (s *station) Capacity() int {
	return len(s.slots)
}

// FindFree returns the lowest free slot, or false on a structural hazard.
func (s *station) FindFree() (int, bool) {
	for i := range s.slots {
		if !s.slots[i].Busy {
			return i, true
		}
	}
	return 0, false
}

// BusyCount returns the number of occupied slots.
func (s *station) BusyCount() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].Busy {
			n++
		}
	}
	return n
}

// Idle returns true if no slot is occupied.
func (s *station) Idle() bool {
	return s.BusyCount() == 0
}

// Slot returns a copy of slot i.
func (s *station) Slot(i int) Slot {
	return s.slots[i].clone()
}

// Slots returns a copy of every slot.
func (s *station) Slots() []Slot {
	slots := make([]Slot, len(s.slots))
	for i := range s.slots {
		slots[i] = s.slots[i].clone()
	}
	return slots
}

// Tag returns the producer tag of the current occupant of slot i.
func (s *station) Tag(i int) Tag {
	return Tag{Station: s.kind, Index: i, Seq: s.slots[i].Seq}
}

// Tick advances the countdown of every armed slot. Slots armed in this cycle
// start counting in the next one.
func (s *station) Tick(cycle int) {
	for i := range s.slots {
		slot := &s.slots[i]
		if !slot.Busy || slot.Remaining == Unbounded || slot.Remaining == 0 {
			continue
		}
		if slot.ArmedAt >= cycle {
			continue
		}
		slot.Remaining--
	}
}

// IsComplete returns true if slot i finished executing and waits for
// writeback.
func (s *station) IsComplete(i int) bool {
	return s.slots[i].Busy && s.slots[i].Remaining == 0
}

// Result returns the symbolic value produced by slot i. Store slots produce
// nothing.
func (s *station) Result(i int) (Value, bool) {
	return s.slots[i].result()
}

// Release frees slot i. The tag of the previous occupant becomes invalid.
func (s *station) Release(i int) {
	seq := s.slots[i].Seq
	s.slots[i] = freeSlot()
	s.slots[i].Seq = seq
}

// Resolve captures v in every operand waiting for t. Slots whose last
// operand resolves are armed in this cycle; their indices are returned.
func (s *station) Resolve(t Tag, v Value, cycle int) []int {
	var armed []int
	for i := range s.slots {
		slot := &s.slots[i]
		if !slot.Busy || !slot.capture(t, v) {
			continue
		}
		if slot.Remaining == Unbounded && slot.Ready() {
			s.arm(i, cycle)
			armed = append(armed, i)
		}
	}
	return armed
}

// Latency returns the configured latency of op.
func (s *station) Latency(op insts.Op) uint64 {
	return s.latency.GetLatency(op)
}

func (s *station) occupy(i int, op insts.Op, instr int, payload Payload, cycle int) Tag {
	if s.slots[i].Busy {
		panic(fmt.Sprintf("%s%d is busy", s.kind, i+1))
	}

	s.seq++
	s.slots[i] = Slot{
		Busy:        true,
		Op:          op,
		Remaining:   Unbounded,
		Instruction: instr,
		ArmedAt:     NotYet,
		Seq:         s.seq,
		Payload:     payload,
	}

	if s.slots[i].Ready() {
		s.arm(i, cycle)
	}

	return s.Tag(i)
}

func (s *station) arm(i int, cycle int) {
	slot := &s.slots[i]
	slot.Remaining = s.latency.GetLatency(slot.Op)
	slot.ArmedAt = cycle
}

// FunctionalUnitPool is a reservation station serving arithmetic operations:
// either the add/sub pool or the multiply/divide pool.
type FunctionalUnitPool struct {
	station
}

// NewFunctionalUnitPool creates a pool of n slots. kind must be
// StationAddSub or StationMulDiv.
func NewFunctionalUnitPool(kind StationKind, n int, table *latency.Table) *FunctionalUnitPool {
	if kind != StationAddSub && kind != StationMulDiv {
		panic(fmt.Sprintf("%s is not a functional unit pool", kind))
	}
	return &FunctionalUnitPool{station: newStation(kind, n, table)}
}

// Accepts returns true if the pool executes op.
func (p *FunctionalUnitPool) Accepts(op insts.Op) bool {
	switch p.kind {
	case StationAddSub:
		return op == insts.OpADD || op == insts.OpSUB
	case StationMulDiv:
		return op == insts.OpMUL || op == insts.OpDIV
	default:
		return false
	}
}

// Issue places op into the lowest free slot. Operands are captured as
// given: resolved values are stored, pending ones keep their producer tag.
// The countdown starts at the op latency once both operands are resolved.
// It returns false on a structural hazard.
func (p *FunctionalUnitPool) Issue(op insts.Op, a, b Operand, instr int, cycle int) (Tag, bool) {
	if !p.Accepts(op) {
		panic(fmt.Sprintf("%s pool cannot execute %s", p.kind, op))
	}

	i, ok := p.FindFree()
	if !ok {
		return Tag{}, false
	}

	payload := &ArithmeticPayload{Operands: [2]Operand{a, b}}
	return p.occupy(i, op, instr, payload, cycle), true
}

// LoadQueue is the load buffer. Loads never wait on producers.
type LoadQueue struct {
	station
}

// NewLoadQueue creates a load buffer with n entries.
func NewLoadQueue(n int, table *latency.Table) *LoadQueue {
	return &LoadQueue{station: newStation(StationLoad, n, table)}
}

// Issue places a load of address into the lowest free entry and starts its
// countdown. It returns false on a structural hazard.
func (q *LoadQueue) Issue(address string, instr int, cycle int) (Tag, bool) {
	i, ok := q.FindFree()
	if !ok {
		return Tag{}, false
	}
	return q.occupy(i, insts.OpLOAD, instr, &LoadPayload{Address: address}, cycle), true
}

// StoreQueue is the store buffer. A store waits for its value like an
// arithmetic slot waits for operands, and broadcasts nothing.
type StoreQueue struct {
	station
}

// NewStoreQueue creates a store buffer with n entries.
func NewStoreQueue(n int, table *latency.Table) *StoreQueue {
	return &StoreQueue{station: newStation(StationStore, n, table)}
}

// Issue places a store of value to address into the lowest free entry. It
// returns false on a structural hazard.
func (q *StoreQueue) Issue(value Operand, address string, instr int, cycle int) (Tag, bool) {
	i, ok := q.FindFree()
	if !ok {
		return Tag{}, false
	}
	payload := &StorePayload{Value: value, Address: address}
	return q.occupy(i, insts.OpSTORE, instr, payload, cycle), true
}
