package tomasulo

import (
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

// Entry is the timing record of one instruction of the program.
type Entry struct {
	Inst insts.Instruction

	// Issue is the cycle the instruction entered a slot, or NotYet.
	Issue int

	// Writeback is the cycle the instruction's slot is retired, or NotYet
	// while an operand is still pending.
	Writeback int
}

// Issued returns true once the instruction has been placed in a slot.
func (e Entry) Issued() bool {
	return e.Issue != NotYet
}

// Determined returns true once the writeback cycle is known.
func (e Entry) Determined() bool {
	return e.Writeback != NotYet
}

// Machine is the complete state of the simulated processor. It is owned and
// mutated by a Scheduler only.
type Machine struct {
	Cycle int
	PC    int

	Entries   []Entry
	Registers *RegisterFile

	AddSub *FunctionalUnitPool
	MulDiv *FunctionalUnitPool
	Loads  *LoadQueue
	Stores *StoreQueue

	config StationConfig
}

// NewMachine creates an idle machine at cycle 0 for the given program.
func NewMachine(program []insts.Instruction, config StationConfig, table *latency.Table) *Machine {
	m := &Machine{
		Entries:   make([]Entry, len(program)),
		Registers: NewRegisterFile(config.Registers),
		AddSub:    NewFunctionalUnitPool(StationAddSub, config.AddStations, table),
		MulDiv:    NewFunctionalUnitPool(StationMulDiv, config.MulStations, table),
		Loads:     NewLoadQueue(config.LoadBuffers, table),
		Stores:    NewStoreQueue(config.StoreBuffers, table),
		config:    config,
	}

	for i, inst := range program {
		m.Entries[i] = Entry{Inst: inst, Issue: NotYet, Writeback: NotYet}
	}

	return m
}

// stations returns every pool and queue in writeback priority order.
func (m *Machine) stations() []*station {
	return []*station{
		&m.Loads.station,
		&m.AddSub.station,
		&m.MulDiv.station,
		&m.Stores.station,
	}
}

// poolFor returns the functional-unit pool that executes op.
func (m *Machine) poolFor(op insts.Op) *FunctionalUnitPool {
	if m.MulDiv.Accepts(op) {
		return m.MulDiv
	}
	return m.AddSub
}

// Dispatching returns true while instructions remain to be issued.
func (m *Machine) Dispatching() bool {
	return m.PC < len(m.Entries)
}

// Idle returns true if every pool and queue is empty.
func (m *Machine) Idle() bool {
	for _, st := range m.stations() {
		if !st.Idle() {
			return false
		}
	}
	return true
}

// Done returns true once every instruction has issued and every slot has
// drained.
func (m *Machine) Done() bool {
	return !m.Dispatching() && m.Idle()
}

// BusyCount returns the number of occupied slots of the given kind.
func (m *Machine) BusyCount(kind StationKind) int {
	for _, st := range m.stations() {
		if st.kind == kind {
			return st.BusyCount()
		}
	}
	return 0
}
