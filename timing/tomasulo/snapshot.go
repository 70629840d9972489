package tomasulo

import "github.com/sarchlab/tomasim/insts"

// Observer receives the machine state once before the first cycle and once
// after every cycle.
type Observer interface {
	Observe(s Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(s Snapshot)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// OperandView is a source operand as displayed: either a value or the name
// of the slot it waits for.
type OperandView struct {
	Value    string `json:"value,omitempty"`
	Producer string `json:"producer,omitempty"`
}

// SlotView is the displayed state of one slot.
type SlotView struct {
	Name string `json:"name"`
	Busy bool   `json:"busy"`
	Op   string `json:"op,omitempty"`

	// Remaining is the countdown, or NotYet while the slot is free or still
	// waits for an operand.
	Remaining int `json:"remaining"`

	Instruction int           `json:"instruction"`
	Address     string        `json:"address,omitempty"`
	Operands    []OperandView `json:"operands,omitempty"`
}

// StationView is the displayed state of a pool or queue.
type StationView struct {
	Kind  string     `json:"kind"`
	Slots []SlotView `json:"slots"`
}

// RegisterView is the displayed state of one register.
type RegisterView struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Producer string `json:"producer,omitempty"`
}

// EntryView is the timing record of one instruction.
type EntryView struct {
	Text      string `json:"text"`
	Issue     int    `json:"issue"`
	Writeback int    `json:"writeback"`
}

// Snapshot is a deep copy of the machine state at the end of a cycle.
// Stations are listed as load buffer, store buffer, add/sub pool and
// multiply/divide pool.
type Snapshot struct {
	Cycle     int            `json:"cycle"`
	PC        int            `json:"pc"`
	Done      bool           `json:"done"`
	Stations  []StationView  `json:"stations"`
	Registers []RegisterView `json:"registers"`
	Entries   []EntryView    `json:"entries"`
}

// Station returns the view of the given station kind.
func (s Snapshot) Station(kind StationKind) (StationView, bool) {
	for _, st := range s.Stations {
		if st.Kind == kind.String() {
			return st, true
		}
	}
	return StationView{}, false
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		Cycle:     m.Cycle,
		PC:        m.PC,
		Done:      m.Done(),
		Registers: make([]RegisterView, len(m.Registers.regs)),
		Entries:   make([]EntryView, len(m.Entries)),
	}

	for _, st := range []*station{
		&m.Loads.station,
		&m.Stores.station,
		&m.AddSub.station,
		&m.MulDiv.station,
	} {
		snap.Stations = append(snap.Stations, st.view())
	}

	for i, r := range m.Registers.regs {
		snap.Registers[i] = RegisterView{
			Name:     insts.Reg(i).String(),
			Value:    string(r.Value),
			Producer: r.Producer.String(),
		}
	}

	for i, e := range m.Entries {
		snap.Entries[i] = EntryView{
			Text:      e.Inst.String(),
			Issue:     e.Issue,
			Writeback: e.Writeback,
		}
	}

	return snap
}

func (s *station) view() StationView {
	v := StationView{
		Kind:  s.kind.String(),
		Slots: make([]SlotView, len(s.slots)),
	}

	for i := range s.slots {
		slot := &s.slots[i]
		sv := SlotView{
			Name:        Tag{Station: s.kind, Index: i}.String(),
			Busy:        slot.Busy,
			Remaining:   NotYet,
			Instruction: slot.Instruction,
		}

		if slot.Busy {
			sv.Op = slot.Op.String()
			sv.Address = slot.Address()
			if slot.Remaining != Unbounded {
				sv.Remaining = int(slot.Remaining)
			}
			for _, o := range slot.Operands() {
				sv.Operands = append(sv.Operands, operandView(o))
			}
		}

		v.Slots[i] = sv
	}

	return v
}

func operandView(o Operand) OperandView {
	if t, ok := o.Producer.Get(); ok {
		return OperandView{Producer: t.String()}
	}
	return OperandView{Value: string(o.Value)}
}
