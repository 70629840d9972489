package tomasulo

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies the consistency of the machine state. It returns
// every violation found, joined.
func (s *Scheduler) CheckInvariants() error {
	return s.machine.check()
}

func (m *Machine) check() error {
	var errs []error

	for _, st := range m.stations() {
		errs = append(errs, m.checkStation(st)...)
	}

	for i, r := range m.Registers.regs {
		t, ok := r.Producer.Get()
		if !ok {
			continue
		}
		if !m.live(t) {
			errs = append(errs, fmt.Errorf("F%d waits for stale tag %s (seq %d)", i, t, t.Seq))
		}
		if t.Station == StationStore {
			errs = append(errs, fmt.Errorf("F%d is produced by store slot %s", i, t))
		}
	}

	errs = append(errs, m.checkEntries()...)

	return errors.Join(errs...)
}

func (m *Machine) checkStation(st *station) []error {
	var errs []error

	if n, limit := len(st.slots), m.config.Capacity(st.kind); n != limit {
		errs = append(errs, fmt.Errorf("%s has %d slots, capacity %d", st.kind, n, limit))
	}

	for i := range st.slots {
		slot := &st.slots[i]
		name := Tag{Station: st.kind, Index: i}.String()

		if !slot.Busy {
			if slot.Remaining != Unbounded || slot.Instruction != NotYet || slot.Payload != nil {
				errs = append(errs, fmt.Errorf("%s is free but not cleared", name))
			}
			continue
		}

		if slot.Ready() != slot.Armed() {
			errs = append(errs, fmt.Errorf("%s: ready=%v but armed=%v", name, slot.Ready(), slot.Armed()))
		}

		if slot.Armed() && slot.Remaining > st.Latency(slot.Op) {
			errs = append(errs, fmt.Errorf("%s: countdown %d exceeds latency %d",
				name, slot.Remaining, st.Latency(slot.Op)))
		}

		if slot.Instruction < 0 || slot.Instruction >= m.PC {
			errs = append(errs, fmt.Errorf("%s serves unissued instruction %d", name, slot.Instruction))
		}

		for _, o := range slot.Operands() {
			if t, ok := o.Producer.Get(); ok && !m.live(t) {
				errs = append(errs, fmt.Errorf("%s waits for stale tag %s (seq %d)", name, t, t.Seq))
			}
		}
	}

	return errs
}

func (m *Machine) checkEntries() []error {
	var errs []error

	last := 0
	for i, e := range m.Entries {
		if e.Issued() != (i < m.PC) {
			errs = append(errs, fmt.Errorf("instruction %d issue stamp %d disagrees with pc %d", i, e.Issue, m.PC))
			continue
		}
		if !e.Issued() {
			continue
		}
		if e.Issue < last {
			errs = append(errs, fmt.Errorf("instruction %d issued at %d, before its predecessor", i, e.Issue))
		}
		last = e.Issue

		if e.Determined() && e.Writeback <= e.Issue {
			errs = append(errs, fmt.Errorf("instruction %d writes back at %d, not after issue %d", i, e.Writeback, e.Issue))
		}
	}

	return errs
}

// live returns true if t names the current occupant of a busy slot.
func (m *Machine) live(t Tag) bool {
	for _, st := range m.stations() {
		if st.kind != t.Station {
			continue
		}
		if t.Index < 0 || t.Index >= len(st.slots) {
			return false
		}
		slot := &st.slots[t.Index]
		return slot.Busy && slot.Seq == t.Seq
	}
	return false
}
