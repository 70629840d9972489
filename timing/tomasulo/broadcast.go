package tomasulo

import (
	"context"
	"log/slog"
)

// Broadcast is one result published on the common data bus.
type Broadcast struct {
	Tag         Tag
	Value       Value
	Instruction int

	// Registers is the number of registers that took the value. It is zero
	// when every destination was renamed to a newer producer.
	Registers int
}

// Release records a slot freed in the writeback phase.
type Release struct {
	Tag         Tag
	Instruction int
}

// WritebackResult lists what one writeback phase did.
type WritebackResult struct {
	Broadcasts []Broadcast
	Releases   []Release
}

// WritebackArbiter retires every slot that finished executing. Completed
// slots are handled in a fixed order: loads, then the add/sub pool, then the
// multiply/divide pool, then stores, each in slot order.
//
// Each broadcast rescans every slot of the machine for the tag. The pools
// are small, so the quadratic scan is kept for simplicity.
type WritebackArbiter struct {
	logger *slog.Logger
}

// NewWritebackArbiter creates an arbiter that traces to logger.
func NewWritebackArbiter(logger *slog.Logger) *WritebackArbiter {
	return &WritebackArbiter{logger: logger}
}

// Writeback runs the writeback phase of the current cycle on m.
func (a *WritebackArbiter) Writeback(m *Machine) WritebackResult {
	var result WritebackResult

	for _, st := range m.stations() {
		for i := range st.slots {
			if !st.IsComplete(i) {
				continue
			}

			tag := st.Tag(i)
			instr := st.slots[i].Instruction

			if value, ok := st.Result(i); ok {
				b := a.broadcast(m, tag, value, instr)
				result.Broadcasts = append(result.Broadcasts, b)
			}

			st.Release(i)
			result.Releases = append(result.Releases, Release{Tag: tag, Instruction: instr})
			a.trace("Release", "Cycle", m.Cycle, "Slot", tag.String(), "Inst", instr)
		}
	}

	return result
}

func (a *WritebackArbiter) broadcast(m *Machine, tag Tag, value Value, instr int) Broadcast {
	b := Broadcast{Tag: tag, Value: value, Instruction: instr}
	b.Registers = m.Registers.Resolve(tag, value)

	a.trace("Broadcast",
		"Cycle", m.Cycle,
		"Slot", tag.String(),
		"Value", string(value),
		"Inst", instr,
		"Registers", b.Registers,
	)

	for _, st := range m.stations() {
		for _, i := range st.Resolve(tag, value, m.Cycle) {
			slot := &st.slots[i]
			wb := m.Cycle + int(slot.Remaining) + 1
			m.Entries[slot.Instruction].Writeback = wb

			a.trace("Armed",
				"Cycle", m.Cycle,
				"Slot", st.Tag(i).String(),
				"Inst", slot.Instruction,
				"Writeback", wb,
			)
		}
	}

	return b
}

func (a *WritebackArbiter) trace(msg string, args ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Log(context.Background(), LevelTrace, msg, args...)
}
