package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// TextRenderer writes the compact per-cycle listing:
//
//	Cycle_3
//	Load1: Yes, 34+R2;
//	Store1: No;
//	Add1: Yes, SUB, Load1, F2;
//	F0: Mult1; F1: F1; ...
type TextRenderer struct {
	w   io.Writer
	err error
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// Observe writes the state of one cycle.
func (r *TextRenderer) Observe(s tomasulo.Snapshot) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, FormatText(s))
}

// Err returns the first write error.
func (r *TextRenderer) Err() error {
	return r.err
}

// FormatText renders one snapshot in the compact listing format.
func FormatText(s tomasulo.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cycle_%d\n", s.Cycle)

	for _, st := range s.Stations {
		for _, slot := range st.Slots {
			b.WriteString(slot.Name)
			if !slot.Busy {
				b.WriteString(": No;\n")
				continue
			}

			b.WriteString(": Yes")
			for _, field := range slotFields(st.Kind, slot) {
				b.WriteString(", ")
				b.WriteString(field)
			}
			b.WriteString(";\n")
		}
	}

	for _, reg := range s.Registers {
		fmt.Fprintf(&b, "%s: %s; ", reg.Name, register(reg))
	}
	b.WriteString("\n\n")

	return b.String()
}

func slotFields(kind string, slot tomasulo.SlotView) []string {
	switch kind {
	case tomasulo.StationLoad.String():
		return []string{slot.Address}
	case tomasulo.StationStore.String():
		// Only a pending producer is listed; a captured value shows as NULL.
		value := "NULL"
		if len(slot.Operands) == 1 && slot.Operands[0].Producer != "" {
			value = slot.Operands[0].Producer
		}
		return []string{slot.Address, value}
	default:
		fields := []string{slot.Op}
		for _, o := range slot.Operands {
			fields = append(fields, operand(o))
		}
		return fields
	}
}
