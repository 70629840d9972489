package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// registersPerRow is the number of registers shown per table row.
const registersPerRow = 8

// TableRenderer writes every cycle as three tables: instruction status,
// reservation stations and register status.
type TableRenderer struct {
	w   io.Writer
	err error
}

// NewTableRenderer creates a renderer writing to w.
func NewTableRenderer(w io.Writer) *TableRenderer {
	return &TableRenderer{w: w}
}

// Observe writes the state of one cycle.
func (r *TableRenderer) Observe(s tomasulo.Snapshot) {
	if r.err != nil {
		return
	}

	out := []string{
		fmt.Sprintf("==============Cycle %d==============", s.Cycle),
		EntryTable(s),
		StationTable(s),
		RegisterTable(s),
		"",
	}

	_, r.err = io.WriteString(r.w, strings.Join(out, "\n\n"))
}

// Err returns the first write error.
func (r *TableRenderer) Err() error {
	return r.err
}

// EntryTable renders the instruction status of a snapshot. An instruction
// finishes executing in the cycle before its writeback.
func EntryTable(s tomasulo.Snapshot) string {
	t := table.NewWriter()
	t.SetTitle("Instruction Status")
	t.AppendHeader(table.Row{"#", "Instruction", "Issue", "Exec Done", "Writeback"})

	for i, e := range s.Entries {
		done := tomasulo.NotYet
		if e.Writeback != tomasulo.NotYet {
			done = e.Writeback - 1
		}
		t.AppendRow(table.Row{i, e.Text, stamp(e.Issue), stamp(done), stamp(e.Writeback)})
	}

	return t.Render()
}

// StationTable renders every load buffer, store buffer and reservation
// station slot.
func StationTable(s tomasulo.Snapshot) string {
	t := table.NewWriter()
	t.SetTitle("Reservation Stations")
	t.AppendHeader(table.Row{"Name", "Busy", "Op", "Source 1", "Source 2", "Address", "Remaining"})

	for _, st := range s.Stations {
		for _, slot := range st.Slots {
			if !slot.Busy {
				t.AppendRow(table.Row{slot.Name, "No", "", "", "", "", ""})
				continue
			}

			sources := []string{"", ""}
			for i, o := range slot.Operands {
				sources[i] = operand(o)
			}

			t.AppendRow(table.Row{
				slot.Name, "Yes", slot.Op,
				sources[0], sources[1], slot.Address,
				stamp(slot.Remaining),
			})
		}
		t.AppendSeparator()
	}

	return t.Render()
}

// RegisterTable renders the register status in rows of eight.
func RegisterTable(s tomasulo.Snapshot) string {
	t := table.NewWriter()
	t.SetTitle("Registers")

	header := table.Row{"Row"}
	for i := 0; i < registersPerRow; i++ {
		header = append(header, fmt.Sprintf("+%d", i))
	}
	t.AppendHeader(header)

	for start := 0; start < len(s.Registers); start += registersPerRow {
		row := table.Row{s.Registers[start].Name}
		for i := start; i < start+registersPerRow && i < len(s.Registers); i++ {
			row = append(row, register(s.Registers[i]))
		}
		t.AppendRow(row)
	}

	return t.Render()
}

// WriteSummary writes the final instruction status and the run statistics.
func WriteSummary(w io.Writer, s tomasulo.Snapshot, stats tomasulo.Statistics) error {
	t := table.NewWriter()
	t.SetTitle("Statistics")
	t.AppendRows([]table.Row{
		{"Cycles", stats.Cycles},
		{"Instructions", stats.Instructions},
		{"Broadcasts", stats.Broadcasts},
		{"Renames", stats.Renames},
		{"Structural stalls", stats.Stalls},
		{"  load buffer", stats.LoadStalls},
		{"  store buffer", stats.StoreStalls},
		{"  add/sub stations", stats.AddStalls},
		{"  mul/div stations", stats.MulStalls},
		{"IPC", fmt.Sprintf("%.3f", stats.IPC())},
	})

	_, err := fmt.Fprintf(w, "%s\n\n%s\n", EntryTable(s), t.Render())
	return err
}
