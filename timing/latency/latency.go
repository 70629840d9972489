// Package latency provides instruction timing models for cycle-accurate simulation.
//
// The latency values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/tomasim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given opcode.
func (t *Table) GetLatency(op insts.Op) uint64 {
	switch op {
	case insts.OpADD:
		return t.config.AddLatency
	case insts.OpSUB:
		return t.config.SubLatency
	case insts.OpMUL:
		return t.config.MulLatency
	case insts.OpDIV:
		return t.config.DivLatency
	case insts.OpLOAD:
		return t.config.LoadLatency
	case insts.OpSTORE:
		return t.config.StoreLatency
	default:
		return 1
	}
}

// GetInstructionLatency returns the execution latency for the given instruction.
func (t *Table) GetInstructionLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}
	return t.GetLatency(inst.Op)
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
