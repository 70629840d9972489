package tomasulo

import (
	"fmt"

	"github.com/sarchlab/tomasim/insts"
)

// StationConfig holds the capacities of the reservation stations and
// buffers, and the size of the register file.
type StationConfig struct {
	// AddStations is the number of add/sub reservation stations. Default: 3.
	AddStations int `json:"add_stations"`

	// MulStations is the number of multiply/divide reservation stations.
	// Default: 2.
	MulStations int `json:"mul_stations"`

	// LoadBuffers is the number of load buffer entries. Default: 3.
	LoadBuffers int `json:"load_buffers"`

	// StoreBuffers is the number of store buffer entries. Default: 3.
	StoreBuffers int `json:"store_buffers"`

	// Registers is the number of floating-point registers. Default: 32.
	Registers int `json:"registers"`
}

// DefaultStationConfig returns the textbook machine configuration.
func DefaultStationConfig() StationConfig {
	return StationConfig{
		AddStations:  3,
		MulStations:  2,
		LoadBuffers:  3,
		StoreBuffers: 3,
		Registers:    insts.DefaultNumRegisters,
	}
}

// Validate checks that every capacity is usable.
func (c StationConfig) Validate() error {
	if c.AddStations <= 0 {
		return fmt.Errorf("add_stations must be > 0")
	}
	if c.MulStations <= 0 {
		return fmt.Errorf("mul_stations must be > 0")
	}
	if c.LoadBuffers <= 0 {
		return fmt.Errorf("load_buffers must be > 0")
	}
	if c.StoreBuffers <= 0 {
		return fmt.Errorf("store_buffers must be > 0")
	}
	if c.Registers <= 0 || c.Registers > insts.MaxRegisters {
		return fmt.Errorf("registers must be in [1, %d]", insts.MaxRegisters)
	}
	return nil
}

// Capacity returns the number of slots of the given station kind.
func (c StationConfig) Capacity(kind StationKind) int {
	switch kind {
	case StationLoad:
		return c.LoadBuffers
	case StationAddSub:
		return c.AddStations
	case StationMulDiv:
		return c.MulStations
	case StationStore:
		return c.StoreBuffers
	default:
		return 0
	}
}
