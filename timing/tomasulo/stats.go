package tomasulo

// Statistics holds scheduling statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions issued.
	Instructions uint64
	// Completed is the number of slots retired through writeback.
	Completed uint64
	// Broadcasts is the number of results published on the data bus.
	Broadcasts uint64
	// Renames is the number of issues that replaced a live producer tag.
	Renames uint64
	// Stalls is the number of cycles in which issue hit a structural hazard.
	Stalls uint64
	// LoadStalls is the number of stalls on a full load buffer.
	LoadStalls uint64
	// StoreStalls is the number of stalls on a full store buffer.
	StoreStalls uint64
	// AddStalls is the number of stalls on a full add/sub pool.
	AddStalls uint64
	// MulStalls is the number of stalls on a full multiply/divide pool.
	MulStalls uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// IPC returns the instructions per cycle.
func (s Statistics) IPC() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Instructions) / float64(s.Cycles)
}

// StallsOn returns the structural stalls counted against a station kind.
func (s Statistics) StallsOn(kind StationKind) uint64 {
	switch kind {
	case StationLoad:
		return s.LoadStalls
	case StationStore:
		return s.StoreStalls
	case StationAddSub:
		return s.AddStalls
	case StationMulDiv:
		return s.MulStalls
	default:
		return 0
	}
}

func (s *Statistics) countStall(kind StationKind) {
	s.Stalls++
	switch kind {
	case StationLoad:
		s.LoadStalls++
	case StationStore:
		s.StoreStalls++
	case StationAddSub:
		s.AddStalls++
	case StationMulDiv:
		s.MulStalls++
	}
}
