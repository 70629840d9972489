package tomasulo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

// Option is a functional option for configuring the Scheduler.
type Option func(*Scheduler)

// WithLatencyTable sets the per-op latencies.
func WithLatencyTable(table *latency.Table) Option {
	return func(s *Scheduler) {
		s.latencyTable = table
	}
}

// WithStationConfig sets the station capacities and register count.
func WithStationConfig(config StationConfig) Option {
	return func(s *Scheduler) {
		s.config = config
	}
}

// WithObserver registers an observer of the per-cycle state.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observers = append(s.observers, o)
	}
}

// WithLogger sets the logger that receives trace events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithInvariantChecks makes the scheduler verify its state after every cycle
// and panic on a violation.
func WithInvariantChecks() Option {
	return func(s *Scheduler) {
		s.checkInvariants = true
	}
}

// WithMaxCycles stops Run after n cycles even if the program has not drained.
func WithMaxCycles(n int) Option {
	return func(s *Scheduler) {
		s.maxCycles = n
	}
}

// Scheduler runs Tomasulo's algorithm over a program, one cycle per Step.
//
// Each cycle runs the writeback phase first, then issues at most one
// instruction, then advances every armed countdown. Once every instruction
// has issued, cycles keep running writeback and execute until the machine
// drains.
type Scheduler struct {
	program []insts.Instruction
	machine *Machine

	latencyTable    *latency.Table
	config          StationConfig
	arbiter         *WritebackArbiter
	observers       []Observer
	logger          *slog.Logger
	checkInvariants bool
	maxCycles       int

	started bool
	stats   Statistics
	last    WritebackResult
}

// NewScheduler creates a scheduler for program. Every register operand is
// checked against the configured register file before any cycle runs.
func NewScheduler(program []insts.Instruction, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		latencyTable: latency.NewTable(),
		config:       DefaultStationConfig(),
		logger:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.latencyTable == nil {
		s.latencyTable = latency.NewTable()
	}

	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid station config: %w", err)
	}
	if err := s.latencyTable.Config().Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}
	if err := validateProgram(program, s.config.Registers); err != nil {
		return nil, err
	}

	s.program = append([]insts.Instruction(nil), program...)
	s.arbiter = NewWritebackArbiter(s.logger)
	s.Reset()

	return s, nil
}

func validateProgram(program []insts.Instruction, numRegs int) error {
	decoder := insts.NewDecoder(numRegs)

	for i, inst := range program {
		regs := []insts.Reg{inst.Rd}
		switch {
		case inst.Op.IsArithmetic():
			regs = append(regs, inst.Rn, inst.Rm)
		case inst.Op.IsMemory():
		default:
			return fmt.Errorf("instruction %d: %w", i, &insts.ParseError{
				Text:   inst.Text,
				Reason: "unknown opcode",
			})
		}

		for _, r := range regs {
			if err := decoder.ValidateReg(r); err != nil {
				return fmt.Errorf("instruction %d: %w", i, err)
			}
		}
	}

	return nil
}

// Reset returns the machine to cycle 0. Statistics are cleared.
func (s *Scheduler) Reset() {
	s.machine = NewMachine(s.program, s.config, s.latencyTable)
	s.stats = Statistics{}
	s.last = WritebackResult{}
	s.started = false
}

// AddObserver registers an observer of the per-cycle state.
func (s *Scheduler) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Cycle returns the last completed cycle. It is 0 before the first Step.
func (s *Scheduler) Cycle() int {
	return s.machine.Cycle
}

// PC returns the index of the next instruction to issue.
func (s *Scheduler) PC() int {
	return s.machine.PC
}

// Config returns the station configuration.
func (s *Scheduler) Config() StationConfig {
	return s.config
}

// Done returns true once every instruction has issued and the machine has
// drained.
func (s *Scheduler) Done() bool {
	return s.machine.Done()
}

// Halted returns true if Step should not be called again: the program is
// done or the cycle limit is reached.
func (s *Scheduler) Halted() bool {
	if s.Done() {
		return true
	}
	return s.maxCycles > 0 && s.machine.Cycle >= s.maxCycles
}

// Step simulates one cycle.
func (s *Scheduler) Step() {
	s.start()

	m := s.machine
	m.Cycle++
	s.stats.Cycles++

	s.writeback()

	if m.Dispatching() {
		s.issue()
	}

	s.execute()

	if s.checkInvariants {
		if err := s.CheckInvariants(); err != nil {
			panic(fmt.Sprintf("cycle %d: %v", m.Cycle, err))
		}
	}

	s.notify()
}

// Run steps until the program drains and returns the statistics.
func (s *Scheduler) Run() Statistics {
	s.start()
	for !s.Halted() {
		s.Step()
	}
	return s.stats
}

// RunCycles steps at most n cycles. It returns true if the program has not
// drained yet.
func (s *Scheduler) RunCycles(n int) bool {
	for i := 0; i < n && !s.Halted(); i++ {
		s.Step()
	}
	return !s.Done()
}

// Stats returns the statistics so far.
func (s *Scheduler) Stats() Statistics {
	return s.stats
}

// Entries returns a copy of the per-instruction timing records.
func (s *Scheduler) Entries() []Entry {
	return append([]Entry(nil), s.machine.Entries...)
}

// Register returns the status of register r.
func (s *Scheduler) Register(r insts.Reg) (RegisterStatus, error) {
	return s.machine.Registers.Status(r)
}

// Slots returns a copy of the slots of the given station kind.
func (s *Scheduler) Slots(kind StationKind) []Slot {
	for _, st := range s.machine.stations() {
		if st.kind == kind {
			return st.Slots()
		}
	}
	return nil
}

// LastWriteback returns what the writeback phase of the last cycle did.
func (s *Scheduler) LastWriteback() WritebackResult {
	return s.last
}

// Snapshot returns a deep copy of the current state.
func (s *Scheduler) Snapshot() Snapshot {
	return s.machine.Snapshot()
}

func (s *Scheduler) start() {
	if s.started {
		return
	}
	s.started = true
	s.notify()
}

func (s *Scheduler) writeback() {
	s.last = s.arbiter.Writeback(s.machine)
	s.stats.Broadcasts += uint64(len(s.last.Broadcasts))
	s.stats.Completed += uint64(len(s.last.Releases))
}

func (s *Scheduler) issue() {
	m := s.machine
	entry := &m.Entries[m.PC]
	inst := entry.Inst

	var (
		st  *station
		tag Tag
		ok  bool
	)

	switch {
	case inst.Op.IsArithmetic():
		pool := m.poolFor(inst.Op)
		a := m.Registers.read(inst.Rn)
		b := m.Registers.read(inst.Rm)
		st = &pool.station
		tag, ok = pool.Issue(inst.Op, a, b, m.PC, m.Cycle)
	case inst.Op == insts.OpLOAD:
		st = &m.Loads.station
		tag, ok = m.Loads.Issue(inst.Address, m.PC, m.Cycle)
	case inst.Op == insts.OpSTORE:
		st = &m.Stores.station
		tag, ok = m.Stores.Issue(m.Registers.read(inst.Rd), inst.Address, m.PC, m.Cycle)
	default:
		panic(fmt.Sprintf("cannot issue %s", inst.Op))
	}

	if !ok {
		s.stats.countStall(st.kind)
		s.trace("Stall", "Cycle", m.Cycle, "Station", st.kind.String(), "Busy", m.BusyCount(st.kind), "Inst", m.PC)
		return
	}

	if inst.Op != insts.OpSTORE {
		if old := m.Registers.regs[inst.Rd].Producer; old.IsSome() {
			s.stats.Renames++
			s.trace("Rename", "Cycle", m.Cycle, "Reg", inst.Rd.String(),
				"From", old.String(), "To", tag.String())
		}
		m.Registers.regs[inst.Rd].Producer = Some(tag)
	}

	entry.Issue = m.Cycle
	if slot := &st.slots[tag.Index]; slot.Armed() {
		entry.Writeback = m.Cycle + int(slot.Remaining) + 1
	}

	s.trace("Issue",
		"Cycle", m.Cycle,
		"Inst", m.PC,
		"Text", inst.String(),
		"Slot", tag.String(),
		"Writeback", entry.Writeback,
	)

	m.PC++
	s.stats.Instructions++
}

func (s *Scheduler) execute() {
	for _, st := range s.machine.stations() {
		st.Tick(s.machine.Cycle)
	}
}

func (s *Scheduler) notify() {
	if len(s.observers) == 0 {
		return
	}

	snapshot := s.machine.Snapshot()
	for _, o := range s.observers {
		o.Observe(snapshot)
	}
}

func (s *Scheduler) trace(msg string, args ...any) {
	s.logger.Log(context.Background(), LevelTrace, msg, args...)
}
