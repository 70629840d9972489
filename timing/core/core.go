// Package core provides the simulated out-of-order core as an akita
// component. It wraps the Tomasulo scheduler so that an akita engine can
// drive it one cycle per tick.
package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// HookPosCycle marks the end of a simulated cycle. The hook item is the
// tomasulo.Snapshot of the machine. A cycle-0 snapshot is published when
// Run starts.
var HookPosCycle = &sim.HookPos{Name: "Tomasulo Cycle"}

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions issued.
	Instructions uint64
	// Stalls is the number of structural-hazard stall cycles.
	Stalls uint64
	// Broadcasts is the number of results sent on the data bus.
	Broadcasts uint64
}

// Core is a cycle-accurate out-of-order core.
type Core struct {
	*sim.TickingComponent

	// Scheduler is the underlying Tomasulo scheduler.
	Scheduler *tomasulo.Scheduler
}

// Tick simulates one cycle. It makes no progress once the scheduler halts.
func (c *Core) Tick() (madeProgress bool) {
	if c.Scheduler.Halted() {
		return false
	}

	c.Scheduler.Step()
	c.publish()

	return true
}

// Halted returns true if the scheduler will not step again.
func (c *Core) Halted() bool {
	return c.Scheduler.Halted()
}

// Done returns true if every instruction has issued and written back.
func (c *Core) Done() bool {
	return c.Scheduler.Done()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	s := c.Scheduler.Stats()
	return Stats{
		Cycles:       s.Cycles,
		Instructions: s.Instructions,
		Stalls:       s.Stalls,
		Broadcasts:   s.Broadcasts,
	}
}

// Run schedules the first tick and runs the engine until the core stops
// making progress.
func (c *Core) Run() error {
	if c.Scheduler.Cycle() == 0 {
		c.publish()
	}

	c.TickNow()

	return c.Engine.Run()
}

// RunCycles ticks the core directly, bypassing the engine, for at most n
// cycles. Returns true if the program has not drained.
func (c *Core) RunCycles(n int) bool {
	for i := 0; i < n; i++ {
		if !c.Tick() {
			break
		}
	}
	return !c.Done()
}

func (c *Core) publish() {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosCycle,
		Item:   c.Scheduler.Snapshot(),
	})
}
