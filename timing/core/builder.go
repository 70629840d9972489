package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// Builder can create new cores.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	scheduler *tomasulo.Scheduler
}

// NewBuilder returns a builder with a 1 GHz clock.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithScheduler sets the scheduler the core drives.
func (b Builder) WithScheduler(s *tomasulo.Scheduler) Builder {
	b.scheduler = s
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.scheduler == nil {
		panic("core needs a scheduler")
	}

	c := &Core{Scheduler: b.scheduler}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
