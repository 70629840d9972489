package trace

import (
	"time"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// Pacer forwards snapshots to another observer, waiting a fixed wall-clock
// delay before every cycle after the first so that the output can be
// followed as an animation.
type Pacer struct {
	next  tomasulo.Observer
	delay time.Duration
	sleep func(time.Duration)
}

// NewPacer creates a pacer in front of next.
func NewPacer(next tomasulo.Observer, delay time.Duration) *Pacer {
	return &Pacer{
		next:  next,
		delay: delay,
		sleep: time.Sleep,
	}
}

// Observe waits, then forwards s.
func (p *Pacer) Observe(s tomasulo.Snapshot) {
	if s.Cycle > 0 && p.delay > 0 {
		p.sleep(p.delay)
	}
	p.next.Observe(s)
}
