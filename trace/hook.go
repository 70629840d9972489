package trace

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// HookAdapter is an akita hook that forwards the cycle snapshots published
// by a core to an observer.
type HookAdapter struct {
	observer tomasulo.Observer
}

// NewHookAdapter creates a hook forwarding to o.
func NewHookAdapter(o tomasulo.Observer) *HookAdapter {
	return &HookAdapter{observer: o}
}

// Func implements sim.Hook.
func (h *HookAdapter) Func(ctx sim.HookCtx) {
	if ctx.Pos != core.HookPosCycle {
		return
	}

	snapshot, ok := ctx.Item.(tomasulo.Snapshot)
	if !ok {
		return
	}

	h.observer.Observe(snapshot)
}

// Fanout forwards every snapshot to several observers in order.
type Fanout []tomasulo.Observer

// Observe forwards s.
func (f Fanout) Observe(s tomasulo.Snapshot) {
	for _, o := range f {
		o.Observe(s)
	}
}
