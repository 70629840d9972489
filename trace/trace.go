// Package trace renders and records the per-cycle state of the scheduler.
//
// Every sink implements tomasulo.Observer, so it can be attached directly to
// a scheduler with tomasulo.WithObserver, or to an akita-driven core through
// a HookAdapter.
package trace

import (
	"strconv"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// stamp renders a cycle stamp, or a dash when it is not known yet.
func stamp(cycle int) string {
	if cycle == tomasulo.NotYet {
		return "-"
	}
	return strconv.Itoa(cycle)
}

// operand renders an operand view as its value or its producer.
func operand(o tomasulo.OperandView) string {
	if o.Producer != "" {
		return o.Producer
	}
	return o.Value
}

// register renders a register view as its value or its producer.
func register(r tomasulo.RegisterView) string {
	if r.Producer != "" {
		return r.Producer
	}
	return r.Value
}
