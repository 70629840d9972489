package trace

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/timing/tomasulo"
)

var _ = Describe("Pacer", func() {
	var (
		seen   []int
		slept  []time.Duration
		target tomasulo.Observer
	)

	BeforeEach(func() {
		seen = nil
		slept = nil
		target = tomasulo.ObserverFunc(func(s tomasulo.Snapshot) {
			seen = append(seen, s.Cycle)
		})
	})

	It("should wait before every cycle but the first", func() {
		p := NewPacer(target, 250*time.Millisecond)
		p.sleep = func(d time.Duration) { slept = append(slept, d) }

		for cycle := 0; cycle < 4; cycle++ {
			p.Observe(tomasulo.Snapshot{Cycle: cycle})
		}

		Expect(seen).To(Equal([]int{0, 1, 2, 3}))
		Expect(slept).To(Equal([]time.Duration{
			250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond,
		}))
	})

	It("should not wait without a delay", func() {
		p := NewPacer(target, 0)
		p.sleep = func(d time.Duration) { slept = append(slept, d) }

		p.Observe(tomasulo.Snapshot{Cycle: 1})

		Expect(seen).To(Equal([]int{1}))
		Expect(slept).To(BeEmpty())
	})
})
