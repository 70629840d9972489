package tomasulo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/tomasulo"
)

var _ = Describe("FunctionalUnitPool", func() {
	var (
		table *latency.Table
		pool  *tomasulo.FunctionalUnitPool
		load1 tomasulo.Tag
	)

	BeforeEach(func() {
		table = latency.NewTable()
		pool = tomasulo.NewFunctionalUnitPool(tomasulo.StationAddSub, 2, table)
		load1 = tomasulo.Tag{Station: tomasulo.StationLoad, Index: 0, Seq: 1}
	})

	It("should accept only its own operations", func() {
		Expect(pool.Accepts(insts.OpADD)).To(BeTrue())
		Expect(pool.Accepts(insts.OpSUB)).To(BeTrue())
		Expect(pool.Accepts(insts.OpMUL)).To(BeFalse())
		Expect(pool.Accepts(insts.OpLOAD)).To(BeFalse())

		mul := tomasulo.NewFunctionalUnitPool(tomasulo.StationMulDiv, 1, table)
		Expect(mul.Accepts(insts.OpDIV)).To(BeTrue())
		Expect(mul.Accepts(insts.OpADD)).To(BeFalse())
	})

	It("should panic on an op it cannot execute", func() {
		Expect(func() {
			pool.Issue(insts.OpMUL, tomasulo.Resolved("F2"), tomasulo.Resolved("F4"), 0, 1)
		}).To(Panic())
	})

	It("should only be built for arithmetic stations", func() {
		Expect(func() {
			tomasulo.NewFunctionalUnitPool(tomasulo.StationLoad, 1, table)
		}).To(Panic())
	})

	It("should count down from the next cycle when operands are ready", func() {
		tag, ok := pool.Issue(insts.OpADD, tomasulo.Resolved("F2"), tomasulo.Resolved("F4"), 0, 1)
		Expect(ok).To(BeTrue())
		Expect(tag.String()).To(Equal("Add1"))

		slot := pool.Slot(0)
		Expect(slot.Busy).To(BeTrue())
		Expect(slot.Armed()).To(BeTrue())
		Expect(slot.Remaining).To(Equal(uint64(2)))
		Expect(slot.ArmedAt).To(Equal(1))

		pool.Tick(1)
		Expect(pool.Slot(0).Remaining).To(Equal(uint64(2)))

		pool.Tick(2)
		Expect(pool.IsComplete(0)).To(BeFalse())
		pool.Tick(3)
		Expect(pool.IsComplete(0)).To(BeTrue())

		pool.Tick(4)
		Expect(pool.Slot(0).Remaining).To(BeZero())

		v, ok := pool.Result(0)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(tomasulo.Value("F2+F4")))
	})

	It("should wait for pending operands before counting down", func() {
		_, ok := pool.Issue(insts.OpSUB, tomasulo.Pending(load1), tomasulo.Resolved("F4"), 0, 1)
		Expect(ok).To(BeTrue())

		pool.Tick(2)
		pool.Tick(3)
		slot := pool.Slot(0)
		Expect(slot.Armed()).To(BeFalse())
		Expect(slot.Remaining).To(Equal(uint64(tomasulo.Unbounded)))

		Expect(pool.Resolve(load1, "M(A)", 3)).To(Equal([]int{0}))
		pool.Tick(3)
		Expect(pool.Slot(0).Remaining).To(Equal(uint64(2)))

		pool.Tick(4)
		pool.Tick(5)
		Expect(pool.IsComplete(0)).To(BeTrue())

		v, _ := pool.Result(0)
		Expect(v).To(Equal(tomasulo.Value("M(A)-F4")))
	})

	It("should not arm a slot until its last operand resolves", func() {
		mult1 := tomasulo.Tag{Station: tomasulo.StationMulDiv, Index: 0, Seq: 1}
		pool.Issue(insts.OpADD, tomasulo.Pending(load1), tomasulo.Pending(mult1), 0, 1)

		Expect(pool.Resolve(load1, "M(A)", 2)).To(BeEmpty())
		Expect(pool.Slot(0).Armed()).To(BeFalse())
		Expect(pool.Resolve(mult1, "F2*F4", 5)).To(Equal([]int{0}))
		Expect(pool.Slot(0).ArmedAt).To(Equal(5))
	})

	It("should report a structural hazard when full", func() {
		pool.Issue(insts.OpADD, tomasulo.Resolved("F1"), tomasulo.Resolved("F2"), 0, 1)
		pool.Issue(insts.OpADD, tomasulo.Resolved("F3"), tomasulo.Resolved("F4"), 1, 2)
		Expect(pool.BusyCount()).To(Equal(2))

		_, free := pool.FindFree()
		Expect(free).To(BeFalse())

		_, ok := pool.Issue(insts.OpADD, tomasulo.Resolved("F5"), tomasulo.Resolved("F6"), 2, 3)
		Expect(ok).To(BeFalse())
		Expect(pool.BusyCount()).To(Equal(2))
	})

	It("should give a new tag to the next occupant of a released slot", func() {
		first, _ := pool.Issue(insts.OpADD, tomasulo.Resolved("F1"), tomasulo.Resolved("F2"), 0, 1)
		pool.Release(0)

		Expect(pool.Idle()).To(BeTrue())
		slot := pool.Slot(0)
		Expect(slot.Busy).To(BeFalse())
		Expect(slot.Instruction).To(Equal(tomasulo.NotYet))
		Expect(slot.Payload).To(BeNil())

		second, _ := pool.Issue(insts.OpADD, tomasulo.Resolved("F3"), tomasulo.Resolved("F4"), 1, 2)
		Expect(second.Index).To(Equal(first.Index))
		Expect(second).NotTo(Equal(first))
		Expect(tomasulo.Some(first).Is(second)).To(BeFalse())
	})

	It("should hand out copies of its slots", func() {
		pool.Issue(insts.OpADD, tomasulo.Pending(load1), tomasulo.Resolved("F4"), 0, 1)

		slots := pool.Slots()
		Expect(slots).To(HaveLen(2))
		payload := slots[0].Payload.(*tomasulo.ArithmeticPayload)
		payload.Operands[0] = tomasulo.Resolved("X")

		Expect(pool.Slot(0).Ready()).To(BeFalse())
	})
})

var _ = Describe("LoadQueue", func() {
	It("should arm loads at issue and produce memory values", func() {
		q := tomasulo.NewLoadQueue(1, latency.NewTable())

		tag, ok := q.Issue("34+R2", 0, 1)
		Expect(ok).To(BeTrue())
		Expect(tag.String()).To(Equal("Load1"))
		Expect(q.Slot(0).Armed()).To(BeTrue())
		Expect(q.Slot(0).Address()).To(Equal("34+R2"))

		_, ok = q.Issue("45+R3", 1, 2)
		Expect(ok).To(BeFalse())

		q.Tick(2)
		q.Tick(3)
		Expect(q.IsComplete(0)).To(BeTrue())

		v, ok := q.Result(0)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(tomasulo.Value("M(34+R2)")))
	})
})

var _ = Describe("StoreQueue", func() {
	It("should wait for the stored value and produce nothing", func() {
		q := tomasulo.NewStoreQueue(2, latency.NewTable())
		mult1 := tomasulo.Tag{Station: tomasulo.StationMulDiv, Index: 0, Seq: 1}

		tag, ok := q.Issue(tomasulo.Pending(mult1), "21+R3", 1, 2)
		Expect(ok).To(BeTrue())
		Expect(tag.String()).To(Equal("Store1"))
		Expect(q.Slot(0).Armed()).To(BeFalse())
		Expect(q.Slot(0).Operands()).To(HaveLen(1))

		Expect(q.Resolve(mult1, "F2*F4", 12)).To(Equal([]int{0}))
		q.Tick(13)
		q.Tick(14)
		Expect(q.IsComplete(0)).To(BeTrue())

		_, ok = q.Result(0)
		Expect(ok).To(BeFalse())
	})
})
