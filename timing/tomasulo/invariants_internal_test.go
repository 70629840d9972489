package tomasulo

import (
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
)

var _ = ginkgo.Describe("Invariant checks", func() {
	var s *Scheduler

	ginkgo.BeforeEach(func() {
		prog := []insts.Instruction{
			{Op: insts.OpMUL, Rd: 0, Rn: 2, Rm: 4, Text: "MUL F0 F2 F4"},
			{Op: insts.OpADD, Rd: 6, Rn: 0, Rm: 8, Text: "ADD F6 F0 F8"},
		}

		var err error
		s, err = NewScheduler(prog)
		Expect(err).NotTo(HaveOccurred())
	})

	ginkgo.It("should pass on every cycle of a normal run", func() {
		for !s.Done() {
			s.Step()
			Expect(s.CheckInvariants()).To(Succeed())
		}
	})

	ginkgo.It("should detect a register tag that outlived its slot", func() {
		s.RunCycles(2)
		stale := s.machine.MulDiv.Tag(0)

		s.machine.MulDiv.Release(0)
		s.machine.Registers.regs[0].Producer = Some(stale)

		Expect(s.CheckInvariants()).To(MatchError(ContainSubstring("F0 waits for stale tag Mult1")))
	})

	ginkgo.It("should detect an operand waiting for a reused slot", func() {
		s.RunCycles(2)
		stale := s.machine.MulDiv.Tag(0)

		s.machine.MulDiv.Release(0)
		s.machine.Registers.regs[0].Producer = None()
		s.machine.MulDiv.Issue(insts.OpMUL, Resolved("F1"), Resolved("F2"), 0, 2)

		Expect(s.machine.MulDiv.Tag(0)).NotTo(Equal(stale))
		Expect(s.CheckInvariants()).To(MatchError(ContainSubstring("Add1 waits for stale tag Mult1")))
	})

	ginkgo.It("should detect a free slot that was not cleared", func() {
		s.machine.AddSub.slots[1].Remaining = 3

		Expect(s.CheckInvariants()).To(MatchError(ContainSubstring("Add2 is free but not cleared")))
	})

	ginkgo.It("should detect a ready slot that never started", func() {
		s.RunCycles(1)
		s.machine.MulDiv.slots[0].Remaining = Unbounded

		Expect(s.CheckInvariants()).To(MatchError(ContainSubstring("Mult1: ready=true but armed=false")))
	})

	ginkgo.It("should detect a station beyond its configured capacity", func() {
		s.machine.Loads.slots = append(s.machine.Loads.slots, freeSlot())

		Expect(s.CheckInvariants()).To(MatchError(ContainSubstring("Load has 4 slots, capacity 3")))
	})

	ginkgo.It("should detect a countdown longer than the latency", func() {
		s.RunCycles(1)
		s.machine.MulDiv.slots[0].Remaining = 11

		Expect(s.CheckInvariants()).To(MatchError(ContainSubstring("Mult1: countdown 11 exceeds latency 10")))
	})

	ginkgo.It("should panic when checks are enabled", func() {
		s.checkInvariants = true
		s.RunCycles(1)
		s.machine.Registers.regs[5].Producer = Some(Tag{Station: StationLoad, Index: 2, Seq: 9})

		Expect(func() { s.Step() }).To(Panic())
	})
})
