package tomasulo_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/tomasulo"
)

var _ = Describe("RegisterFile", func() {
	var (
		rf    *tomasulo.RegisterFile
		mult1 tomasulo.Tag
		add1  tomasulo.Tag
	)

	BeforeEach(func() {
		rf = tomasulo.NewRegisterFile(8)
		mult1 = tomasulo.Tag{Station: tomasulo.StationMulDiv, Index: 0, Seq: 1}
		add1 = tomasulo.Tag{Station: tomasulo.StationAddSub, Index: 0, Seq: 1}
	})

	It("should start with symbolic register values", func() {
		status, err := rf.Status(3)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Value).To(Equal(tomasulo.Value("F3")))
		Expect(status.Producer.IsSome()).To(BeFalse())
		Expect(rf.Len()).To(Equal(8))
		Expect(rf.Pending()).To(BeEmpty())
	})

	It("should read a pending register as its producer", func() {
		Expect(rf.SetProducer(0, mult1)).To(Succeed())

		o, err := rf.Read(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(o.Ready()).To(BeFalse())
		Expect(o.Producer.Is(mult1)).To(BeTrue())
		Expect(rf.Pending()).To(Equal([]insts.Reg{0}))
	})

	It("should rename by overwriting the producer", func() {
		Expect(rf.SetProducer(0, mult1)).To(Succeed())
		Expect(rf.SetProducer(0, add1)).To(Succeed())

		Expect(rf.Resolve(mult1, "F2*F4")).To(Equal(0))
		status, _ := rf.Status(0)
		Expect(status.Producer.Is(add1)).To(BeTrue())
		Expect(status.Value).To(Equal(tomasulo.Value("F0")))

		Expect(rf.Resolve(add1, "F6+F8")).To(Equal(1))
		status, _ = rf.Status(0)
		Expect(status.Producer.IsSome()).To(BeFalse())
		Expect(status.Value).To(Equal(tomasulo.Value("F6+F8")))
	})

	It("should resolve every register waiting for a tag", func() {
		Expect(rf.SetProducer(1, add1)).To(Succeed())
		Expect(rf.SetProducer(5, add1)).To(Succeed())

		Expect(rf.Resolve(add1, "F2+F3")).To(Equal(2))
		Expect(rf.Pending()).To(BeEmpty())
		Expect(rf.Resolve(add1, "F2+F3")).To(Equal(0))
	})

	It("should reject out-of-range registers", func() {
		var operandErr *insts.InvalidOperandError

		_, err := rf.Status(8)
		Expect(errors.As(err, &operandErr)).To(BeTrue())
		Expect(operandErr.Index).To(Equal(8))
		Expect(operandErr.Limit).To(Equal(8))

		_, err = rf.Read(9)
		Expect(errors.As(err, &operandErr)).To(BeTrue())

		Expect(rf.SetProducer(8, add1)).To(MatchError(ContainSubstring("out of range")))
	})
})
