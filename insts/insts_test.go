package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder(0)
		Expect(decoder).ToNot(BeNil())
		Expect(decoder.NumRegisters()).To(Equal(insts.DefaultNumRegisters))
	})

	Describe("Op", func() {
		It("should classify arithmetic and memory ops", func() {
			Expect(insts.OpADD.IsArithmetic()).To(BeTrue())
			Expect(insts.OpDIV.IsArithmetic()).To(BeTrue())
			Expect(insts.OpLOAD.IsArithmetic()).To(BeFalse())
			Expect(insts.OpLOAD.IsMemory()).To(BeTrue())
			Expect(insts.OpSTORE.IsMemory()).To(BeTrue())
			Expect(insts.OpMUL.IsMemory()).To(BeFalse())
		})

		It("should render operators", func() {
			Expect(insts.OpADD.Operator()).To(Equal("+"))
			Expect(insts.OpSUB.Operator()).To(Equal("-"))
			Expect(insts.OpMUL.Operator()).To(Equal("*"))
			Expect(insts.OpDIV.Operator()).To(Equal("/"))
			Expect(insts.OpLOAD.Operator()).To(BeEmpty())
		})

		It("should name opcodes", func() {
			Expect(insts.OpSTORE.String()).To(Equal("STORE"))
			Expect(insts.Op(42).String()).To(Equal("Op(42)"))
		})
	})

	It("should name registers", func() {
		Expect(insts.Reg(6).String()).To(Equal("F6"))
	})
})
