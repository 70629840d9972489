package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/loader"
)

const example = `# Hennessy & Patterson, figure 3.2
LD    F6  34  R2
LD    F2  45  R3
MULTD F0  F2  F4   ; waits for the second load
SUBD  F8  F6  F2

DIVD  F10 F0  F6
ADDD  F6  F8  F2
`

var _ = Describe("Program Loader", func() {
	Describe("Parse", func() {
		It("should decode every instruction in order", func() {
			prog, err := loader.Parse(strings.NewReader(example), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Len()).To(Equal(6))

			ops := []insts.Op{}
			for _, inst := range prog.Instructions {
				ops = append(ops, inst.Op)
			}
			Expect(ops).To(Equal([]insts.Op{
				insts.OpLOAD, insts.OpLOAD, insts.OpMUL, insts.OpSUB, insts.OpDIV, insts.OpADD,
			}))
			Expect(prog.Instructions[0].Address).To(Equal("34+R2"))
			Expect(prog.Instructions[2].Text).To(Equal("MULTD F0  F2  F4"))
		})

		It("should remember source lines", func() {
			prog, err := loader.Parse(strings.NewReader(example), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Lines).To(Equal([]int{2, 3, 4, 5, 7, 8}))
			Expect(prog.Path).To(BeEmpty())
		})

		It("should accept commas and the offset(base) form", func() {
			prog, err := loader.Parse(strings.NewReader("L.D F6, 34(R2)\nS.D F6, 0(R1)\n"), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Instructions[0].Address).To(Equal("34+R2"))
			Expect(prog.Instructions[1].Op).To(Equal(insts.OpSTORE))
			Expect(prog.Instructions[1].Address).To(Equal("R1"))
		})

		It("should return an empty program for an empty file", func() {
			prog, err := loader.Parse(strings.NewReader("\n# nothing\n"), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Len()).To(BeZero())
		})

		It("should report the line of a malformed instruction", func() {
			_, err := loader.Parse(strings.NewReader("ADD F0 F2 F4\n\nADD F0 F2\n"), 0)

			var parseErr *insts.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
			Expect(parseErr.Line).To(Equal(3))
			Expect(err.Error()).To(HavePrefix("line 3: "))
		})

		It("should report an unknown mnemonic", func() {
			_, err := loader.Parse(strings.NewReader("FMA F0 F1 F2\n"), 0)

			var parseErr *insts.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
			Expect(parseErr.Reason).To(ContainSubstring("FMA"))
		})

		It("should report the line of an out-of-range register", func() {
			_, err := loader.Parse(strings.NewReader("ADD F0 F2 F4\nMUL F1 F2 F9\n"), 8)

			var operandErr *insts.InvalidOperandError
			Expect(errors.As(err, &operandErr)).To(BeTrue())
			Expect(operandErr.Limit).To(Equal(8))
			Expect(err.Error()).To(HavePrefix("line 2: "))
		})
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "program-loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should load a program file", func() {
			path := filepath.Join(tempDir, "example.txt")
			Expect(os.WriteFile(path, []byte(example), 0644)).To(Succeed())

			prog, err := loader.Load(path, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Path).To(Equal(path))
			Expect(prog.Len()).To(Equal(6))
		})

		It("should name the file in parse errors", func() {
			path := filepath.Join(tempDir, "bad.txt")
			Expect(os.WriteFile(path, []byte("ADD F0\n"), 0644)).To(Succeed())

			_, err := loader.Load(path, 0)
			Expect(err).To(MatchError(ContainSubstring(path + ": line 1: ")))

			var parseErr *insts.ParseError
			Expect(errors.As(err, &parseErr)).To(BeTrue())
		})

		It("should fail for a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.txt"), 0)
			Expect(err).To(MatchError(ContainSubstring("failed to open program file")))
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})
})
