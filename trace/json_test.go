package trace_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/timing/tomasulo"
	"github.com/sarchlab/tomasim/trace"
)

var _ = Describe("JSONRecorder", func() {
	It("should record one snapshot per cycle plus the initial state", func() {
		r := trace.NewJSONRecorder()
		s := newScheduler(tomasulo.WithObserver(r))
		stats := s.Run()

		snaps := r.Snapshots()
		Expect(snaps).To(HaveLen(int(stats.Cycles) + 1))
		Expect(snaps[0].Cycle).To(Equal(0))
		Expect(snaps[len(snaps)-1].Done).To(BeTrue())
	})

	It("should encode a cycle log", func() {
		r := trace.NewJSONRecorder()
		s := newScheduler(tomasulo.WithObserver(r))
		s.RunCycles(3)

		var buf bytes.Buffer
		Expect(r.Encode(&buf)).To(Succeed())

		var decoded []map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(4))

		last := decoded[3]
		Expect(last["cycle"]).To(BeEquivalentTo(3))
		Expect(last["pc"]).To(BeEquivalentTo(3))

		stations := last["stations"].([]any)
		store := stations[1].(map[string]any)
		Expect(store["kind"]).To(Equal("Store"))
		slot := store["slots"].([]any)[0].(map[string]any)
		Expect(slot["address"]).To(Equal("8+R1"))
		Expect(slot["operands"]).To(Equal([]any{map[string]any{"producer": "Add1"}}))
	})

	It("should encode an empty log as an empty array", func() {
		var buf bytes.Buffer
		Expect(trace.NewJSONRecorder().Encode(&buf)).To(Succeed())
		Expect(buf.String()).To(Equal("[]\n"))
	})
})
