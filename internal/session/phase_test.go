package session_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codemate/internal/session"
)

var _ = Describe("Phase", func() {
	DescribeTable("transitions",
		func(from, to session.Phase, valid bool) {
			Expect(session.IsValidTransition(from, to)).To(Equal(valid))
		},
		Entry("idle to analyzing", session.PhaseIdle, session.PhaseAnalyzing, true),
		Entry("idle to running", session.PhaseIdle, session.PhaseRunning, false),
		Entry("analyzing to clean", session.PhaseAnalyzing, session.PhaseCleanNoInput, true),
		Entry("analyzing to needs input", session.PhaseAnalyzing, session.PhaseCleanNeedsInput, true),
		Entry("analyzing to failed", session.PhaseAnalyzing, session.PhaseFailed, true),
		Entry("analyzing to done", session.PhaseAnalyzing, session.PhaseDone, true),
		Entry("analyzing to analyzing", session.PhaseAnalyzing, session.PhaseAnalyzing, false),
		Entry("failed to running", session.PhaseFailed, session.PhaseRunning, false),
		Entry("needs input to running", session.PhaseCleanNeedsInput, session.PhaseRunning, true),
		Entry("running to done", session.PhaseRunning, session.PhaseDone, true),
		Entry("running to clean", session.PhaseRunning, session.PhaseCleanNoInput, false),
		Entry("done to running", session.PhaseDone, session.PhaseRunning, true),
		Entry("done to analyzing", session.PhaseDone, session.PhaseAnalyzing, true),
	)

	It("returns a copy of the next phases", func() {
		next := session.ValidNextPhases(session.PhaseIdle)
		next[0] = session.PhaseDone

		Expect(session.ValidNextPhases(session.PhaseIdle)).To(Equal([]session.Phase{session.PhaseAnalyzing}))
	})

	It("uses snake case names", func() {
		Expect(session.PhaseCleanNeedsInput.String()).To(Equal("clean_needs_input"))

		data, err := json.Marshal(session.PhaseCleanNoInput)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`"clean_no_input"`))

		var p session.Phase
		Expect(json.Unmarshal([]byte(`"failed"`), &p)).To(Succeed())
		Expect(p).To(Equal(session.PhaseFailed))
	})

	It("rejects unknown names", func() {
		_, err := session.PhaseString("exploded")
		Expect(err).To(HaveOccurred())
	})

	It("classifies settled phases", func() {
		Expect(session.PhaseAnalyzing.IsSettled()).To(BeFalse())
		Expect(session.PhaseRunning.IsSettled()).To(BeFalse())
		Expect(session.PhaseFailed.IsSettled()).To(BeTrue())
		Expect(session.PhaseCleanNeedsInput.IsClean()).To(BeTrue())
		Expect(session.PhaseDone.IsClean()).To(BeFalse())
	})
})
