package prompt_test

import (
	"bytes"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codemate/internal/prompt"
)

var _ = Describe("StdPrompter", func() {
	var out *bytes.Buffer

	newPrompter := func(input string) *prompt.StdPrompter {
		out = &bytes.Buffer{}

		return prompt.NewPrompter(strings.NewReader(input), out)
	}

	Describe("Input", func() {
		It("returns the trimmed answer", func() {
			v, err := newPrompter("  http://example.com:5000 \n").Input("Service URL", "http://localhost:5000")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("http://example.com:5000"))
			Expect(out.String()).To(Equal("Service URL [http://localhost:5000]: "))
		})

		It("falls back to the default", func() {
			v, err := newPrompter("\n").Input("Service URL", "http://localhost:5000")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("http://localhost:5000"))
		})

		It("rejects an empty answer without a default", func() {
			_, err := newPrompter("\n").Input("Name", "")
			Expect(errors.Is(err, prompt.ErrEmptyInput)).To(BeTrue())
		})

		It("accepts a final line without newline", func() {
			v, err := newPrompter("last").Input("Name", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("last"))
		})

		It("fails on closed input", func() {
			_, err := newPrompter("").Input("Name", "x")
			Expect(err).To(HaveOccurred())
		})
	})

	DescribeTable("Confirm",
		func(input string, def, want bool) {
			v, err := newPrompter(input).Confirm("Enable speech", def)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(want))
		},
		Entry("default yes", "\n", true, true),
		Entry("default no", "\n", false, false),
		Entry("yes", "YES\n", false, true),
		Entry("n", "n\n", true, false),
	)

	It("rejects an invalid confirmation", func() {
		_, err := newPrompter("maybe\n").Confirm("Enable speech", true)
		Expect(errors.Is(err, prompt.ErrInvalidInput)).To(BeTrue())
	})

	Describe("Select", func() {
		options := []string{"student", "pro"}

		It("matches case-insensitively", func() {
			v, err := newPrompter("PRO\n").Select("Chat mode", options, "student")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("pro"))
			Expect(out.String()).To(Equal("Chat mode (student/pro) [student]: "))
		})

		It("falls back to the default", func() {
			v, err := newPrompter("\n").Select("Chat mode", options, "student")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("student"))
		})

		It("rejects an unknown option", func() {
			_, err := newPrompter("expert\n").Select("Chat mode", options, "student")
			Expect(errors.Is(err, prompt.ErrInvalidInput)).To(BeTrue())
		})
	})
})
