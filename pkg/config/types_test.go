package config_test

import (
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/codemate/pkg/config"
)

var _ = Describe("ChatMode", func() {
	DescribeTable("ParseChatMode",
		func(in string, want config.ChatMode) {
			got, err := config.ParseChatMode(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("student", "student", config.ChatModeStudent),
		Entry("pro upper-case", "PRO", config.ChatModePro),
		Entry("padded", "  student ", config.ChatModeStudent),
	)

	It("should reject unknown modes", func() {
		mode, err := config.ParseChatMode("expert")
		Expect(errors.Is(err, config.ErrInvalidChatMode)).To(BeTrue())
		Expect(mode).To(Equal(config.ChatModeUnset))
	})

	It("should round-trip through text", func() {
		text, err := config.ChatModePro.MarshalText()
		Expect(err).NotTo(HaveOccurred())

		var mode config.ChatMode
		Expect(mode.UnmarshalText(text)).To(Succeed())
		Expect(mode).To(Equal(config.ChatModePro))
	})

	It("should treat empty text as unset", func() {
		mode := config.ChatModePro
		Expect(mode.UnmarshalText(nil)).To(Succeed())
		Expect(mode).To(Equal(config.ChatModeUnset))
	})
})

var _ = Describe("Duration", func() {
	It("should parse Go duration strings", func() {
		var d config.Duration
		Expect(d.UnmarshalText([]byte("1m30s"))).To(Succeed())
		Expect(d.ToDuration()).To(Equal(90 * time.Second))
		Expect(d.String()).To(Equal("1m30s"))
	})

	It("should reject negative durations", func() {
		var d config.Duration
		err := d.UnmarshalText([]byte("-1s"))
		Expect(errors.Is(err, config.ErrNegativeDuration)).To(BeTrue())
	})

	It("should reject garbage", func() {
		var d config.Duration
		Expect(d.UnmarshalText([]byte("soon"))).NotTo(Succeed())
	})
})
