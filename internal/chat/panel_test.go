package chat_test

import (
	"context"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/codemate/internal/chat"
	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/pkg/config"
)

var _ = Describe("Panel", func() {
	var (
		ctx   context.Context
		mock  *service.MockClient
		panel *chat.Panel
	)

	BeforeEach(func() {
		ctx = context.Background()
		mock = service.NewMockClient(gomock.NewController(GinkgoT()))
		panel = chat.NewPanel(mock, chat.Config{BaseURL: "http://localhost:5000", Voice: "male"})
	})

	texts := func() []string {
		var out []string
		for _, m := range panel.Messages() {
			out = append(out, string(m.Role)+": "+m.Text)
		}

		return out
	}

	It("refuses to send before a mode is selected", func() {
		_, err := panel.Send(ctx, "hello")
		Expect(errors.Is(err, chat.ErrNoMode)).To(BeTrue())
		Expect(panel.Messages()).To(BeEmpty())
	})

	It("seeds the greeting and clears the conversation on mode change", func() {
		panel.SelectMode(config.ChatModeStudent)
		Expect(texts()).To(Equal([]string{"bot: " + chat.Greeting}))

		mock.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(&service.ChatResponse{Reply: "hi"}, nil)
		_, err := panel.Send(ctx, "hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(panel.Messages()).To(HaveLen(3))

		panel.SelectMode(config.ChatModePro)
		Expect(panel.Mode()).To(Equal(config.ChatModePro))
		Expect(texts()).To(Equal([]string{"bot: " + chat.Greeting}))

		panel.SelectMode(config.ChatModeUnset)
		Expect(panel.Messages()).To(BeEmpty())
	})

	It("selects the configured mode at construction", func() {
		panel = chat.NewPanel(mock, chat.Config{Mode: config.ChatModePro})
		Expect(panel.Mode()).To(Equal(config.ChatModePro))
		Expect(texts()).To(Equal([]string{"bot: " + chat.Greeting}))
	})

	Describe("Send", func() {
		BeforeEach(func() {
			panel.SelectMode(config.ChatModeStudent)
		})

		It("posts the trimmed message with speech disabled", func() {
			mock.EXPECT().Chat(gomock.Any(), service.ChatRequest{
				Message: "what is a pointer?",
				Mode:    "student",
				Voice:   "male",
				TTS:     false,
			}).Return(&service.ChatResponse{Reply: "An address."}, nil)

			reply, err := panel.Send(ctx, "  what is a pointer?\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Role).To(Equal(chat.RoleBot))
			Expect(reply.Text).To(Equal("An address."))
			Expect(texts()[1:]).To(Equal([]string{
				"user: what is a pointer?",
				"bot: An address.",
			}))
			Expect(panel.Sending()).To(BeFalse())
		})

		It("ignores a blank message", func() {
			_, err := panel.Send(ctx, " \t")
			Expect(errors.Is(err, chat.ErrEmptyMessage)).To(BeTrue())
			Expect(panel.Messages()).To(HaveLen(1))
		})

		DescribeTable("renders service failures as replies",
			func(err error, want string) {
				mock.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(nil, err)

				reply, sendErr := panel.Send(ctx, "hello")
				Expect(sendErr).NotTo(HaveOccurred())
				Expect(reply.Text).To(Equal(want))
			},
			Entry("rejected with a message",
				&service.RemoteError{StatusCode: 500, Message: "model unavailable"}, "Error: model unavailable"),
			Entry("rejected without a message",
				&service.RemoteError{StatusCode: 500}, "Error: Error contacting chatbot."),
			Entry("unreachable",
				&service.TransportError{Endpoint: service.EndpointChat, Err: errors.New("refused")},
				"Error connecting to chatbot. Make sure the backend server is running on http://localhost:5000"),
		)

		It("holds one send at a time", func() {
			entered := make(chan struct{})
			release := make(chan struct{})

			mock.EXPECT().Chat(gomock.Any(), gomock.Any()).
				DoAndReturn(func(context.Context, service.ChatRequest) (*service.ChatResponse, error) {
					close(entered)
					<-release

					return &service.ChatResponse{Reply: "first"}, nil
				}).Times(1)

			done := make(chan error, 1)
			go func() {
				_, err := panel.Send(ctx, "first")
				done <- err
			}()

			Eventually(entered).Should(BeClosed())
			Expect(panel.Sending()).To(BeTrue())

			_, err := panel.Send(ctx, "second")
			Expect(errors.Is(err, chat.ErrSendInFlight)).To(BeTrue())

			_, err = panel.VoiceInput(ctx)
			Expect(errors.Is(err, chat.ErrSendInFlight)).To(BeTrue())

			close(release)
			Eventually(done).Should(Receive(BeNil()))
			Expect(panel.Sending()).To(BeFalse())
		})

		It("keeps a late reply out of the conversation of a new mode", func() {
			entered := make(chan struct{})
			release := make(chan struct{})

			mock.EXPECT().Chat(gomock.Any(), gomock.Any()).
				DoAndReturn(func(context.Context, service.ChatRequest) (*service.ChatResponse, error) {
					close(entered)
					<-release

					return &service.ChatResponse{Reply: "late"}, nil
				})

			done := make(chan chat.Message, 1)
			go func() {
				defer GinkgoRecover()

				reply, err := panel.Send(ctx, "question")
				Expect(err).NotTo(HaveOccurred())
				done <- reply
			}()

			Eventually(entered).Should(BeClosed())
			panel.SelectMode(config.ChatModePro)

			close(release)

			var reply chat.Message
			Eventually(done).Should(Receive(&reply))
			Expect(reply.Text).To(Equal("late"))
			Expect(texts()).To(Equal([]string{"bot: " + chat.Greeting}))
		})
	})

	Describe("VoiceInput", func() {
		BeforeEach(func() {
			panel.SelectMode(config.ChatModePro)
		})

		It("sends the transcript", func() {
			mock.EXPECT().VoiceInput(gomock.Any()).Return(&service.VoiceInputResponse{Text: " what is malloc "}, nil)
			mock.EXPECT().Chat(gomock.Any(), service.ChatRequest{
				Message: "what is malloc",
				Mode:    "pro",
				Voice:   "male",
			}).Return(&service.ChatResponse{Reply: "Heap allocation."}, nil)

			reply, err := panel.VoiceInput(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Text).To(Equal("Heap allocation."))
			Expect(texts()).To(ContainElement("user: what is malloc"))
		})

		It("reports an empty transcript", func() {
			mock.EXPECT().VoiceInput(gomock.Any()).Return(&service.VoiceInputResponse{}, nil)

			reply, err := panel.VoiceInput(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Text).To(Equal(chat.MsgNoSpeech))
		})

		It("reports a failed transcription", func() {
			mock.EXPECT().VoiceInput(gomock.Any()).
				Return(nil, &service.TransportError{Endpoint: service.EndpointVoiceInput, Err: errors.New("timeout")})

			reply, err := panel.VoiceInput(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(reply.Text).To(Equal(chat.MsgVoiceInputFailed))
		})
	})
})
