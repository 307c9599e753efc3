package service_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/codemate/internal/service"
)

var _ = Describe("HTTPClient", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		client  *service.HTTPClient
		ctx     context.Context
	)

	respond := func(status int, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		handler = respond(http.StatusOK, `{}`)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		DeferCleanup(server.Close)

		var err error
		client, err = service.NewHTTPClient(server.URL+"/", service.WithHTTPClient(server.Client()))
		Expect(err).NotTo(HaveOccurred())
	})

	It("trims the trailing slash from the base URL", func() {
		Expect(client.BaseURL()).To(Equal(server.URL))
	})

	Describe("Compile", func() {
		It("posts the code and decodes a failure payload", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/compile"))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

				var req service.CompileRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.Code).To(Equal("int main(){}"))

				respond(http.StatusOK, `{
					"status": "failed",
					"raw_error": "main.c:1: error: x",
					"classification": {"error_type": "Syntax Error", "error_count": 2,
						"warning_count": 1, "severity_percent": 70, "severity_label": "High"}
				}`)(w, r)
			}

			resp, err := client.Compile(ctx, "int main(){}")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Succeeded()).To(BeFalse())
			Expect(resp.RawError).To(Equal("main.c:1: error: x"))
			Expect(resp.GetClassification()).To(Equal(service.Classification{
				ErrorType:       "Syntax Error",
				ErrorCount:      2,
				WarningCount:    1,
				SeverityPercent: 70,
				SeverityLabel:   "High",
			}))
		})

		It("distinguishes a missing program output from an empty one", func() {
			handler = respond(http.StatusOK, `{"status":"success"}`)
			resp, err := client.Compile(ctx, "x")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ProgramOutput).To(BeNil())
			Expect(resp.Output()).To(BeEmpty())

			handler = respond(http.StatusOK, `{"status":"success","program_output":""}`)
			resp, err = client.Compile(ctx, "x")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ProgramOutput).NotTo(BeNil())
		})

		It("returns a RemoteError for a non-2xx JSON body", func() {
			handler = respond(http.StatusBadRequest, `{"error":"No code provided"}`)

			_, err := client.Compile(ctx, "")
			remote, ok := service.AsRemote(err)
			Expect(ok).To(BeTrue())
			Expect(remote.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(remote.Message).To(Equal("No code provided"))
			Expect(errors.Is(err, service.ErrRemote)).To(BeTrue())
			Expect(service.IsTransport(err)).To(BeFalse())
		})

		It("returns a TransportError for a non-2xx body that is not JSON", func() {
			handler = respond(http.StatusBadGateway, `<html>bad gateway</html>`)

			_, err := client.Compile(ctx, "x")
			Expect(service.IsTransport(err)).To(BeTrue())
		})

		It("returns a TransportError for an undecodable 2xx body", func() {
			handler = respond(http.StatusOK, `not json`)

			_, err := client.Compile(ctx, "x")
			Expect(service.IsTransport(err)).To(BeTrue())
		})
	})

	It("returns a TransportError when the server is gone", func() {
		server.Close()

		_, err := client.Health(ctx)
		Expect(service.IsTransport(err)).To(BeTrue())

		var transport *service.TransportError
		Expect(errors.As(err, &transport)).To(BeTrue())
		Expect(transport.Endpoint).To(Equal(service.EndpointHealth))
	})

	It("probes GET /", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodGet))
			Expect(r.URL.Path).To(Equal("/"))
			respond(http.StatusOK, `{"message":"CodeMate backend is running!"}`)(w, r)
		}

		resp, err := client.Health(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Message).To(Equal("CodeMate backend is running!"))
	})

	It("sends stdin with run and uses stderr when error is absent", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			var req service.RunRequest
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req.Stdin).To(Equal("10 20"))
			respond(http.StatusBadRequest, `{"status":"failed","stderr":"main.c: error"}`)(w, r)
		}

		_, err := client.Run(ctx, "code", "10 20")
		remote, ok := service.AsRemote(err)
		Expect(ok).To(BeTrue())
		Expect(remote.Message).To(Equal("main.c: error"))
	})

	It("sends the classification to explain_error", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/explain_error"))

			var req service.ExplainRequest
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req.RawError).To(Equal("boom"))
			Expect(req.Classification.ErrorCount).To(Equal(1))
			respond(http.StatusOK, `{"explanation":"missing semicolon"}`)(w, r)
		}

		resp, err := client.ExplainError(ctx, "boom", service.Classification{ErrorCount: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Explanation).To(Equal("missing semicolon"))
	})

	It("posts chat without server-side speech", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			var raw map[string]any
			Expect(json.NewDecoder(r.Body).Decode(&raw)).To(Succeed())
			Expect(raw).To(HaveKeyWithValue("tts", false))
			Expect(raw).To(HaveKeyWithValue("mode", "pro"))
			respond(http.StatusOK, `{"reply":"use fgets"}`)(w, r)
		}

		resp, err := client.Chat(ctx, service.ChatRequest{Message: "hi", Mode: "pro", Voice: "female"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Reply).To(Equal("use fgets"))
	})

	It("reads hardware status", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/hardware/status"))
			respond(http.StatusOK, `{"connected":true,"port":"/dev/ttyUSB0"}`)(w, r)
		}

		status, err := client.HardwareStatus(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Connected).To(BeTrue())
		Expect(status.Port).To(Equal("/dev/ttyUSB0"))
	})

	It("ignores the body of fire-and-forget calls", func() {
		handler = respond(http.StatusOK, `whatever`)

		Expect(client.Speak(ctx, "hello", "female")).To(Succeed())
		Expect(client.UpdateHardware(ctx, service.Classification{})).To(Succeed())
	})

	It("applies the default timeout when the context has no deadline", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}

		slow, err := service.NewHTTPClient(server.URL,
			service.WithHTTPClient(server.Client()),
			service.WithTimeout(50*time.Millisecond),
		)
		Expect(err).NotTo(HaveOccurred())

		_, err = slow.VoiceInput(ctx)
		Expect(service.IsTransport(err)).To(BeTrue())
	})

	It("reports every call to the observer", func() {
		ctrl := gomock.NewController(GinkgoT())
		observer := service.NewMockObserver(ctrl)

		observed, err := service.NewHTTPClient(server.URL,
			service.WithHTTPClient(server.Client()),
			service.WithObserver(observer),
		)
		Expect(err).NotTo(HaveOccurred())

		handler = respond(http.StatusInternalServerError, `{"error":"quota"}`)
		observer.EXPECT().ObserveRequest(service.EndpointChat, service.OutcomeRemote, gomock.Any())

		_, err = observed.Chat(ctx, service.ChatRequest{Message: "x"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Classification", func() {
	It("reports findings", func() {
		Expect(service.Classification{}.HasFindings()).To(BeFalse())
		Expect(service.Classification{WarningCount: 1}.HasFindings()).To(BeTrue())
	})

	It("defaults the display type", func() {
		Expect(service.Classification{}.DisplayType()).To(Equal("Unknown"))
		Expect(service.Classification{ErrorType: "Linker Error"}.DisplayType()).To(Equal("Linker Error"))
	})
})
