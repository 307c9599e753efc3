package workflow_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/codemate/internal/history"
	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/internal/workflow"
)

const (
	baseURL     = "http://localhost:5000"
	helloSource = `#include <stdio.h>
int main(void) { printf("Hello\n"); return 0; }`
	sumSource = `#include <stdio.h>
int main(void) { int a, b; scanf("%d %d", &a, &b); printf("%d", a + b); return 0; }`
	brokenSource = `int main(void) { return 0 }`
)

func ptr[T any](v T) *T { return &v }

type fakeRecorder struct {
	mu      sync.Mutex
	entries map[string]history.Entry
	order   []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{entries: make(map[string]history.Entry)}
}

func (r *fakeRecorder) Record(_ context.Context, e history.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.ID] = e
	r.order = append(r.order, e.ID)

	return nil
}

func (r *fakeRecorder) MarkFixed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return history.ErrNotFound
	}

	e.HasFix = true
	r.entries[id] = e

	return nil
}

func (r *fakeRecorder) last() history.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	Expect(r.order).NotTo(BeEmpty())

	return r.entries[r.order[len(r.order)-1]]
}

type fakeObserver struct {
	mu       sync.Mutex
	started  int
	finished []string
	runs     []bool
	dropped  []string
}

func (o *fakeObserver) CycleStarted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *fakeObserver) CycleFinished(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, outcome)
}

func (o *fakeObserver) RunFinished(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, ok)
}

func (o *fakeObserver) TaskDropped(task string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped = append(o.dropped, task)
}

func (o *fakeObserver) droppedTasks() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.dropped...)
}

var _ = Describe("Controller", func() {
	var (
		ctx        context.Context
		mock       *service.MockClient
		store      *session.Store
		recorder   *fakeRecorder
		observer   *fakeObserver
		controller *workflow.Controller
		tts        bool
		leaks      goleak.Option
	)

	newController := func() {
		controller = workflow.New(mock, store, workflow.Config{
			BaseURL:            baseURL,
			Voice:              "female",
			TTS:                tts,
			MaxBackgroundTasks: 4,
			TaskTimeout:        5 * time.Second,
		},
			workflow.WithRecorder(recorder),
			workflow.WithObserver(observer),
			workflow.WithSessionID("session-under-test"),
		)
	}

	BeforeEach(func() {
		leaks = goleak.IgnoreCurrent()
		ctx = context.Background()

		ctrl := gomock.NewController(GinkgoT())
		mock = service.NewMockClient(ctrl)
		store = session.NewStore()
		recorder = newFakeRecorder()
		observer = &fakeObserver{}
		tts = false

		newController()

		DeferCleanup(func() {
			controller.Wait()
			controller.Close()
			Expect(goleak.Find(leaks)).To(Succeed())
		})
	})

	successResponse := func(output *string) *service.CompileResponse {
		return &service.CompileResponse{
			Status:         service.StatusSuccess,
			Classification: &service.Classification{ErrorType: "None"},
			ProgramOutput:  output,
		}
	}

	failureResponse := func() *service.CompileResponse {
		return &service.CompileResponse{
			Status:   service.StatusFailed,
			RawError: "main.c:1:28: error: expected ';' before '}' token",
			Classification: &service.Classification{
				ErrorType:       "Syntax Error",
				ErrorCount:      2,
				WarningCount:    1,
				SeverityPercent: 70,
			},
		}
	}

	Describe("Analyze", func() {
		DescribeTable("rejects blank source without calling the service",
			func(source string) {
				store.SetSource(source)

				err := controller.Analyze(ctx)
				Expect(errors.Is(err, workflow.ErrEmptySource)).To(BeTrue())
				Expect(workflow.UserMessage(err)).To(Equal("Please paste or upload your C code first."))
				Expect(store.Snapshot().Phase).To(Equal(session.PhaseIdle))
			},
			Entry("empty", ""),
			Entry("whitespace", "  \n\t"),
		)

		Context("when the program needs no input", func() {
			BeforeEach(func() {
				store.SetSource(helloSource)
			})

			It("shows the trimmed program output", func() {
				mock.EXPECT().Compile(gomock.Any(), helloSource).Return(successResponse(ptr("Hello\n")), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), service.Classification{ErrorType: "None"}).Return(nil)

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				snap := store.Snapshot()
				Expect(snap.Phase).To(Equal(session.PhaseCleanNoInput))
				Expect(snap.Analyzing).To(BeFalse())
				Expect(snap.CompilationSuccess()).To(BeTrue())
				Expect(snap.Output).To(Equal("Hello"))
				Expect(snap.Notice()).To(Equal(workflow.MsgCompiledWithOutput))
				Expect(snap.Visibility).To(Equal(session.Visibility{Output: true}))
			})

			DescribeTable("falls back to the no-output placeholder",
				func(output *string) {
					mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(output), nil)
					mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)

					Expect(controller.Analyze(ctx)).To(Succeed())
					Expect(store.Snapshot().Output).To(Equal("(Program executed successfully with no output)"))
				},
				Entry("missing output", nil),
				Entry("empty output", ptr("")),
				Entry("whitespace output", ptr(" \n ")),
			)

			It("moves to CleanNeedsInput when the service reports an input marker", func() {
				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).
					Return(successResponse(ptr("(Program requires input - provide stdin)")), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)

				Expect(controller.Analyze(ctx)).To(Succeed())

				snap := store.Snapshot()
				Expect(snap.Phase).To(Equal(session.PhaseCleanNeedsInput))
				Expect(snap.StaticNeedsInput).To(BeFalse())
				Expect(snap.Outcome.NeedsInput).To(BeTrue())
			})

			It("swallows a telemetry failure", func() {
				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(ptr("Hello")), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).
					Return(&service.TransportError{Endpoint: service.EndpointHardwareUpdate, Err: errors.New("refused")})

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				Expect(store.Snapshot().Output).To(Equal("Hello"))
				Expect(observer.droppedTasks()).To(Equal([]string{workflow.TaskTelemetry}))
			})

			It("delivers telemetry when closed right after the analysis", func() {
				var sent sync.WaitGroup

				sent.Add(1)
				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(ptr("Hello")), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, _ service.Classification) error {
						defer sent.Done()

						time.Sleep(20 * time.Millisecond)

						return ctx.Err()
					})

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Close()

				sent.Wait()
				Expect(observer.droppedTasks()).To(BeEmpty())
			})
		})

		Context("when the program reads stdin", func() {
			BeforeEach(func() {
				store.SetSource(sumSource)
			})

			It("waits for input regardless of the service output", func() {
				mock.EXPECT().Compile(gomock.Any(), sumSource).Return(successResponse(ptr("3")), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				snap := store.Snapshot()
				Expect(snap.Phase).To(Equal(session.PhaseCleanNeedsInput))
				Expect(snap.StaticNeedsInput).To(BeTrue())
				Expect(snap.Output).To(BeEmpty())
				Expect(snap.Notice()).To(Equal(workflow.MsgCompiledNeedsInput))
				Expect(snap.Visibility).To(Equal(session.Visibility{InputArea: true}))
			})

			It("speaks the instruction when speech is enabled", func() {
				tts = true
				newController()

				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(nil), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
				mock.EXPECT().Speak(gomock.Any(), workflow.MsgCompiledNeedsInput, "female").Return(nil)

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()
			})
		})

		Context("when compilation fails", func() {
			BeforeEach(func() {
				store.SetSource(brokenSource)
			})

			It("shows the meter and the explanation, and keeps a later fix", func() {
				release := make(chan struct{})
				cls := *failureResponse().Classification

				mock.EXPECT().Compile(gomock.Any(), brokenSource).Return(failureResponse(), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), cls).Return(nil)
				mock.EXPECT().ExplainError(gomock.Any(), failureResponse().RawError, cls).
					Return(&service.ExplainResponse{Explanation: "Add a semicolon after 0."}, nil)
				mock.EXPECT().Autofix(gomock.Any(), brokenSource).
					DoAndReturn(func(context.Context, string) (*service.AutofixResponse, error) {
						<-release

						return &service.AutofixResponse{FixedCode: "int main(void) { return 0; }"}, nil
					})

				Expect(controller.Analyze(ctx)).To(Succeed())

				snap := store.Snapshot()
				Expect(snap.Phase).To(Equal(session.PhaseFailed))
				Expect(snap.Analyzing).To(BeFalse())
				Expect(snap.Explanation).To(Equal("Add a semicolon after 0."))
				Expect(snap.Outcome.RawError).To(ContainSubstring("expected ';'"))
				Expect(snap.Visibility.SeverityMeter).To(BeTrue())
				Expect(snap.FixedCode).To(BeEmpty())
				Expect(snap.CompilationSuccess()).To(BeFalse())

				controller.DismissSeverityMeter()
				close(release)
				controller.Wait()

				snap = store.Snapshot()
				Expect(snap.FixedCode).To(Equal("int main(void) { return 0; }"))
				Expect(snap.Visibility.SeverityMeter).To(BeFalse())
				Expect(snap.Visibility.CorrectedCode).To(BeFalse())
				Expect(snap.Phase).To(Equal(session.PhaseFailed))

				Expect(controller.ShowCorrectedCode()).To(Succeed())
				Expect(store.Snapshot().Visibility.CorrectedCode).To(BeTrue())
			})

			It("keeps a fix that lands before the explanation", func() {
				fixed := make(chan struct{})

				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(failureResponse(), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
				mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).
					DoAndReturn(func(context.Context, string) (*service.AutofixResponse, error) {
						defer close(fixed)

						return &service.AutofixResponse{FixedCode: "fixed"}, nil
					})
				mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(context.Context, string, service.Classification) (*service.ExplainResponse, error) {
						<-fixed
						Eventually(func() string { return store.Snapshot().FixedCode }).Should(Equal("fixed"))

						return &service.ExplainResponse{Explanation: "late explanation"}, nil
					})

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				snap := store.Snapshot()
				Expect(snap.FixedCode).To(Equal("fixed"))
				Expect(snap.Explanation).To(Equal("late explanation"))
				Expect(recorder.last().HasFix).To(BeTrue())
			})

			It("swallows an autofix failure", func() {
				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(failureResponse(), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
				mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.ExplainResponse{Explanation: "x"}, nil)
				mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).
					Return(nil, &service.RemoteError{Endpoint: service.EndpointAutofix, StatusCode: 500, Message: "quota"})

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				snap := store.Snapshot()
				Expect(snap.FixedCode).To(BeEmpty())
				Expect(snap.Explanation).To(Equal("x"))
				Expect(observer.droppedTasks()).To(ContainElement(workflow.TaskAutofix))
				Expect(errors.Is(controller.ShowCorrectedCode(), session.ErrNoCorrectedCode)).To(BeTrue())
			})

			It("ignores an empty fix", func() {
				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(failureResponse(), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
				mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.ExplainResponse{Explanation: "x"}, nil)
				mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).Return(&service.AutofixResponse{}, nil)

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				Expect(store.Snapshot().FixedCode).To(BeEmpty())
				Expect(observer.droppedTasks()).To(BeEmpty())
			})

			DescribeTable("explanation fallbacks",
				func(resp *service.ExplainResponse, err error, want string) {
					mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(failureResponse(), nil)
					mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
					mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).Return(&service.AutofixResponse{}, nil)
					mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).Return(resp, err)

					Expect(controller.Analyze(ctx)).To(Succeed())
					Expect(store.Snapshot().Explanation).To(Equal(want))
				},
				Entry("empty explanation",
					&service.ExplainResponse{}, nil, "No explanation available."),
				Entry("service error",
					nil, &service.RemoteError{StatusCode: 500, Message: "model overloaded"}, "model overloaded"),
				Entry("service error without message",
					nil, &service.RemoteError{StatusCode: 500}, "Failed to get explanation."),
				Entry("connection failure",
					nil, &service.TransportError{Err: errors.New("dial tcp: refused")}, "Error connecting to explanation service."),
			)

			It("hides the meter when nothing was counted", func() {
				resp := failureResponse()
				resp.Classification = &service.Classification{ErrorType: "Linker Error"}

				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(resp, nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
				mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).Return(&service.AutofixResponse{}, nil)
				mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.ExplainResponse{Explanation: "undefined reference"}, nil)

				Expect(controller.Analyze(ctx)).To(Succeed())
				Expect(store.Snapshot().Visibility.SeverityMeter).To(BeFalse())
			})

			It("speaks the gauge when speech is enabled", func() {
				tts = true
				newController()

				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(failureResponse(), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
				mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).Return(&service.AutofixResponse{}, nil)
				mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.ExplainResponse{Explanation: "x"}, nil)
				mock.EXPECT().Speak(
					gomock.Any(),
					"Error severity meter shows 70 percent. 2 errors and 1 warnings found. Error type: Syntax Error.",
					"female",
				).Return(nil)

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()
			})
		})

		Context("when the service is unreachable", func() {
			It("shows the connectivity message and makes no further calls", func() {
				store.SetSource(brokenSource)
				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).
					Return(nil, &service.TransportError{Endpoint: service.EndpointCompile, Err: errors.New("refused")})

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				snap := store.Snapshot()
				Expect(snap.Phase).To(Equal(session.PhaseDone))
				Expect(snap.Analyzing).To(BeFalse())
				Expect(snap.CompilationSuccess()).To(BeFalse())
				Expect(snap.Notice()).To(Equal(
					"Error connecting to backend. Please make sure the backend server is running on http://localhost:5000",
				))
				Expect(snap.Explanation).To(BeEmpty())
				Expect(snap.Outcome.Classification).To(BeNil())
				Expect(snap.Visibility).To(Equal(session.Visibility{}))
			})

			It("clears results of the previous cycle", func() {
				store.SetSource(brokenSource)

				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(failureResponse(), nil)
				mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
				mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).Return(&service.AutofixResponse{FixedCode: "f"}, nil)
				mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&service.ExplainResponse{Explanation: "old"}, nil)

				Expect(controller.Analyze(ctx)).To(Succeed())
				controller.Wait()

				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).
					Return(nil, &service.TransportError{Err: errors.New("refused")})

				Expect(controller.Analyze(ctx)).To(Succeed())

				snap := store.Snapshot()
				Expect(snap.Explanation).To(BeEmpty())
				Expect(snap.FixedCode).To(BeEmpty())
				Expect(snap.Classification()).To(Equal(service.Classification{}))
			})
		})

		DescribeTable("a rejected compile request",
			func(message, want string) {
				store.SetSource(helloSource)
				mock.EXPECT().Compile(gomock.Any(), gomock.Any()).
					Return(nil, &service.RemoteError{Endpoint: service.EndpointCompile, StatusCode: 400, Message: message})

				Expect(controller.Analyze(ctx)).To(Succeed())

				snap := store.Snapshot()
				Expect(snap.Phase).To(Equal(session.PhaseDone))
				Expect(snap.Outcome.Kind).To(Equal(session.OutcomeRemoteFailure))
				Expect(snap.Explanation).To(Equal(want))
			},
			Entry("with a service message", "No code provided", "No code provided"),
			Entry("without a message", "", "Compilation failed. Please check your code."),
		)

		It("is a no-op while an analysis is in flight", func() {
			store.SetSource(helloSource)

			entered := make(chan struct{})
			release := make(chan struct{})

			mock.EXPECT().Compile(gomock.Any(), gomock.Any()).
				DoAndReturn(func(context.Context, string) (*service.CompileResponse, error) {
					close(entered)
					<-release

					return successResponse(ptr("Hello")), nil
				}).Times(1)
			mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)

			done := make(chan error, 1)
			go func() { done <- controller.Analyze(ctx) }()

			Eventually(entered).Should(BeClosed())

			err := controller.Analyze(ctx)
			Expect(errors.Is(err, session.ErrAnalysisInFlight)).To(BeTrue())

			close(release)
			Eventually(done).Should(Receive(BeNil()))
			Expect(store.Snapshot().Cycle).To(Equal(uint64(1)))
		})

		It("drops a fix that belongs to a superseded cycle", func() {
			store.SetSource(brokenSource)

			release := make(chan struct{})

			mock.EXPECT().Compile(gomock.Any(), brokenSource).Return(failureResponse(), nil)
			mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			mock.EXPECT().ExplainError(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&service.ExplainResponse{Explanation: "x"}, nil)
			mock.EXPECT().Autofix(gomock.Any(), gomock.Any()).
				DoAndReturn(func(context.Context, string) (*service.AutofixResponse, error) {
					<-release

					return &service.AutofixResponse{FixedCode: "stale fix"}, nil
				})

			Expect(controller.Analyze(ctx)).To(Succeed())

			store.SetSource(helloSource)
			mock.EXPECT().Compile(gomock.Any(), helloSource).Return(successResponse(ptr("Hello")), nil)
			Expect(controller.Analyze(ctx)).To(Succeed())

			close(release)
			controller.Wait()

			snap := store.Snapshot()
			Expect(snap.Cycle).To(Equal(uint64(2)))
			Expect(snap.FixedCode).To(BeEmpty())
			Expect(snap.Output).To(Equal("Hello"))
		})

		It("records each settled cycle", func() {
			store.SetSource(helloSource)
			mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(ptr("Hello")), nil)
			mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)

			Expect(controller.Analyze(ctx)).To(Succeed())

			entry := recorder.last()
			Expect(entry.SessionID).To(Equal("session-under-test"))
			Expect(entry.Cycle).To(Equal(uint64(1)))
			Expect(entry.Outcome).To(Equal("success"))
			Expect(entry.SourceDigest).To(Equal(history.Digest(helloSource)))
			Expect(entry.SourceBytes).To(Equal(len(helloSource)))
			Expect(entry.FinishedAt).NotTo(BeTemporally("<", entry.StartedAt))
			Expect(observer.finished).To(Equal([]string{"success"}))
		})
	})

	Describe("Run", func() {
		needsInput := func() {
			store.SetSource(sumSource)
			mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(nil), nil)
			mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
			Expect(controller.Analyze(ctx)).To(Succeed())
		}

		It("is unavailable before a successful compile", func() {
			err := controller.Run(ctx)
			Expect(errors.Is(err, session.ErrRunUnavailable)).To(BeTrue())
			Expect(workflow.UserMessage(err)).To(Equal(workflow.MsgRunUnavailable))
		})

		It("sends the input buffer and clears it afterwards", func() {
			needsInput()
			controller.SetProgramInput("10 20")

			mock.EXPECT().Run(gomock.Any(), sumSource, "10 20").
				DoAndReturn(func(context.Context, string, string) (*service.RunResponse, error) {
					snap := store.Snapshot()
					Expect(snap.Output).To(Equal("Running program..."))
					Expect(snap.Visibility.Output).To(BeTrue())

					return &service.RunResponse{Status: service.StatusSuccess, Stdout: "30"}, nil
				})

			Expect(controller.Run(ctx)).To(Succeed())

			snap := store.Snapshot()
			Expect(snap.Phase).To(Equal(session.PhaseDone))
			Expect(snap.Output).To(Equal("30"))
			Expect(snap.Stdin).To(BeEmpty())
			Expect(snap.Visibility.InputArea).To(BeFalse())
			Expect(snap.Visibility.Output).To(BeTrue())
			Expect(observer.runs).To(Equal([]bool{true}))
		})

		DescribeTable("formats the result",
			func(resp *service.RunResponse, err error, want string) {
				needsInput()
				mock.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(resp, err)

				Expect(controller.Run(ctx)).To(Succeed())
				Expect(store.Snapshot().Output).To(Equal(want))
			},
			Entry("no stdout",
				&service.RunResponse{Status: service.StatusSuccess}, nil, "(No output)"),
			Entry("error field",
				&service.RunResponse{Status: service.StatusFailed, Error: "Timeout", Stderr: "ignored"}, nil,
				"Execution failed:\nTimeout"),
			Entry("stderr field",
				&service.RunResponse{Status: service.StatusFailed, Stderr: "Segmentation fault"}, nil,
				"Execution failed:\nSegmentation fault"),
			Entry("nothing reported",
				&service.RunResponse{Status: service.StatusFailed}, nil,
				"Execution failed:\nUnknown error"),
			Entry("rejected request",
				nil, &service.RemoteError{StatusCode: 400, Message: "No code provided"},
				"Execution failed:\nNo code provided"),
			Entry("connection failure",
				nil, &service.TransportError{Err: errors.New("refused")},
				"Error running program. Check backend connection."),
		)

		It("runs the text that was analyzed", func() {
			needsInput()
			controller.SetSource("int main(void) { /* edited */ }")

			mock.EXPECT().Run(gomock.Any(), sumSource, "").
				Return(&service.RunResponse{Status: service.StatusSuccess, Stdout: "0"}, nil)

			Expect(controller.Run(ctx)).To(Succeed())
		})
	})

	Describe("ViewOutput", func() {
		It("runs when the input area is shown", func() {
			store.SetSource(sumSource)
			mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(nil), nil)
			mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
			Expect(controller.Analyze(ctx)).To(Succeed())

			mock.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&service.RunResponse{Status: service.StatusSuccess, Stdout: "3"}, nil)

			Expect(controller.ViewOutput(ctx)).To(Succeed())
			Expect(store.Snapshot().Output).To(Equal("3"))
		})

		It("does nothing when output is shown", func() {
			store.SetSource(helloSource)
			mock.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(successResponse(ptr("Hello")), nil)
			mock.EXPECT().UpdateHardware(gomock.Any(), gomock.Any()).Return(nil)
			Expect(controller.Analyze(ctx)).To(Succeed())

			Expect(controller.ViewOutput(ctx)).To(Succeed())
			Expect(store.Snapshot().Phase).To(Equal(session.PhaseCleanNoInput))
		})

		It("refuses to reveal the input area after a failed cycle", func() {
			store.SetSource(helloSource)
			mock.EXPECT().Compile(gomock.Any(), gomock.Any()).
				Return(nil, &service.TransportError{Err: errors.New("refused")})
			Expect(controller.Analyze(ctx)).To(Succeed())

			err := controller.ViewOutput(ctx)
			Expect(errors.Is(err, session.ErrRunUnavailable)).To(BeTrue())
		})
	})

	Describe("source input", func() {
		It("applies a paste only in the editor", func() {
			Expect(controller.Paste("int x;", workflow.FocusEditor)).To(BeTrue())
			Expect(store.Snapshot().Source).To(Equal("int x;"))

			Expect(controller.Paste("int y;", workflow.FocusUnknown)).To(BeFalse())
			Expect(controller.Paste("int y;", workflow.FocusChat)).To(BeFalse())
			Expect(controller.Paste("   ", workflow.FocusEditor)).To(BeFalse())
			Expect(store.Snapshot().Source).To(Equal("int x;"))
		})

		It("loads C sources only", func() {
			dir := GinkgoT().TempDir()
			cPath := filepath.Join(dir, "main.c")
			pyPath := filepath.Join(dir, "main.py")
			Expect(os.WriteFile(cPath, []byte(helloSource), 0o600)).To(Succeed())
			Expect(os.WriteFile(pyPath, []byte("print(1)"), 0o600)).To(Succeed())

			Expect(controller.LoadFile(cPath)).To(Succeed())
			Expect(store.Snapshot().Source).To(Equal(helloSource))

			err := controller.LoadFile(pyPath)
			Expect(errors.Is(err, workflow.ErrUnsupportedFile)).To(BeTrue())
			Expect(workflow.UserMessage(err)).To(Equal(workflow.MsgUnsupportedFile))

			Expect(controller.LoadFile(filepath.Join(dir, "missing.c"))).NotTo(Succeed())
		})

		It("toggles the chat panel without touching the analysis", func() {
			Expect(controller.ToggleChat()).To(BeTrue())
			Expect(store.Snapshot().Visibility.Chat).To(BeTrue())
			Expect(controller.ToggleChat()).To(BeFalse())
		})
	})

	Describe("Start", func() {
		It("records a reachable backend", func() {
			mock.EXPECT().Health(gomock.Any()).
				Return(&service.HealthResponse{Message: "CodeMate backend is running!"}, nil)

			conn := controller.Start(ctx)
			Expect(conn.Reachable).To(BeTrue())
			Expect(conn.Message).To(Equal("CodeMate backend is running!"))
		})

		It("records an unreachable backend", func() {
			mock.EXPECT().Health(gomock.Any()).Return(nil, &service.TransportError{Err: errors.New("refused")})

			conn := controller.Start(ctx)
			Expect(conn.Checked).To(BeTrue())
			Expect(conn.Reachable).To(BeFalse())
			Expect(conn.Message).To(ContainSubstring(baseURL))
		})
	})
})
