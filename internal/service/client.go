// Package service is the HTTP client for the remote analysis service: compile,
// run, explain, autofix, telemetry, chat, voice transcription and speech.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/pkg/logger"
)

//go:generate mockgen -source=client.go -destination=client_mock.go -package=service

// Endpoint names, used for logging, metrics and error messages.
const (
	EndpointHealth         = "health"
	EndpointCompile        = "compile"
	EndpointRun            = "run"
	EndpointExplain        = "explain_error"
	EndpointAutofix        = "autofix"
	EndpointHardwareUpdate = "hardware/update"
	EndpointHardwareStatus = "hardware/status"
	EndpointChat           = "chat"
	EndpointVoiceInput     = "voice_input"
	EndpointSpeak          = "tts/speak"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Client is the controller's view of the remote analysis service.
//
// Every method returns a *TransportError for connectivity or decoding failures
// and a *RemoteError for a non-2xx response with a decodable body.
type Client interface {
	Health(ctx context.Context) (*HealthResponse, error)
	Compile(ctx context.Context, code string) (*CompileResponse, error)
	Run(ctx context.Context, code, stdin string) (*RunResponse, error)
	ExplainError(ctx context.Context, rawError string, cls Classification) (*ExplainResponse, error)
	Autofix(ctx context.Context, code string) (*AutofixResponse, error)
	UpdateHardware(ctx context.Context, cls Classification) error
	HardwareStatus(ctx context.Context) (*HardwareStatus, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	VoiceInput(ctx context.Context) (*VoiceInputResponse, error)
	Speak(ctx context.Context, text, voice string) error
}

// Observer receives one call per finished request.
type Observer interface {
	ObserveRequest(endpoint, outcome string, elapsed time.Duration)
}

// Request outcomes passed to Observer.
const (
	OutcomeOK        = "ok"
	OutcomeRemote    = "remote_error"
	OutcomeTransport = "transport_error"
)

// HTTPClient implements Client over JSON HTTP.
type HTTPClient struct {
	baseURL  *url.URL
	http     *http.Client
	timeout  time.Duration
	logger   logger.Logger
	observer Observer
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// WithTimeout bounds calls whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(h *HTTPClient) {
		if log != nil {
			h.logger = log
		}
	}
}

// WithObserver sets a request observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(h *HTTPClient) {
		h.observer = o
	}
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base URL %q", baseURL)
	}

	h := &HTTPClient{
		baseURL: u,
		http:    http.DefaultClient,
		logger:  logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// BaseURL returns the service base URL without a trailing slash.
func (h *HTTPClient) BaseURL() string {
	return strings.TrimRight(h.baseURL.String(), "/")
}

// Health probes GET /.
func (h *HTTPClient) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse

	if err := h.do(ctx, http.MethodGet, "", EndpointHealth, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Compile submits code for compilation and, when it needs no input, execution.
func (h *HTTPClient) Compile(ctx context.Context, code string) (*CompileResponse, error) {
	var out CompileResponse

	if err := h.post(ctx, EndpointCompile, CompileRequest{Code: code}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Run compiles and executes code with stdin. Each call is a new execution.
func (h *HTTPClient) Run(ctx context.Context, code, stdin string) (*RunResponse, error) {
	var out RunResponse

	if err := h.post(ctx, EndpointRun, RunRequest{Code: code, Stdin: stdin}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// ExplainError asks for a human explanation of the compiler output.
func (h *HTTPClient) ExplainError(
	ctx context.Context,
	rawError string,
	cls Classification,
) (*ExplainResponse, error) {
	var out ExplainResponse

	req := ExplainRequest{RawError: rawError, Classification: cls}
	if err := h.post(ctx, EndpointExplain, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Autofix asks for a corrected version of code.
func (h *HTTPClient) Autofix(ctx context.Context, code string) (*AutofixResponse, error) {
	var out AutofixResponse

	if err := h.post(ctx, EndpointAutofix, AutofixRequest{Code: code}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateHardware forwards the classification to the severity display device.
func (h *HTTPClient) UpdateHardware(ctx context.Context, cls Classification) error {
	return h.post(ctx, EndpointHardwareUpdate, HardwareUpdateRequest{Classification: cls}, nil)
}

// HardwareStatus reports whether the severity display device is attached.
func (h *HTTPClient) HardwareStatus(ctx context.Context) (*HardwareStatus, error) {
	var out HardwareStatus

	if err := h.do(ctx, http.MethodGet, EndpointHardwareStatus, EndpointHardwareStatus, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Chat sends one message to the assistant.
func (h *HTTPClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse

	if err := h.post(ctx, EndpointChat, req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// VoiceInput records and transcribes one utterance on the service host.
func (h *HTTPClient) VoiceInput(ctx context.Context) (*VoiceInputResponse, error) {
	var out VoiceInputResponse

	if err := h.post(ctx, EndpointVoiceInput, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Speak asks the service host to say text aloud.
func (h *HTTPClient) Speak(ctx context.Context, text, voice string) error {
	return h.post(ctx, EndpointSpeak, SpeakRequest{Text: text, Voice: voice}, nil)
}

func (h *HTTPClient) post(ctx context.Context, endpoint string, in, out any) error {
	return h.do(ctx, http.MethodPost, endpoint, endpoint, in, out)
}

//nolint:gosec // G704: URL is built from configured base URL and fixed endpoint paths
func (h *HTTPClient) do(
	ctx context.Context,
	method, path, endpoint string,
	in, out any,
) (err error) {
	start := time.Now()

	defer func() {
		h.finish(endpoint, start, err)
	}()

	if _, ok := ctx.Deadline(); !ok && h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	var body io.Reader

	if in != nil {
		data, marshalErr := json.Marshal(in)
		if marshalErr != nil {
			return errors.Wrapf(marshalErr, "encoding %s request", endpoint)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return errors.Wrapf(err, "creating %s request", endpoint)
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on response body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: errors.Wrap(err, "reading body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if jsonErr := json.Unmarshal(data, &eb); jsonErr != nil {
			return &TransportError{
				Endpoint: endpoint,
				Err:      errors.Newf("HTTP %d with undecodable body", resp.StatusCode),
			}
		}

		msg := eb.Error
		if msg == "" {
			msg = eb.Stderr
		}

		return &RemoteError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Endpoint: endpoint, Err: errors.Wrap(err, "decoding body")}
	}

	return nil
}

func (h *HTTPClient) finish(endpoint string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := OutcomeOK

	switch {
	case err == nil:
	case errors.Is(err, ErrRemote):
		outcome = OutcomeRemote
	default:
		outcome = OutcomeTransport
	}

	h.logger.Debug("service call finished",
		"endpoint", endpoint,
		"outcome", outcome,
		"elapsed", elapsed,
	)

	if h.observer != nil {
		h.observer.ObserveRequest(endpoint, outcome, elapsed)
	}
}
