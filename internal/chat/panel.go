// Package chat implements the assistant chat panel: mode selection, a single
// in-flight send and voice input.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/pkg/config"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

// Panel messages.
const (
	Greeting             = "Hi there! I'm here to assist you with your C programming questions."
	MsgContactFailed     = "Error contacting chatbot."
	MsgNoSpeech          = "Did not catch any speech."
	MsgVoiceInputFailed  = "Voice input failed."
	msgUnreachableFormat = "Error connecting to chatbot. Make sure the backend server is running on %s"
)

var (
	// ErrNoMode is returned when sending before a mode was selected.
	ErrNoMode = errors.New("chat mode not selected")

	// ErrEmptyMessage is returned for a blank message.
	ErrEmptyMessage = errors.New("chat message is empty")

	// ErrSendInFlight is returned while another send or transcription runs.
	ErrSendInFlight = errors.New("chat send already in flight")
)

// Role identifies the author of a message.
type Role string

// Message authors.
const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one chat line.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Config holds the panel settings.
type Config struct {
	BaseURL string
	Voice   string
	Mode    config.ChatMode
}

// Panel is the chat panel controller. It is safe for concurrent use.
type Panel struct {
	client  service.Client
	baseURL string
	voice   string
	logger  logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	mode     config.ChatMode
	messages []Message
	sending  bool

	// generation bumps on every mode change. Replies of an older
	// generation belong to a cleared conversation and are dropped.
	generation uint64
}

// Option configures the Panel.
type Option func(*Panel)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Panel) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(p *Panel) {
		if fn != nil {
			p.now = fn
		}
	}
}

// NewPanel creates a panel. A configured mode is selected immediately.
func NewPanel(client service.Client, cfg Config, opts ...Option) *Panel {
	p := &Panel{
		client:  client,
		baseURL: cfg.BaseURL,
		voice:   cfg.Voice,
		logger:  logger.NewNoOpLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if cfg.Mode != config.ChatModeUnset {
		p.SelectMode(cfg.Mode)
	}

	return p
}

// SelectMode switches the persona, clears the conversation and seeds the
// greeting. ChatModeUnset returns the panel to the mode selector.
func (p *Panel) SelectMode(mode config.ChatMode) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mode = mode
	p.messages = nil
	p.generation++

	if mode != config.ChatModeUnset {
		p.appendLocked(RoleBot, Greeting)
	}
}

// Mode returns the selected mode.
func (p *Panel) Mode() config.ChatMode {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.mode
}

// Messages returns a copy of the conversation.
func (p *Panel) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Message, len(p.messages))
	copy(out, p.messages)

	return out
}

// Sending reports whether a send or transcription is in flight.
func (p *Panel) Sending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sending
}

// Send posts text to the assistant and returns the bot reply line. Service
// failures become the reply text; only guard violations are returned as errors.
func (p *Panel) Send(ctx context.Context, text string) (Message, error) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return Message{}, ErrEmptyMessage
	}

	t, err := p.acquire()
	if err != nil {
		return Message{}, err
	}
	defer p.release()

	return p.send(ctx, t, msg), nil
}

// VoiceInput transcribes speech on the service host and sends the transcript.
func (p *Panel) VoiceInput(ctx context.Context) (Message, error) {
	t, err := p.acquire()
	if err != nil {
		return Message{}, err
	}
	defer p.release()

	resp, err := p.client.VoiceInput(ctx)
	if err != nil {
		p.logger.Info("voice input failed", "error", err.Error())

		return p.reply(t, RoleBot, MsgVoiceInputFailed), nil
	}

	heard := strings.TrimSpace(resp.Text)
	if heard == "" {
		return p.reply(t, RoleBot, MsgNoSpeech), nil
	}

	return p.send(ctx, t, heard), nil
}

// UnreachableMessage is the reply shown when the service cannot be reached.
func (p *Panel) UnreachableMessage() string {
	return fmt.Sprintf(msgUnreachableFormat, p.baseURL)
}

func (p *Panel) send(ctx context.Context, t turn, msg string) Message {
	p.reply(t, RoleUser, msg)

	resp, err := p.client.Chat(ctx, service.ChatRequest{
		Message: msg,
		Mode:    t.mode.String(),
		Voice:   p.voice,
		TTS:     false,
	})

	switch {
	case err == nil:
		return p.reply(t, RoleBot, resp.Reply)
	case service.IsTransport(err):
		p.logger.Info("chat service unreachable", "error", err.Error())

		return p.reply(t, RoleBot, p.UnreachableMessage())
	default:
		text := MsgContactFailed
		if remote, ok := service.AsRemote(err); ok && remote.Message != "" {
			text = remote.Message
		}

		p.logger.Info("chat request rejected", "error", err.Error())

		return p.reply(t, RoleBot, "Error: "+text)
	}
}

// turn is the mode and conversation generation a send started in.
type turn struct {
	mode       config.ChatMode
	generation uint64
}

// reply appends a line to the conversation t started in. The line is still
// returned when a mode change cleared that conversation, but not stored.
func (p *Panel) reply(t turn, role Role, text string) Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t.generation != p.generation {
		p.logger.Debug("dropping chat line of a cleared conversation", "role", string(role))

		return Message{Role: role, Text: text, At: p.now()}
	}

	return p.appendLocked(role, text)
}

func (p *Panel) acquire() (turn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := turn{mode: p.mode, generation: p.generation}

	if p.mode == config.ChatModeUnset {
		return t, ErrNoMode
	}

	if p.sending {
		return t, ErrSendInFlight
	}

	p.sending = true

	return t, nil
}

func (p *Panel) release() {
	p.mu.Lock()
	p.sending = false
	p.mu.Unlock()
}

func (p *Panel) appendLocked(role Role, text string) Message {
	m := Message{Role: role, Text: text, At: p.now()}
	p.messages = append(p.messages, m)

	return m
}
