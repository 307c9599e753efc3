package session

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codemate/internal/service"
	"github.com/smykla-skalski/codemate/pkg/logger"
)

// maxTransitionHistory caps the number of transitions kept for inspection.
const maxTransitionHistory = 64

var (
	// ErrAnalysisInFlight is returned when an analysis is requested while one is running.
	ErrAnalysisInFlight = errors.New("analysis already in flight")

	// ErrRunInFlight is returned when a run is requested while one is running.
	ErrRunInFlight = errors.New("run already in flight")

	// ErrRunUnavailable is returned when the last compile did not succeed.
	ErrRunUnavailable = errors.New("run is only available after a successful compile")

	// ErrNoCorrectedCode is returned when the corrected code is requested before it arrived.
	ErrNoCorrectedCode = errors.New("no corrected code available")

	// ErrStaleCycle is returned for a transition tagged with a superseded cycle.
	ErrStaleCycle = errors.New("stale analysis cycle")

	// ErrIllegalTransition is returned for a transition the state machine does not allow.
	ErrIllegalTransition = errors.New("illegal phase transition")
)

// RunningPlaceholder is shown as program output while a run call is in flight.
const RunningPlaceholder = "Running program..."

// Transition records one phase change.
type Transition struct {
	From  Phase     `json:"from"`
	To    Phase     `json:"to"`
	Cycle uint64    `json:"cycle"`
	At    time.Time `json:"at"`
}

// RunTicket carries what a run call needs. Source is the text analyzed by the
// cycle that produced the successful outcome, not later edits.
type RunTicket struct {
	Cycle  uint64
	Source string
	Stdin  string
}

// Connectivity is the result of the session-start probe.
type Connectivity struct {
	Checked   bool   `json:"checked"`
	Reachable bool   `json:"reachable"`
	Message   string `json:"message,omitempty"`
}

// view holds the user toggles the visibility flags are derived from.
type view struct {
	meterDismissed     bool
	correctedRequested bool
	inputRequested     bool
	inputAtRun         bool
	chatOpen           bool
}

type state struct {
	source string
	stdin  string

	cycle            uint64
	analyzing        bool
	running          bool
	phase            Phase
	analyzedSource   string
	staticNeedsInput bool

	outcome     Outcome
	explanation string
	fixedCode   string
	output      string

	view         view
	connectivity Connectivity
	updatedAt    time.Time
}

// Store is the single source of truth for a session. Mutators replace their
// target fields and notify subscribers with a fresh Snapshot. Cycle-scoped
// mutators drop results tagged with a superseded cycle.
type Store struct {
	mu sync.RWMutex
	// notifyMu is held across a mutation and its dispatch so subscribers see
	// snapshots in sequence order.
	notifyMu sync.Mutex

	st          state
	seq         uint64
	transitions []Transition
	subscribers map[int]func(Snapshot)
	nextSubID   int

	logger logger.Logger
	now    func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStore creates an idle session.
func NewStore(opts ...Option) *Store {
	s := &Store{
		subscribers: make(map[int]func(Snapshot)),
		logger:      logger.NewNoOpLogger(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.st.updatedAt = s.now()

	return s
}

// Subscribe registers fn to receive a snapshot after every change. fn runs
// synchronously and must not call Store mutators.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// Transitions returns the most recent phase changes, oldest first.
func (s *Store) Transitions() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Transition, len(s.transitions))
	copy(out, s.transitions)

	return out
}

// SetSource replaces the editor text. The current cycle keeps the text it analyzed.
func (s *Store) SetSource(text string) {
	s.update(func(st *state) bool {
		if st.source == text {
			return false
		}

		st.source = text

		return true
	})
}

// SetStdin replaces the program input buffer.
func (s *Store) SetStdin(text string) {
	s.update(func(st *state) bool {
		if st.stdin == text {
			return false
		}

		st.stdin = text

		return true
	})
}

// BeginCycle starts a new analysis cycle of source. The previous cycle's
// results and every analysis surface are cleared before it returns. The chat
// panel is not part of the analysis and keeps its state.
func (s *Store) BeginCycle(source string, staticNeedsInput bool) (uint64, error) {
	var (
		cycle uint64
		err   error
	)

	s.update(func(st *state) bool {
		if st.analyzing {
			err = ErrAnalysisInFlight

			return false
		}

		if moveErr := s.moveLocked(st, PhaseAnalyzing, st.cycle+1); moveErr != nil {
			err = moveErr

			return false
		}

		st.cycle++
		cycle = st.cycle

		st.analyzing = true
		st.running = false
		st.analyzedSource = source
		st.staticNeedsInput = staticNeedsInput
		st.outcome = Outcome{}
		st.explanation = ""
		st.fixedCode = ""
		st.output = ""
		st.view = view{chatOpen: st.view.chatOpen}

		return true
	})

	if err != nil {
		return 0, err
	}

	s.logger.Debug("analysis cycle started",
		"cycle", cycle,
		"static_needs_input", staticNeedsInput,
	)

	return cycle, nil
}

// EndCycle clears the in-flight guard once the cycle's blocking calls settled.
// A cycle that never left PhaseAnalyzing is parked in PhaseDone.
func (s *Store) EndCycle(cycle uint64) {
	s.update(func(st *state) bool {
		if st.cycle != cycle || !st.analyzing {
			return false
		}

		st.analyzing = false

		if st.phase == PhaseAnalyzing {
			_ = s.moveLocked(st, PhaseDone, cycle)
		}

		return true
	})
}

// Transition moves the machine to a new phase on behalf of cycle.
func (s *Store) Transition(cycle uint64, to Phase) error {
	var err error

	s.update(func(st *state) bool {
		if st.cycle != cycle {
			err = errors.Wrapf(ErrStaleCycle, "cycle %d, current %d", cycle, st.cycle)

			return false
		}

		if err = s.moveLocked(st, to, cycle); err != nil {
			return false
		}

		return true
	})

	return err
}

// SetOutcome records the compile outcome of cycle. It reports whether the
// cycle is still current.
func (s *Store) SetOutcome(cycle uint64, outcome Outcome) bool {
	return s.updateCycle(cycle, func(st *state) {
		st.outcome = outcome
		st.outcome.Classification = cloneClassification(outcome)
		st.outcome.ProgramOutput = cloneString(outcome.ProgramOutput)
	})
}

// SetExplanation replaces the explanation of cycle.
func (s *Store) SetExplanation(cycle uint64, text string) bool {
	return s.updateCycle(cycle, func(st *state) {
		st.explanation = text
	})
}

// SetFixedCode replaces the corrected code of cycle. It is accepted in any
// phase of the cycle, including after the user moved on.
func (s *Store) SetFixedCode(cycle uint64, code string) bool {
	return s.updateCycle(cycle, func(st *state) {
		st.fixedCode = code
	})
}

// SetOutput replaces the displayed program output of cycle.
func (s *Store) SetOutput(cycle uint64, text string) bool {
	return s.updateCycle(cycle, func(st *state) {
		st.output = text
	})
}

// BeginRun moves to PhaseRunning and shows the running placeholder.
func (s *Store) BeginRun() (RunTicket, error) {
	var (
		ticket RunTicket
		err    error
	)

	s.update(func(st *state) bool {
		switch {
		case st.running:
			err = ErrRunInFlight
		case st.analyzing || !st.outcome.Succeeded():
			err = ErrRunUnavailable
		}

		if err != nil {
			return false
		}

		inputShown := visibility(st).InputArea

		if err = s.moveLocked(st, PhaseRunning, st.cycle); err != nil {
			err = errors.Mark(err, ErrRunUnavailable)

			return false
		}

		st.running = true
		st.view.inputAtRun = inputShown
		st.output = RunningPlaceholder

		ticket = RunTicket{Cycle: st.cycle, Source: st.analyzedSource, Stdin: st.stdin}

		return true
	})

	return ticket, err
}

// FinishRun shows the run result, clears the input buffer and hides the input
// area. A result for a superseded cycle is dropped.
func (s *Store) FinishRun(cycle uint64, output string) bool {
	applied := false

	s.update(func(st *state) bool {
		if st.cycle != cycle || !st.running {
			return false
		}

		if err := s.moveLocked(st, PhaseDone, cycle); err != nil {
			return false
		}

		st.running = false
		st.output = output
		st.stdin = ""
		st.view.inputRequested = false
		st.view.inputAtRun = false
		applied = true

		return true
	})

	if !applied {
		s.logger.Debug("dropping stale run result", "cycle", cycle)
	}

	return applied
}

// DismissSeverityMeter hides the meter until the next cycle.
func (s *Store) DismissSeverityMeter() {
	s.update(func(st *state) bool {
		if st.view.meterDismissed {
			return false
		}

		st.view.meterDismissed = true

		return true
	})
}

// ShowCorrectedCode reveals the corrected code.
func (s *Store) ShowCorrectedCode() error {
	var err error

	s.update(func(st *state) bool {
		if st.fixedCode == "" {
			err = ErrNoCorrectedCode

			return false
		}

		if st.view.correctedRequested {
			return false
		}

		st.view.correctedRequested = true

		return true
	})

	return err
}

// HideCorrectedCode hides the corrected code.
func (s *Store) HideCorrectedCode() {
	s.update(func(st *state) bool {
		if !st.view.correctedRequested {
			return false
		}

		st.view.correctedRequested = false

		return true
	})
}

// RevealInputArea shows the program input area after a successful compile.
func (s *Store) RevealInputArea() error {
	var err error

	s.update(func(st *state) bool {
		if st.analyzing || !st.outcome.Succeeded() {
			err = ErrRunUnavailable

			return false
		}

		if st.view.inputRequested {
			return false
		}

		st.view.inputRequested = true

		return true
	})

	return err
}

// HideInputArea hides an input area the user revealed.
func (s *Store) HideInputArea() {
	s.update(func(st *state) bool {
		if !st.view.inputRequested {
			return false
		}

		st.view.inputRequested = false

		return true
	})
}

// SetChatOpen opens or closes the chat panel.
func (s *Store) SetChatOpen(open bool) {
	s.update(func(st *state) bool {
		if st.view.chatOpen == open {
			return false
		}

		st.view.chatOpen = open

		return true
	})
}

// SetConnectivity records the probe result.
func (s *Store) SetConnectivity(c Connectivity) {
	s.update(func(st *state) bool {
		c.Checked = true
		st.connectivity = c

		return true
	})
}

// moveLocked validates and applies a phase change. Must be called with mu held.
func (s *Store) moveLocked(st *state, to Phase, cycle uint64) error {
	from := st.phase

	if !IsValidTransition(from, to) {
		return errors.Wrapf(ErrIllegalTransition, "%s -> %s", from, to)
	}

	st.phase = to

	s.transitions = append(s.transitions, Transition{
		From:  from,
		To:    to,
		Cycle: cycle,
		At:    s.now(),
	})

	if len(s.transitions) > maxTransitionHistory {
		s.transitions = s.transitions[len(s.transitions)-maxTransitionHistory:]
	}

	s.logger.Debug("phase transition",
		"from", from.String(),
		"to", to.String(),
		"cycle", cycle,
	)

	return nil
}

// updateCycle applies fn when cycle is still current.
func (s *Store) updateCycle(cycle uint64, fn func(*state)) bool {
	applied := false

	s.update(func(st *state) bool {
		if st.cycle != cycle {
			return false
		}

		fn(st)
		applied = true

		return true
	})

	if !applied {
		s.logger.Debug("dropping stale cycle result", "cycle", cycle)
	}

	return applied
}

// update applies fn under the lock and, when it reports a change, notifies
// subscribers.
func (s *Store) update(fn func(*state) bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()

	if !fn(&s.st) {
		s.mu.Unlock()

		return
	}

	s.seq++
	s.st.updatedAt = s.now()
	snap := s.snapshotLocked()

	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}

	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

func cloneClassification(o Outcome) *service.Classification {
	if o.Classification == nil {
		return nil
	}

	c := *o.Classification

	return &c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
