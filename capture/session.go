package capture

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/medsum/logger"
)

// Default timings.
const (
	DefaultFinalizeDelay = 2000 * time.Millisecond
	DefaultRestartDelay  = 100 * time.Millisecond
)

// ErrUnsupported is returned by Start when the session has no engine.
var ErrUnsupported = errors.New(MsgUnsupported)

// State is the accumulated transcription of a session.
type State struct {
	Committed string
	Interim   string
	Active    bool
}

// Text is what callers see: committed text followed by the live interim.
func (s State) Text() string { return s.Committed + s.Interim }

// Publisher receives the full displayable transcript after every change.
// It must not call back into the session.
type Publisher func(text string)

// ErrorHandler receives user-facing capture error messages.
type ErrorHandler func(message string)

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for finalize and restart timers.
func WithClock(c Clock) Option { return func(s *Session) { s.clock = c } }

// WithFinalizeDelay sets how long interim text may stand alone before it is committed.
func WithFinalizeDelay(d time.Duration) Option { return func(s *Session) { s.finalizeDelay = d } }

// WithRestartDelay sets the pause before restarting an engine that ended on its own.
func WithRestartDelay(d time.Duration) Option { return func(s *Session) { s.restartDelay = d } }

// WithErrorHandler sets the callback for terminal capture errors.
func WithErrorHandler(h ErrorHandler) Option { return func(s *Session) { s.onError = h } }

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option { return func(s *Session) { s.log = l } }

// Session turns a stream of engine fragments into a growing transcript.
// It keeps recognition alive across engine ends until Stop is called.
type Session struct {
	id            string
	engine        Engine
	publish       Publisher
	onError       ErrorHandler
	clock         Clock
	finalizeDelay time.Duration
	restartDelay  time.Duration
	log           *logger.Logger

	mu     sync.Mutex
	state  State
	locale string
	// gen identifies the current run; callbacks from older runs are dropped.
	gen         uint64
	finalize    Timer
	finalizeSeq uint64
	restart     Timer
	restartSeq  uint64

	// pubMu keeps publications in state order without holding mu.
	pubMu sync.Mutex
}

// NewSession creates an idle session over engine.
func NewSession(engine Engine, publish Publisher, opts ...Option) *Session {
	s := &Session{
		id:            uuid.NewString(),
		engine:        engine,
		publish:       publish,
		clock:         RealClock(),
		finalizeDelay: DefaultFinalizeDelay,
		restartDelay:  DefaultRestartDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publish == nil {
		s.publish = func(string) {}
	}
	if s.onError == nil {
		s.onError = func(string) {}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.WithComponent("capture").WithFields(logger.Fields(logger.FieldSessionID, s.id))
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State returns a snapshot of the accumulated transcript.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether recognition is running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Active
}

// Start resets the transcript, publishes "" and starts the engine in the
// locale mapped from language. A running session is stopped first.
func (s *Session) Start(language string) error {
	if s.engine == nil {
		s.onError(MsgUnsupported)
		return ErrUnsupported
	}
	s.Stop()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = State{Active: true}
	s.locale = Locale(language)
	locale := s.locale
	s.pubMu.Lock()
	s.mu.Unlock()
	s.publish("")
	s.pubMu.Unlock()

	s.log.Info("capture started", logger.Fields(logger.FieldLanguage, language, logger.FieldLocale, locale))
	if err := s.engine.Start(locale, &listener{s: s, gen: gen}); err != nil {
		s.deactivate(gen)
		s.log.WithError(err).Warn("engine failed to start")
		s.onError(MsgStartFailed)
		return fmt.Errorf("capture: start engine: %w", err)
	}
	return nil
}

// Stop ends recognition. Pending timers are cancelled before it returns and
// later engine callbacks are ignored. The transcript is kept.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.state.Active {
		s.mu.Unlock()
		return
	}
	s.state.Active = false
	s.gen++
	s.cancelTimersLocked()
	s.mu.Unlock()

	s.engine.Stop()
	s.log.Info("capture stopped")
}

func (s *Session) cancelTimersLocked() {
	s.cancelFinalizeLocked()
	if s.restart != nil {
		s.restart.Stop()
		s.restart = nil
	}
	s.restartSeq++
}

func (s *Session) cancelFinalizeLocked() {
	if s.finalize != nil {
		s.finalize.Stop()
		s.finalize = nil
	}
	s.finalizeSeq++
}

// current reports whether callbacks for gen should still be applied.
func (s *Session) current(gen uint64) bool {
	return s.state.Active && s.gen == gen
}

// deactivate marks run gen as finished without stopping the engine.
func (s *Session) deactivate(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.state.Active = false
	s.gen++
	s.cancelTimersLocked()
}

// publishLocked hands the current text to the publisher after releasing mu.
func (s *Session) publishLocked() {
	text := s.state.Text()
	s.pubMu.Lock()
	s.mu.Unlock()
	defer s.pubMu.Unlock()
	s.publish(text)
}

func (s *Session) onResult(gen uint64, ev Event) {
	s.mu.Lock()
	if !s.current(gen) {
		s.mu.Unlock()
		return
	}
	s.cancelFinalizeLocked()

	var final, interim strings.Builder
	for _, f := range ev.Fragments {
		if f.Final {
			if t := strings.TrimSpace(f.Text); t != "" {
				final.WriteString(t)
				final.WriteByte(' ')
			}
			continue
		}
		interim.WriteString(f.Text)
	}
	s.state.Committed += final.String()
	s.state.Interim = interim.String()

	if interim.Len() > 0 && final.Len() == 0 {
		seq := s.finalizeSeq
		s.finalize = s.clock.AfterFunc(s.finalizeDelay, func() { s.onFinalize(gen, seq) })
	}
	s.publishLocked()
}

func (s *Session) onFinalize(gen, seq uint64) {
	s.mu.Lock()
	if !s.current(gen) || s.finalizeSeq != seq || s.finalize == nil {
		s.mu.Unlock()
		return
	}
	s.finalize = nil
	s.state.Committed += s.state.Interim + " "
	s.state.Interim = ""
	s.log.Debug("interim text committed after silence")
	s.publishLocked()
}

func (s *Session) onEngineError(gen uint64, code ErrorCode) {
	msg, surfaced := ErrorMessage(code)
	if !surfaced {
		s.log.Debug("engine notice ignored", logger.Fields(logger.FieldKind, string(code)))
		return
	}

	s.mu.Lock()
	if !s.current(gen) {
		s.mu.Unlock()
		return
	}
	s.state.Active = false
	s.gen++
	s.cancelTimersLocked()
	s.mu.Unlock()

	s.engine.Stop()
	s.log.Warn("capture stopped on engine error", logger.Fields(logger.FieldKind, string(code)))
	s.onError(msg)
}

func (s *Session) onEnd(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) || s.restart != nil {
		return
	}
	seq := s.restartSeq
	s.restart = s.clock.AfterFunc(s.restartDelay, func() { s.onRestart(gen, seq) })
}

func (s *Session) onRestart(gen, seq uint64) {
	s.mu.Lock()
	if !s.current(gen) || s.restartSeq != seq || s.restart == nil {
		s.mu.Unlock()
		return
	}
	s.restart = nil
	locale := s.locale
	s.mu.Unlock()

	s.log.Debug("restarting engine after end", logger.Fields(logger.FieldLocale, locale))
	if err := s.engine.Start(locale, &listener{s: s, gen: gen}); err != nil {
		s.deactivate(gen)
		s.log.WithError(err).Warn("engine restart failed")
		s.onError(MsgStartFailed)
	}
}

// listener binds engine callbacks to one run of a session.
type listener struct {
	s   *Session
	gen uint64
}

func (l *listener) Result(ev Event) { l.s.onResult(l.gen, ev) }
func (l *listener) Error(code ErrorCode) { l.s.onEngineError(l.gen, code) }
func (l *listener) End() { l.s.onEnd(l.gen) }
