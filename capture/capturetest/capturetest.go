// Package capturetest provides a manual clock and a scripted engine for
// exercising capture sessions without real time or audio.
package capturetest

import (
	"sort"
	"sync"
	"time"

	"github.com/kbukum/medsum/capture"
)

// ManualClock fires timers only when Advance is called.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

// NewManualClock returns a clock at offset zero.
func NewManualClock() *ManualClock { return &ManualClock{} }

// AfterFunc schedules f to run d after the current offset.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) capture.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d and runs every timer that comes due, in
// deadline order, on the calling goroutine.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	now := c.now
	c.mu.Unlock()

	for {
		t := c.nextDue(now)
		if t == nil {
			return
		}
		t.f()
	}
}

func (c *ManualClock) nextDue(now time.Duration) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
	for i, t := range c.timers {
		if t.stopped || t.fired {
			continue
		}
		if t.at > now {
			return nil
		}
		t.fired = true
		c.timers = append(c.timers[:i], c.timers[i+1:]...)
		return t
	}
	return nil
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Engine is a scripted capture.Engine. Tests drive the listener directly.
type Engine struct {
	mu       sync.Mutex
	listener capture.Listener
	locales  []string
	stops    int
	// StartErr, when set, is returned by the next Start calls.
	StartErr error
}

// Start records the locale and listener.
func (e *Engine) Start(locale string, l capture.Listener) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.StartErr != nil {
		return e.StartErr
	}
	e.locales = append(e.locales, locale)
	e.listener = l
	return nil
}

// Stop counts the call.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stops++
}

// SetStartErr changes the error returned by Start.
func (e *Engine) SetStartErr(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.StartErr = err
}

// Starts returns the locales of every successful Start, in order.
func (e *Engine) Starts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.locales...)
}

// Stops returns how many times Stop was called.
func (e *Engine) Stops() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stops
}

func (e *Engine) current() capture.Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listener
}

// Interim emits an event with one interim fragment.
func (e *Engine) Interim(text string) {
	e.current().Result(capture.Event{Fragments: []capture.Fragment{{Text: text}}})
}

// Final emits an event with one final fragment.
func (e *Engine) Final(text string) {
	e.current().Result(capture.Event{Fragments: []capture.Fragment{{Text: text, Final: true}}})
}

// Emit sends an arbitrary event.
func (e *Engine) Emit(ev capture.Event) { e.current().Result(ev) }

// Fail reports an engine error.
func (e *Engine) Fail(code capture.ErrorCode) { e.current().Error(code) }

// End signals the engine ended.
func (e *Engine) End() { e.current().End() }

// Recorder collects published transcripts and error messages.
type Recorder struct {
	mu       sync.Mutex
	texts    []string
	messages []string
}

// Publish appends text.
func (r *Recorder) Publish(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

// Error appends msg.
func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Texts returns all published transcripts.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

// Last returns the most recent transcript, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

// Messages returns all error messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
