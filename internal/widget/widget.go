// Package widget implements the newsletter subscription widget: an email
// buffer plus a transient "Subscribed!" confirmation that reverts to idle
// after a fixed delay.
package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultRevertDelay = 3 * time.Second

	LabelSubscribe  = "Subscribe"
	LabelSubscribed = "Subscribed!"
)

var (
	ErrEmptyEmail = errors.New("email is required")
	ErrClosed     = errors.New("widget is closed")
)

type State int

const (
	Idle State = iota
	Confirmed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Confirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// TimerPolicy decides what happens to a pending revert when another
// submission succeeds before it fires.
type TimerPolicy int

const (
	// RestartTimer cancels the pending revert and schedules a fresh one.
	RestartTimer TimerPolicy = iota
	// OverlapTimers leaves earlier reverts armed; each one reverts to Idle.
	OverlapTimers
)

// Capturer hands a submitted address to the email-capture collaborator.
type Capturer interface {
	Capture(ctx context.Context, email string) error
}

type Transition struct {
	From State
	To   State
}

type Snapshot struct {
	Email string `json:"email"`
	State string `json:"state"`
	Label string `json:"label"`
}

type Option func(*Widget)

func WithRevertDelay(d time.Duration) Option {
	return func(w *Widget) {
		if d > 0 {
			w.delay = d
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(w *Widget) { w.scheduler = s }
}

func WithCapturer(c Capturer) Option {
	return func(w *Widget) { w.capturer = c }
}

func WithTimerPolicy(p TimerPolicy) Option {
	return func(w *Widget) { w.policy = p }
}

// WithObserver registers fn to be called after every state change. fn runs
// without the widget lock held.
func WithObserver(fn func(Transition)) Option {
	return func(w *Widget) { w.observer = fn }
}

type Widget struct {
	submitMu sync.Mutex

	mu      sync.Mutex
	email   string
	state   State
	gen     uint64
	pending map[uint64]Timer
	closed  bool

	delay     time.Duration
	scheduler Scheduler
	capturer  Capturer
	policy    TimerPolicy
	observer  func(Transition)
}

func New(opts ...Option) *Widget {
	w := &Widget{
		state:     Idle,
		pending:   make(map[uint64]Timer),
		delay:     DefaultRevertDelay,
		scheduler: realScheduler{},
		policy:    RestartTimer,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// UpdateEmail replaces the input buffer. No validation happens here.
func (w *Widget) UpdateEmail(value string) {
	w.mu.Lock()
	w.email = value
	w.mu.Unlock()
}

func (w *Widget) Email() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.email
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) Label() string {
	return labelFor(w.State())
}

func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Email: w.email,
		State: w.state.String(),
		Label: labelFor(w.state),
	}
}

// Pending reports how many reverts are scheduled and not yet fired.
func (w *Widget) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Submit confirms the buffered address. An empty buffer leaves the widget
// untouched and returns ErrEmptyEmail.
func (w *Widget) Submit(ctx context.Context) error {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	address := w.email
	w.mu.Unlock()

	if address == "" {
		return ErrEmptyEmail
	}

	if w.capturer != nil {
		if err := w.capturer.Capture(ctx, address); err != nil {
			return fmt.Errorf("capture %q: %w", address, err)
		}
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	prev := w.state
	w.state = Confirmed
	// input typed while the capture was in flight is kept
	if w.email == address {
		w.email = ""
	}
	w.scheduleRevertLocked()
	w.mu.Unlock()

	if prev != Confirmed {
		w.notify(prev, Confirmed)
	}
	return nil
}

// Close tears the widget down: pending reverts are cancelled and no later
// callback touches the state.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.stopPendingLocked()
}

func (w *Widget) scheduleRevertLocked() {
	if w.policy == RestartTimer {
		w.stopPendingLocked()
	}
	w.gen++
	gen := w.gen
	w.pending[gen] = w.scheduler.AfterFunc(w.delay, func() { w.revert(gen) })
}

func (w *Widget) stopPendingLocked() {
	for gen, t := range w.pending {
		t.Stop()
		delete(w.pending, gen)
	}
}

func (w *Widget) revert(gen uint64) {
	w.mu.Lock()
	if _, ok := w.pending[gen]; !ok || w.closed {
		// cancelled after the timer had already fired
		w.mu.Unlock()
		return
	}
	delete(w.pending, gen)
	prev := w.state
	w.state = Idle
	w.mu.Unlock()

	if prev != Idle {
		w.notify(prev, Idle)
	}
}

func (w *Widget) notify(from, to State) {
	if w.observer != nil {
		w.observer(Transition{From: from, To: to})
	}
}

func labelFor(s State) string {
	if s == Confirmed {
		return LabelSubscribed
	}
	return LabelSubscribe
}
