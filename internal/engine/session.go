package engine

import (
	"sync"
	"time"

	"github.com/verte-zerg/codetype/internal/lesson"
)

// DefaultFlashDelay is how long a strict-mode mismatch stays marked incorrect.
const DefaultFlashDelay = 200 * time.Millisecond

// Scheduler runs fn after d. The returned function cancels the run if it has not started.
// Schedule is called without the session lock held, so fn may also run synchronously.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func()) func()

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(d time.Duration, fn func()) func() {
	return f(d, fn)
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Snapshot is the state after a transition together with the signals it raised.
type Snapshot struct {
	State
	Signals Signal
}

// Observer receives every snapshot that changed something.
type Observer func(Snapshot)

// Session owns the current attempt and replaces it on Init or Retry.
type Session struct {
	mu sync.Mutex

	state      State
	targets    []lesson.Target
	mode       lesson.Mode
	generation uint64
	ready      bool

	now         func() time.Time
	scheduler   Scheduler
	flashDelay  time.Duration
	cancelFlash func()
	observers   []Observer
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithScheduler overrides the timer used for strict-mode flash reverts.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.scheduler = sched }
}

// WithFlashDelay sets how long a strict-mode mismatch stays incorrect.
func WithFlashDelay(d time.Duration) Option {
	return func(s *Session) { s.flashDelay = d }
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// NewSession returns a session with no lesson loaded.
func NewSession(opts ...Option) *Session {
	s := &Session{
		now:        time.Now,
		scheduler:  TimerScheduler{},
		flashDelay: DefaultFlashDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer. Observers run after the session lock is released, on the
// goroutine that caused the transition.
func (s *Session) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Init starts a new attempt, discarding the current one and any pending flash revert.
func (s *Session) Init(targets []lesson.Target, mode lesson.Mode) Snapshot {
	s.mu.Lock()
	s.targets = append([]lesson.Target(nil), targets...)
	s.mode = mode
	s.ready = true
	snap := s.resetLocked()
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
	return snap
}

// Retry restarts the last lesson with the same targets and mode. Before any Init it only
// returns the current snapshot.
func (s *Session) Retry() Snapshot {
	s.mu.Lock()
	if !s.ready {
		snap := Snapshot{State: s.state}
		s.mu.Unlock()
		return snap
	}
	snap := s.resetLocked()
	observers := s.observersLocked()
	s.mu.Unlock()

	notify(observers, snap)
	return snap
}

func (s *Session) resetLocked() Snapshot {
	s.stopFlashLocked()
	s.generation++
	state, step := NewState(s.targets, s.mode, s.generation)
	s.state = state
	return Snapshot{State: state, Signals: step.Signals}
}

// SubmitCharacter feeds one typed character.
func (s *Session) SubmitCharacter(ch rune) Snapshot {
	s.mu.Lock()
	next, step := s.state.SubmitCharacter(ch, s.now())
	s.state = next
	if step.Revert != nil {
		s.stopFlashLocked()
	}
	snap := Snapshot{State: next, Signals: step.Signals}
	observers := s.observersLocked()
	s.mu.Unlock()

	if snap.Signals != 0 {
		notify(observers, snap)
	}
	if step.Revert != nil {
		s.scheduleRevert(*step.Revert)
	}
	return snap
}

// SubmitBackspace feeds a backspace.
func (s *Session) SubmitBackspace() Snapshot {
	s.mu.Lock()
	next, step := s.state.SubmitBackspace()
	s.state = next
	snap := Snapshot{State: next, Signals: step.Signals}
	observers := s.observersLocked()
	s.mu.Unlock()

	if snap.Signals != 0 {
		notify(observers, snap)
	}
	return snap
}

// scheduleRevert runs after the mismatch snapshot was delivered. A newer flash or attempt
// may have started meanwhile; then the fresh timer is cancelled right away.
func (s *Session) scheduleRevert(r Revert) {
	cancel := s.scheduler.Schedule(s.flashDelay, func() {
		s.applyRevert(r)
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.generation != r.Generation || s.state.flash != r.Flash {
		cancel()
		return
	}
	s.stopFlashLocked()
	s.cancelFlash = cancel
}

func (s *Session) applyRevert(r Revert) {
	s.mu.Lock()
	next, step := s.state.Revert(r)
	s.state = next
	snap := Snapshot{State: next, Signals: step.Signals}
	observers := s.observersLocked()
	s.mu.Unlock()

	if snap.Signals != 0 {
		notify(observers, snap)
	}
}

func (s *Session) stopFlashLocked() {
	if s.cancelFlash != nil {
		s.cancelFlash()
		s.cancelFlash = nil
	}
}

func (s *Session) observersLocked() []Observer {
	return append([]Observer(nil), s.observers...)
}

func notify(observers []Observer, snap Snapshot) {
	for _, o := range observers {
		o(snap)
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state}
}

// Metrics returns metrics for the current attempt.
func (s *Session) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Metrics(s.now())
}

// LiveWPM returns the speed of the current attempt measured up to now.
func (s *Session) LiveWPM() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LiveWPM(s.now())
}
