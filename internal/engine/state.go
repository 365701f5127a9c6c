// Package engine tracks a typing attempt against compiled lesson targets.
//
// State values are immutable: every transition returns a new State and leaves the receiver
// untouched, so snapshots handed to a UI stay valid while later keystrokes are processed.
package engine

import (
	"sort"
	"time"

	"github.com/verte-zerg/codetype/internal/lesson"
)

// Signal flags describe what a transition did. A transition that changes nothing returns 0.
type Signal uint8

const (
	// SignalStarted fires on the first accepted character of an attempt.
	SignalStarted Signal = 1 << iota
	// SignalAdvanced fires whenever the cursor moves forward.
	SignalAdvanced
	// SignalMismatch fires for every typed character that did not match.
	SignalMismatch
	// SignalRetreated fires when a practice-mode backspace moves the cursor back.
	SignalRetreated
	// SignalCleared fires when an incorrect mark at the cursor goes back to pending.
	SignalCleared
	// SignalFinished fires once per attempt, when the cursor reaches the end.
	SignalFinished
)

// Has reports whether all flags in f are set.
func (s Signal) Has(f Signal) bool {
	return s&f == f && f != 0
}

// ErrorKey identifies a mismatch by the expected and the typed character.
type ErrorKey struct {
	Expected rune
	Typed    rune
}

// ErrorEntry is one row of the error ledger.
type ErrorEntry struct {
	Expected rune
	Typed    rune
	Count    int
}

// Revert is a pending strict-mode request to return a flashed target to pending.
type Revert struct {
	Generation uint64
	Flash      uint64
	Index      int
}

// Step is the outcome of a transition.
type Step struct {
	Signals Signal
	Revert  *Revert
}

// State is one attempt at a lesson.
type State struct {
	mode       lesson.Mode
	generation uint64

	targets []lesson.Target
	cursor  int

	started   bool
	finished  bool
	startedAt time.Time
	endedAt   time.Time

	// ledger is copied before every write, so states may share it.
	ledger     map[ErrorKey]int
	mismatches int
	flash      uint64
}

// NewState starts a fresh attempt. Every target is reset to pending. An empty target list
// yields an attempt that is already finished.
func NewState(targets []lesson.Target, mode lesson.Mode, generation uint64) (State, Step) {
	if mode == "" {
		mode = lesson.ModeStrict
	}
	s := State{
		mode:       mode,
		generation: generation,
		targets:    make([]lesson.Target, len(targets)),
	}
	for i, t := range targets {
		t.Status = lesson.StatusPending
		s.targets[i] = t
	}
	if len(s.targets) == 0 {
		s.finished = true
		return s, Step{Signals: SignalFinished}
	}
	return s, Step{}
}

// SubmitCharacter compares ch with the target at the cursor.
func (s State) SubmitCharacter(ch rune, now time.Time) (State, Step) {
	if s.finished || s.cursor >= len(s.targets) {
		return s, Step{}
	}
	next := s.cloneTargets()
	var step Step
	if !next.started {
		next.started = true
		next.startedAt = now
		step.Signals |= SignalStarted
	}

	target := &next.targets[next.cursor]
	if ch == target.Char {
		target.Status = lesson.StatusCorrect
		next.cursor++
		step.Signals |= SignalAdvanced
	} else {
		target.Status = lesson.StatusIncorrect
		next.recordMismatch(ErrorKey{Expected: target.Char, Typed: ch})
		step.Signals |= SignalMismatch
		if next.mode == lesson.ModePractice {
			next.cursor++
			step.Signals |= SignalAdvanced
		} else {
			next.flash++
			step.Revert = &Revert{Generation: next.generation, Flash: next.flash, Index: next.cursor}
		}
	}

	if next.cursor == len(next.targets) {
		next.finished = true
		next.endedAt = now
		step.Signals |= SignalFinished
	}
	return next, step
}

// SubmitBackspace undoes input according to the correction mode. Strict mode only clears an
// incorrect mark at the cursor; practice mode moves the cursor back one target.
func (s State) SubmitBackspace() (State, Step) {
	if s.finished || s.cursor == 0 {
		return s, Step{}
	}
	if s.mode == lesson.ModeStrict {
		if s.targets[s.cursor].Status != lesson.StatusIncorrect {
			return s, Step{}
		}
		next := s.cloneTargets()
		next.targets[next.cursor].Status = lesson.StatusPending
		return next, Step{Signals: SignalCleared}
	}
	next := s.cloneTargets()
	next.cursor--
	next.targets[next.cursor].Status = lesson.StatusPending
	return next, Step{Signals: SignalRetreated}
}

// Revert applies a flash revert. It is a no-op unless r belongs to this attempt, is the
// latest flash, and the flashed target is still incorrect under the cursor.
func (s State) Revert(r Revert) (State, Step) {
	if r.Generation != s.generation || r.Flash != s.flash || s.finished || r.Index != s.cursor {
		return s, Step{}
	}
	if s.targets[r.Index].Status != lesson.StatusIncorrect {
		return s, Step{}
	}
	next := s.cloneTargets()
	next.targets[r.Index].Status = lesson.StatusPending
	return next, Step{Signals: SignalCleared}
}

func (s State) cloneTargets() State {
	targets := make([]lesson.Target, len(s.targets))
	copy(targets, s.targets)
	s.targets = targets
	return s
}

func (s *State) recordMismatch(key ErrorKey) {
	ledger := make(map[ErrorKey]int, len(s.ledger)+1)
	for k, v := range s.ledger {
		ledger[k] = v
	}
	ledger[key]++
	s.ledger = ledger
	s.mismatches++
}

// Mode returns the correction mode.
func (s State) Mode() lesson.Mode { return s.mode }

// Generation identifies the attempt this state belongs to.
func (s State) Generation() uint64 { return s.generation }

// Len returns the number of targets.
func (s State) Len() int { return len(s.targets) }

// Cursor returns the index of the next target to type.
func (s State) Cursor() int { return s.cursor }

// Started reports whether any character was accepted yet.
func (s State) Started() bool { return s.started }

// Finished reports whether the cursor reached the end.
func (s State) Finished() bool { return s.finished }

// StartedAt returns the time of the first accepted character, or the zero time.
func (s State) StartedAt() time.Time { return s.startedAt }

// EndedAt returns the finish time, or the zero time.
func (s State) EndedAt() time.Time { return s.endedAt }

// Mismatches returns the cumulative number of mismatched characters.
func (s State) Mismatches() int { return s.mismatches }

// Target returns the target at index i.
func (s State) Target(i int) lesson.Target { return s.targets[i] }

// Targets returns a copy of all targets.
func (s State) Targets() []lesson.Target {
	return append([]lesson.Target(nil), s.targets...)
}

// CorrectCount returns how many targets are currently marked correct.
func (s State) CorrectCount() int {
	n := 0
	for _, t := range s.targets {
		if t.Status == lesson.StatusCorrect {
			n++
		}
	}
	return n
}

// LedgerCount returns how often expected was mistyped as typed.
func (s State) LedgerCount(expected, typed rune) int {
	return s.ledger[ErrorKey{Expected: expected, Typed: typed}]
}

// Ledger returns the error ledger sorted by count, most frequent first.
func (s State) Ledger() []ErrorEntry {
	out := make([]ErrorEntry, 0, len(s.ledger))
	for k, v := range s.ledger {
		out = append(out, ErrorEntry{Expected: k.Expected, Typed: k.Typed, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Expected != out[j].Expected {
			return out[i].Expected < out[j].Expected
		}
		return out[i].Typed < out[j].Typed
	})
	return out
}
