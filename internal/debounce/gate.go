// Package debounce implements the typing gate in front of remote search.
//
// The gate never owns a timer. Each keystroke Bumps the gate, which hands
// back a revision number; the caller schedules a wakeup after Delay and
// calls Fire with that revision. A revision that is no longer the latest
// fires into nothing, which is the cancel-and-restart discipline: only the
// last pending value of a burst ever produces a decision. Keeping time out
// of the gate makes the burst behavior testable without sleeping.
package debounce

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Reference timing: a search dispatches 500ms after typing pauses, and only
// once the trimmed text reaches three characters.
const (
	DefaultDelay        = 500 * time.Millisecond
	DefaultMinRunLength = 3
)

// Action is the gate's verdict for a settled value.
type Action int

const (
	// ActionNone: value too short, emit nothing.
	ActionNone Action = iota
	// ActionClear: value empty after trimming, reset search state.
	ActionClear
	// ActionRun: dispatch a search with the carried text.
	ActionRun
)

// Decision is emitted when the latest pending value settles.
type Decision struct {
	Action Action
	Text   string // untrimmed original, only meaningful for ActionRun
}

// Gate tracks the latest pending text value and its revision.
// Not safe for concurrent use; it belongs to a single event loop.
type Gate struct {
	delay  time.Duration
	minLen int

	rev     uint64
	pending string
}

// New returns a gate with the given settle delay and minimum run length.
// Non-positive arguments fall back to the reference values.
func New(delay time.Duration, minLen int) *Gate {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if minLen <= 0 {
		minLen = DefaultMinRunLength
	}
	return &Gate{delay: delay, minLen: minLen}
}

// Delay returns how long the caller should wait before firing a revision.
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Bump registers a new raw text value and returns the revision the caller
// must fire after Delay. Bumping invalidates every earlier revision.
func (g *Gate) Bump(text string) uint64 {
	g.rev++
	g.pending = text
	return g.rev
}

// Fire evaluates the pending value for the given revision. The second
// return is false when the revision has been superseded by a later Bump;
// such timers must be ignored entirely.
func (g *Gate) Fire(rev uint64) (Decision, bool) {
	if rev != g.rev {
		return Decision{}, false
	}
	trimmed := strings.TrimSpace(g.pending)
	switch {
	case trimmed == "":
		return Decision{Action: ActionClear}, true
	case utf8.RuneCountInString(trimmed) >= g.minLen:
		return Decision{Action: ActionRun, Text: g.pending}, true
	default:
		return Decision{Action: ActionNone}, true
	}
}
