// Package timer computes active workout time from timestamps instead of a
// running counter, so a suspended or killed process loses nothing.
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Record is the persisted timer bookkeeping for one session.
// StartTimestamp is set iff Active. PausedAtTimestamp is only set while the
// host is backgrounded with the timer running.
type Record struct {
	StartTimestamp    *time.Time
	AccumulatedTotal  time.Duration
	Active            bool
	PausedAtTimestamp *time.Time
}

// Engine owns a Record and the clock used to advance it.
// The pair (AccumulatedTotal, StartTimestamp) is the only source of truth;
// display ticks read CurrentElapsed and never write.
type Engine struct {
	mu    sync.Mutex
	clock clockwork.Clock
	rec   Record
}

// NewEngine returns an inactive engine with nothing accumulated
func NewEngine(clock clockwork.Clock) *Engine {
	return &Engine{clock: clock}
}

// Restore rebuilds an engine from a persisted record, repairing records
// that violate the start/active invariant.
func Restore(clock clockwork.Clock, rec Record) *Engine {
	rec = copyRecord(rec)
	if rec.AccumulatedTotal < 0 {
		rec.AccumulatedTotal = 0
	}
	if rec.Active && rec.StartTimestamp == nil {
		// Active without a start: the best surviving timestamp is the
		// background marker, otherwise the interval is unknowable.
		if rec.PausedAtTimestamp != nil {
			start := *rec.PausedAtTimestamp
			rec.StartTimestamp = &start
		} else {
			rec.Active = false
		}
	}
	if !rec.Active {
		rec.StartTimestamp = nil
		rec.PausedAtTimestamp = nil
	}
	return &Engine{clock: clock, rec: rec}
}

// Start begins an active interval. No-op if already active.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rec.Active {
		return
	}
	now := e.clock.Now()
	e.rec.StartTimestamp = &now
	e.rec.Active = true
}

// Pause closes the open interval and folds it into the total
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rec.Active {
		return
	}
	e.rec.AccumulatedTotal += nonNegative(e.clock.Now().Sub(*e.rec.StartTimestamp))
	e.rec.StartTimestamp = nil
	e.rec.PausedAtTimestamp = nil
	e.rec.Active = false
}

// CurrentElapsed returns closed intervals plus the open one, if any
func (e *Engine) CurrentElapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.elapsedAt(e.clock.Now())
}

func (e *Engine) elapsedAt(now time.Time) time.Duration {
	if !e.rec.Active {
		return e.rec.AccumulatedTotal
	}
	return e.rec.AccumulatedTotal + nonNegative(now.Sub(*e.rec.StartTimestamp))
}

// ReconcileAfterGap folds a wall-clock gap during which no code ran into
// the total and restarts the open interval at gapEnd. Running time between
// the last start and gapStart is folded too. Negative spans clamp to zero.
// It returns the gap that was folded; an inactive timer accrues nothing.
func (e *Engine) ReconcileAfterGap(gapStart, gapEnd time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rec.Active {
		return 0
	}

	gap := nonNegative(gapEnd.Sub(gapStart))
	e.rec.AccumulatedTotal += nonNegative(gapStart.Sub(*e.rec.StartTimestamp))
	e.rec.AccumulatedTotal += gap

	restart := gapEnd
	e.rec.StartTimestamp = &restart
	return gap
}

// MarkBackgrounded checkpoints the open interval into the total (the timer
// stays active) and records the moment the host went away. It reports
// whether the timer was active.
func (e *Engine) MarkBackgrounded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.rec.Active {
		return false
	}
	now := e.clock.Now()
	e.rec.AccumulatedTotal += nonNegative(now.Sub(*e.rec.StartTimestamp))
	start, pausedAt := now, now
	e.rec.StartTimestamp = &start
	e.rec.PausedAtTimestamp = &pausedAt
	return true
}

// ClearPausedAt drops the background marker
func (e *Engine) ClearPausedAt() {
	e.mu.Lock()
	e.rec.PausedAtTimestamp = nil
	e.mu.Unlock()
}

// PausedAt returns the background marker, if set
func (e *Engine) PausedAt() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rec.PausedAtTimestamp == nil {
		return time.Time{}, false
	}
	return *e.rec.PausedAtTimestamp, true
}

// Active reports whether an interval is open
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Active
}

// Record returns a copy of the current bookkeeping
func (e *Engine) Record() Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyRecord(e.rec)
}

// Now exposes the engine clock so collaborators stamp events consistently
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

func copyRecord(rec Record) Record {
	out := rec
	if rec.StartTimestamp != nil {
		start := *rec.StartTimestamp
		out.StartTimestamp = &start
	}
	if rec.PausedAtTimestamp != nil {
		pausedAt := *rec.PausedAtTimestamp
		out.PausedAtTimestamp = &pausedAt
	}
	return out
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
