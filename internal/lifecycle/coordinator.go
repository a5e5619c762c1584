// Package lifecycle maps host visibility changes and user pause/resume onto
// the timer engine. Backgrounding and crash recovery share one
// reconciliation path: timer.Engine.ReconcileAfterGap.
package lifecycle

import (
	"log/slog"

	"github.com/balkashynov/wrkout/internal/timer"
)

// State of a bound session
type State int

const (
	ActiveForeground State = iota
	ActiveBackground
	Paused
)

func (s State) String() string {
	switch s {
	case ActiveForeground:
		return "active-foreground"
	case ActiveBackground:
		return "active-background"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Persister queues a snapshot of the current session. It must not block.
type Persister interface {
	Persist()
}

// Refresher is the display-only tick. Stopping it never affects stored time.
type Refresher interface {
	Start()
	Stop()
}

// Coordinator drives the timer and persistence through lifecycle events.
// Not safe for concurrent use; the UI goroutine is the only caller.
type Coordinator struct {
	timer      *timer.Engine
	persister  Persister
	refresher  Refresher
	logger     *slog.Logger
	foreground bool
}

// NewCoordinator binds a coordinator to a session's timer. The host is
// assumed to be in the foreground. refresher may be nil.
func NewCoordinator(engine *timer.Engine, persister Persister, refresher Refresher, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		timer:      engine,
		persister:  persister,
		refresher:  refresher,
		logger:     logger,
		foreground: true,
	}
	if engine.Active() {
		c.startRefresh()
	}
	return c
}

// State derives the current state from the timer and visibility
func (c *Coordinator) State() State {
	switch {
	case !c.timer.Active():
		return Paused
	case c.foreground:
		return ActiveForeground
	default:
		return ActiveBackground
	}
}

// Background handles the host going away. The timer keeps running
// semantically; only a marker is recorded, since no code may run until the
// host comes back.
func (c *Coordinator) Background() {
	if !c.foreground {
		return
	}
	from := c.State()
	c.foreground = false
	c.stopRefresh()
	c.timer.MarkBackgrounded()
	c.persister.Persist()
	c.logTransition("background", from)
}

// Foreground handles the host coming back and folds the gap into the timer
func (c *Coordinator) Foreground() {
	if c.foreground {
		return
	}
	from := c.State()
	c.foreground = true
	if c.timer.Active() {
		if pausedAt, ok := c.timer.PausedAt(); ok {
			gap := c.timer.ReconcileAfterGap(pausedAt, c.timer.Now())
			c.timer.ClearPausedAt()
			c.logger.Debug("Reconciled background gap", "gap", gap)
		}
		c.startRefresh()
	}
	c.persister.Persist()
	c.logTransition("foreground", from)
}

// Pause stops the timer at the user's request. It reports whether anything
// changed.
func (c *Coordinator) Pause() bool {
	if !c.timer.Active() {
		return false
	}
	from := c.State()
	c.timer.Pause()
	c.stopRefresh()
	c.persister.Persist()
	c.logTransition("pause", from)
	return true
}

// Resume restarts the timer at the user's request
func (c *Coordinator) Resume() bool {
	if c.timer.Active() {
		return false
	}
	from := c.State()
	c.timer.Start()
	if c.foreground {
		c.startRefresh()
	}
	c.persister.Persist()
	c.logTransition("resume", from)
	return true
}

// Toggle pauses a running timer or resumes a paused one
func (c *Coordinator) Toggle() {
	if !c.Pause() {
		c.Resume()
	}
}

// Detach stops the refresher without touching timer state; used on exit
func (c *Coordinator) Detach() {
	c.stopRefresh()
}

func (c *Coordinator) startRefresh() {
	if c.refresher != nil {
		c.refresher.Start()
	}
}

func (c *Coordinator) stopRefresh() {
	if c.refresher != nil {
		c.refresher.Stop()
	}
}

func (c *Coordinator) logTransition(event string, from State) {
	c.logger.Debug("Lifecycle transition", "event", event, "from", from.String(), "to", c.State().String())
}
