package timer

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// RestTimer is the short countdown between sets. It lives in memory only:
// if the process dies the countdown is gone and the user restarts it.
type RestTimer struct {
	clock    clockwork.Clock
	deadline time.Time
	length   time.Duration
	running  bool
}

// NewRestTimer returns an idle rest timer
func NewRestTimer(clock clockwork.Clock) *RestTimer {
	return &RestTimer{clock: clock}
}

// Start (re)starts the countdown at d
func (r *RestTimer) Start(d time.Duration) {
	if d <= 0 {
		r.Cancel()
		return
	}
	r.length = d
	r.deadline = r.clock.Now().Add(d)
	r.running = true
}

// Extend pushes the deadline out by d; ignored when idle
func (r *RestTimer) Extend(d time.Duration) {
	if !r.running {
		return
	}
	r.deadline = r.deadline.Add(d)
	r.length += d
}

// Cancel stops the countdown
func (r *RestTimer) Cancel() {
	r.running = false
	r.length = 0
}

// Running reports whether a countdown was started and not cancelled
func (r *RestTimer) Running() bool {
	return r.running
}

// Remaining returns the time left, zero once expired or idle
func (r *RestTimer) Remaining() time.Duration {
	if !r.running {
		return 0
	}
	return nonNegative(r.deadline.Sub(r.clock.Now()))
}

// Done reports whether a running countdown reached zero
func (r *RestTimer) Done() bool {
	return r.running && r.Remaining() == 0
}

// Progress returns the elapsed fraction of the countdown in [0,1]
func (r *RestTimer) Progress() float64 {
	if !r.running || r.length <= 0 {
		return 0
	}
	return 1 - float64(r.Remaining())/float64(r.length)
}
