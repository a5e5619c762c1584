package timer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestRestTimerCountdown(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	r := NewRestTimer(clock)

	assert.False(t, r.Running())
	assert.Equal(t, time.Duration(0), r.Remaining())

	r.Start(90 * time.Second)
	clock.Advance(30 * time.Second)
	assert.Equal(t, 60*time.Second, r.Remaining())
	assert.InDelta(t, 1.0/3.0, r.Progress(), 0.001)
	assert.False(t, r.Done())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, time.Duration(0), r.Remaining())
	assert.True(t, r.Done())
}

func TestRestTimerExtendAndCancel(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	r := NewRestTimer(clock)

	r.Extend(time.Minute)
	assert.False(t, r.Running())

	r.Start(30 * time.Second)
	r.Extend(15 * time.Second)
	assert.Equal(t, 45*time.Second, r.Remaining())

	r.Cancel()
	assert.False(t, r.Running())
	assert.False(t, r.Done())
}

func TestRestTimerNonPositiveStartCancels(t *testing.T) {
	r := NewRestTimer(clockwork.NewFakeClockAt(t0))
	r.Start(time.Minute)

	r.Start(0)
	assert.False(t, r.Running())
}
