package app

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerDeliversTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan time.Time, 10)
	tk := NewTicker(clock, time.Second, func(now time.Time) { ticks <- now })

	tk.Start()
	defer tk.Stop()
	assert.True(t, tk.Running())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(time.Second)
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("expected a tick")
	}
}

func TestTickerStopIsFinal(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ticks := make(chan time.Time, 10)
	tk := NewTicker(clock, time.Second, func(now time.Time) { ticks <- now })

	tk.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	tk.Stop()
	assert.False(t, tk.Running())

	clock.Advance(5 * time.Second)
	select {
	case <-ticks:
		t.Fatal("tick delivered after Stop")
	case <-time.After(50 * time.Millisecond):
	}

	tk.Stop()
}

func TestTickerStartTwice(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tk := NewTicker(clock, 0, nil)

	tk.Start()
	tk.Start()
	defer tk.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.True(t, tk.Running())
}
