package app

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Ticker is the foreground display refresh. It only ever calls onTick;
// it never reads or writes persisted state.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration
	onTick   func(now time.Time)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a stopped ticker. onTick must not block.
func NewTicker(clock clockwork.Clock, interval time.Duration, onTick func(now time.Time)) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{clock: clock, interval: interval, onTick: onTick}
}

// Start begins ticking; no-op if already running
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, t.done)
}

func (t *Ticker) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	tk := t.clock.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tk.Chan():
			if ctx.Err() != nil {
				return
			}
			if t.onTick != nil {
				t.onTick(now)
			}
		}
	}
}

// Stop cancels ticking and waits for the loop to exit, so no tick is
// delivered after Stop returns.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the ticker is started
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}
