package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const saveTimeout = 5 * time.Second

// Writer persists snapshots off the caller's goroutine. At most one write is
// in flight; a newer snapshot replaces any queued one (last write wins).
// Failures are logged and never reach the caller: the session carries on in
// memory without crash recovery.
type Writer struct {
	store  SessionStore
	logger *slog.Logger

	mu       sync.Mutex
	pending  *Snapshot
	done     chan struct{} // closed when the current drain loop exits
	busy     bool
	closed   bool
	degraded bool
	lastErr  error
}

// NewWriter creates a writer over store. A nil logger uses slog.Default().
func NewWriter(store SessionStore, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{store: store, logger: logger}
}

// Save queues snap and returns immediately. Ignored once the writer is closed.
func (w *Writer) Save(snap Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.pending = &snap
	if !w.busy {
		w.busy = true
		w.done = make(chan struct{})
		go w.drain(w.done)
	}
}

func (w *Writer) drain(done chan struct{}) {
	defer close(done)

	for {
		w.mu.Lock()
		snap := w.pending
		w.pending = nil
		if snap == nil {
			w.busy = false
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := w.store.Save(ctx, *snap)
		cancel()

		w.mu.Lock()
		if err != nil {
			w.degraded = true
			w.lastErr = err
		} else {
			w.degraded = false
			w.lastErr = nil
		}
		w.mu.Unlock()

		if err != nil {
			w.logger.Warn("Session snapshot not persisted, continuing in memory",
				"session_id", snap.Session.ID, "error", err)
		}
	}
}

// Flush blocks until nothing is queued or in flight
func (w *Writer) Flush(ctx context.Context) error {
	for {
		w.mu.Lock()
		if !w.busy {
			w.mu.Unlock()
			return nil
		}
		done := w.done
		w.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops accepting snapshots; queued work still drains
func (w *Writer) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Discard closes the writer, drops anything queued, waits for the in-flight
// write and then clears the session from the store. No stale snapshot can be
// written after this returns.
func (w *Writer) Discard(ctx context.Context, sessionID string) error {
	w.mu.Lock()
	w.closed = true
	w.pending = nil
	w.mu.Unlock()

	if err := w.Flush(ctx); err != nil {
		return err
	}
	return w.store.Clear(ctx, sessionID)
}

// Degraded reports whether the most recent write failed
func (w *Writer) Degraded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.degraded
}

// LastError returns the most recent write error, if any
func (w *Writer) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
