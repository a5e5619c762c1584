// Package recovery rehydrates the newest persisted session at startup.
// A process kill is treated as an implicit backgrounding: the whole
// wall-clock gap since the last known timestamp is folded into the timer.
package recovery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/store"
	"github.com/balkashynov/wrkout/internal/timer"
)

// Recovered is a rehydrated session ready to be resumed or discarded
type Recovered struct {
	Session models.Session
	Timer   *timer.Engine
	Gap     time.Duration // wall-clock time folded in by reconciliation
}

// Loader finds and rehydrates orphaned sessions
type Loader struct {
	store  store.SessionStore
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger uses slog.Default().
func NewLoader(s store.SessionStore, clock clockwork.Clock, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: s, clock: clock, logger: logger}
}

// Load returns the newest session, reconciled, or nil when there is nothing
// to recover. Storage failures are logged and reported as nothing to recover.
func (l *Loader) Load(ctx context.Context) *Recovered {
	snap, err := l.store.LoadLatest(ctx)
	var corrupt *store.CorruptSnapshotError
	if errors.As(err, &corrupt) {
		l.logger.Warn("Stored session is unreadable, run 'wrkout discard' to remove it",
			"session_id", corrupt.SessionID, "error", corrupt.Err)
		return nil
	}
	if err != nil {
		l.logger.Warn("Session recovery failed, starting fresh", "error", err)
		return nil
	}
	if snap == nil {
		return nil
	}

	engine := timer.Restore(l.clock, snap.Timer)
	rec := &Recovered{Session: normalize(snap.Session), Timer: engine}

	if engine.Active() {
		gapStart, ok := engine.PausedAt()
		if !ok {
			gapStart = *engine.Record().StartTimestamp
		}
		rec.Gap = engine.ReconcileAfterGap(gapStart, l.clock.Now())
		engine.ClearPausedAt()
	}

	reconciled := store.Capture(rec.Session, engine)
	rec.Session = reconciled.Session

	if err := l.store.Save(ctx, reconciled); err != nil {
		l.logger.Warn("Recovered session not re-persisted", "session_id", rec.Session.ID, "error", err)
	}

	l.logger.Info("Recovered session",
		"session_id", rec.Session.ID,
		"duration_seconds", rec.Session.DurationSeconds,
		"active", engine.Active(),
		"gap", rec.Gap)

	return rec
}

// normalize repairs a cursor that points outside the exercise list
func normalize(s models.Session) models.Session {
	switch {
	case len(s.Exercises) == 0:
		s.CurrentExerciseIndex = 0
	case s.CurrentExerciseIndex < 0:
		s.CurrentExerciseIndex = 0
	case s.CurrentExerciseIndex >= len(s.Exercises):
		s.CurrentExerciseIndex = len(s.Exercises) - 1
	}
	return s
}
