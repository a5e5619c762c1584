// Package app wires the timer, store, lifecycle coordinator and mutation
// engine into one in-progress workout owned by the UI goroutine.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/balkashynov/wrkout/internal/lifecycle"
	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/recovery"
	"github.com/balkashynov/wrkout/internal/store"
	"github.com/balkashynov/wrkout/internal/timer"
	"github.com/balkashynov/wrkout/internal/workout"
)

var (
	ErrNoSession     = errors.New("no session in progress")
	ErrSessionActive = errors.New("a session is already in progress")
	ErrNothingLogged = errors.New("no completed sets to submit")
)

// Submitter delivers a finalized workout to the remote log
type Submitter interface {
	SubmitWorkoutLog(ctx context.Context, log models.WorkoutLog) error
}

// Options configure a Service. Store is required.
type Options struct {
	Store       store.SessionStore
	Submitter   Submitter
	Clock       clockwork.Clock
	Logger      *slog.Logger
	Tick        time.Duration
	RestDefault time.Duration
	// OnTick receives display refreshes while the timer runs in the
	// foreground. It must not block.
	OnTick func(elapsed time.Duration)
}

// Service owns at most one bound session. Not safe for concurrent use.
type Service struct {
	store       store.SessionStore
	writer      *store.Writer
	submitter   Submitter
	clock       clockwork.Clock
	logger      *slog.Logger
	tick        time.Duration
	restDefault time.Duration
	onTick      func(time.Duration)

	session      models.Session
	engine       *timer.Engine
	coord        *lifecycle.Coordinator
	ticker       *Ticker
	rest         *timer.RestTimer
	editingPrior bool
	bound        bool
}

// NewService creates a service with no session bound
func NewService(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RestDefault <= 0 {
		opts.RestDefault = 90 * time.Second
	}
	return &Service{
		store:       opts.Store,
		writer:      store.NewWriter(opts.Store, opts.Logger),
		submitter:   opts.Submitter,
		clock:       opts.Clock,
		logger:      opts.Logger,
		tick:        opts.Tick,
		restDefault: opts.RestDefault,
		onTick:      opts.OnTick,
		rest:        timer.NewRestTimer(opts.Clock),
	}
}

// Recover loads and reconciles an orphaned session without binding it
func (s *Service) Recover(ctx context.Context) *recovery.Recovered {
	return recovery.NewLoader(s.store, s.clock, s.logger).Load(ctx)
}

// Start binds a freshly seeded session and starts its timer
func (s *Service) Start(session models.Session) error {
	if s.bound {
		return ErrSessionActive
	}
	engine := timer.NewEngine(s.clock)
	engine.Start()
	s.bind(session, engine)
	s.logger.Info("Session started", "session_id", session.ID, "exercises", len(session.Exercises))
	return nil
}

// Resume binds a recovered session with its reconciled timer
func (s *Service) Resume(rec *recovery.Recovered) error {
	if s.bound {
		return ErrSessionActive
	}
	if rec == nil {
		return ErrNoSession
	}
	s.bind(rec.Session, rec.Timer)
	s.logger.Info("Session resumed", "session_id", rec.Session.ID, "active", rec.Timer.Active())
	return nil
}

// DiscardRecovered removes an orphaned session the user chose not to resume
func (s *Service) DiscardRecovered(ctx context.Context, rec *recovery.Recovered) error {
	if rec == nil {
		return nil
	}
	if err := s.store.Clear(ctx, rec.Session.ID); err != nil {
		return fmt.Errorf("failed to discard recovered session: %w", err)
	}
	s.logger.Info("Recovered session discarded", "session_id", rec.Session.ID)
	return nil
}

// DiscardUnreadable clears the newest stored session when it cannot be
// decoded and returns its id. It returns "" when the newest session is
// readable or there is none.
func (s *Service) DiscardUnreadable(ctx context.Context) (string, error) {
	_, err := s.store.LoadLatest(ctx)
	var corrupt *store.CorruptSnapshotError
	if !errors.As(err, &corrupt) {
		return "", nil
	}
	if err := s.store.Clear(ctx, corrupt.SessionID); err != nil {
		return "", fmt.Errorf("failed to discard unreadable session: %w", err)
	}
	s.logger.Warn("Unreadable session discarded", "session_id", corrupt.SessionID, "error", corrupt.Err)
	return corrupt.SessionID, nil
}

func (s *Service) bind(session models.Session, engine *timer.Engine) {
	s.session = session.Clone()
	s.engine = engine
	s.ticker = NewTicker(s.clock, s.tick, func(time.Time) {
		if s.onTick != nil {
			s.onTick(engine.CurrentElapsed())
		}
	})
	s.bound = true
	s.coord = lifecycle.NewCoordinator(engine, s, s.ticker, s.logger)
	s.Persist()
}

// Persist queues a snapshot of the bound session
func (s *Service) Persist() {
	if !s.bound {
		return
	}
	snap := store.Capture(s.session, s.engine)
	s.session = snap.Session
	s.writer.Save(snap)
}

// Bound reports whether a session is in progress
func (s *Service) Bound() bool {
	return s.bound
}

// Session returns a copy of the bound session with live duration mirrored in
func (s *Service) Session() models.Session {
	if !s.bound {
		return models.Session{}
	}
	return store.Capture(s.session, s.engine).Session
}

// Elapsed is the live active duration
func (s *Service) Elapsed() time.Duration {
	if !s.bound {
		return 0
	}
	return s.engine.CurrentElapsed()
}

// Completion is the share of completed sets, 0..100
func (s *Service) Completion() float64 {
	return workout.CompletionPercentage(s.session)
}

// State is the lifecycle state of the bound session
func (s *Service) State() lifecycle.State {
	if !s.bound {
		return lifecycle.Paused
	}
	return s.coord.State()
}

// Rest exposes the between-sets countdown
func (s *Service) Rest() *timer.RestTimer {
	return s.rest
}

// EditingPrior reports whether the cursor moved back to an earlier exercise
func (s *Service) EditingPrior() bool {
	return s.editingPrior
}

// Degraded reports whether the last snapshot write failed
func (s *Service) Degraded() bool {
	return s.writer.Degraded()
}

// Lifecycle events

func (s *Service) Background() {
	if s.bound {
		s.coord.Background()
	}
}

func (s *Service) Foreground() {
	if s.bound {
		s.coord.Foreground()
	}
}

func (s *Service) Pause() bool {
	return s.bound && s.coord.Pause()
}

func (s *Service) ResumeTimer() bool {
	return s.bound && s.coord.Resume()
}

func (s *Service) ToggleTimer() {
	if s.bound {
		s.coord.Toggle()
	}
}

// Mutations

func (s *Service) apply(next models.Session, err error) error {
	if err != nil {
		return err
	}
	s.session = next
	s.Persist()
	return nil
}

// CompleteSet marks a set done and starts its rest countdown
func (s *Service) CompleteSet(exerciseIdx, setIdx int, actuals workout.Actuals) error {
	if !s.bound {
		return ErrNoSession
	}
	next, err := workout.CompleteSet(s.session, exerciseIdx, setIdx, actuals)
	if err := s.apply(next, err); err != nil {
		return err
	}
	rest := time.Duration(next.Exercises[exerciseIdx].Sets[setIdx].RestTimeSeconds) * time.Second
	if rest <= 0 {
		rest = s.restDefault
	}
	s.rest.Start(rest)
	return nil
}

func (s *Service) UncompleteSet(exerciseIdx, setIdx int) error {
	if !s.bound {
		return ErrNoSession
	}
	return s.apply(workout.UncompleteSet(s.session, exerciseIdx, setIdx))
}

func (s *Service) UpdateSet(exerciseIdx, setIdx int, partial workout.Actuals) error {
	if !s.bound {
		return ErrNoSession
	}
	return s.apply(workout.UpdateSet(s.session, exerciseIdx, setIdx, partial))
}

func (s *Service) AddSet(exerciseIdx int) error {
	if !s.bound {
		return ErrNoSession
	}
	return s.apply(workout.AddSet(s.session, exerciseIdx))
}

// RemoveSet returns *workout.LastSetError when asked to drop an exercise's
// only set; the session is unchanged.
func (s *Service) RemoveSet(exerciseIdx, setIdx int) error {
	if !s.bound {
		return ErrNoSession
	}
	return s.apply(workout.RemoveSet(s.session, exerciseIdx, setIdx))
}

// Navigate moves the cursor to exercise idx
func (s *Service) Navigate(idx int) (workout.Navigation, error) {
	if !s.bound {
		return workout.Navigation{}, ErrNoSession
	}
	next, nav, err := workout.NavigateToExercise(s.session, idx)
	if err := s.apply(next, err); err != nil {
		return workout.Navigation{}, err
	}
	s.editingPrior = nav.EditingPrior
	return nav, nil
}

func (s *Service) AddExercise(ex models.Exercise) error {
	if !s.bound {
		return ErrNoSession
	}
	return s.apply(workout.AddExercise(s.session, ex), nil)
}

func (s *Service) RemoveExercise(idx int) error {
	if !s.bound {
		return ErrNoSession
	}
	return s.apply(workout.RemoveExercise(s.session, idx))
}

func (s *Service) SetNotes(notes string) error {
	if !s.bound {
		return ErrNoSession
	}
	return s.apply(workout.SetNotes(s.session, notes), nil)
}

// Exit leaves the session. The display tick is stopped and the timer paused
// before the final write, so nothing can re-persist afterwards. With save
// the snapshot is flushed for a later resume; without it the session is
// removed from the store.
func (s *Service) Exit(ctx context.Context, save bool) error {
	if !s.bound {
		return nil
	}
	id := s.session.ID
	s.coord.Detach()
	s.rest.Cancel()

	var err error
	if save {
		s.coord.Pause()
		s.Persist()
		s.writer.Close()
		err = s.writer.Flush(ctx)
	} else {
		if s.engine.Active() {
			s.engine.Pause()
		}
		err = s.writer.Discard(ctx, id)
	}
	s.unbind()

	if err != nil {
		return fmt.Errorf("failed to finish session %s: %w", id, err)
	}
	s.logger.Info("Session exited", "session_id", id, "saved", save)
	return nil
}

// Suspend hands the session to a later process without pausing it. The
// timer is checkpointed as backgrounded so the next Recover folds the whole
// absence in, exactly as after a crash.
func (s *Service) Suspend(ctx context.Context) error {
	if !s.bound {
		return nil
	}
	id := s.session.ID
	s.coord.Background()
	s.coord.Detach()
	s.writer.Close()
	err := s.writer.Flush(ctx)
	s.unbind()

	if err != nil {
		return fmt.Errorf("failed to suspend session %s: %w", id, err)
	}
	s.logger.Debug("Session suspended", "session_id", id)
	return nil
}

// Submit finalizes the session and posts it to the workout log. The local
// snapshot is removed only after the API accepts it; on failure the
// session stays bound (paused) so the user can retry or exit. A session
// with no completed sets is rejected with ErrNothingLogged and left untouched.
func (s *Service) Submit(ctx context.Context) (models.WorkoutLog, error) {
	if !s.bound {
		return models.WorkoutLog{}, ErrNoSession
	}
	if s.submitter == nil {
		return models.WorkoutLog{}, errors.New("no workout log API configured")
	}

	if len(workout.BuildLog(s.session, s.engine.CurrentElapsed()).Exercises) == 0 {
		return models.WorkoutLog{}, ErrNothingLogged
	}

	s.coord.Detach()
	s.coord.Pause()
	s.rest.Cancel()
	s.Persist()

	log := workout.BuildLog(s.session, s.engine.CurrentElapsed())

	if err := s.submitter.SubmitWorkoutLog(ctx, log); err != nil {
		s.logger.Warn("Workout submission failed, session kept", "session_id", s.session.ID, "error", err)
		return log, err
	}

	id := s.session.ID
	if err := s.writer.Discard(ctx, id); err != nil {
		s.logger.Warn("Submitted session not cleared", "session_id", id, "error", err)
	}
	s.unbind()
	s.logger.Info("Session submitted", "session_id", id, "duration_minutes", log.DurationMinutes)
	return log, nil
}

func (s *Service) unbind() {
	s.bound = false
	s.session = models.Session{}
	s.engine = nil
	s.coord = nil
	s.ticker = nil
	s.editingPrior = false
	s.writer = store.NewWriter(s.store, s.logger)
}

// Close drains pending writes; call once before the process exits
func (s *Service) Close(ctx context.Context) error {
	s.writer.Close()
	return s.writer.Flush(ctx)
}
