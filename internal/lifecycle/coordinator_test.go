package lifecycle

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/wrkout/internal/timer"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type countingPersister struct {
	calls   int
	records []timer.Record
	engine  *timer.Engine
}

func (p *countingPersister) Persist() {
	p.calls++
	if p.engine != nil {
		p.records = append(p.records, p.engine.Record())
	}
}

type fakeRefresher struct {
	running bool
	starts  int
}

func (r *fakeRefresher) Start() {
	r.running = true
	r.starts++
}

func (r *fakeRefresher) Stop() {
	r.running = false
}

func setup(t *testing.T) (*clockwork.FakeClock, *timer.Engine, *countingPersister, *fakeRefresher, *Coordinator) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(t0)
	engine := timer.NewEngine(clock)
	engine.Start()
	persister := &countingPersister{engine: engine}
	refresher := &fakeRefresher{}
	return clock, engine, persister, refresher, NewCoordinator(engine, persister, refresher, nil)
}

func TestNewCoordinatorStartsRefreshForActiveTimer(t *testing.T) {
	_, _, _, refresher, c := setup(t)

	assert.True(t, refresher.running)
	assert.Equal(t, ActiveForeground, c.State())
}

func TestBackgroundForegroundFoldsGap(t *testing.T) {
	clock, engine, persister, refresher, c := setup(t)
	clock.Advance(30 * time.Second)

	c.Background()
	assert.Equal(t, ActiveBackground, c.State())
	assert.False(t, refresher.running)
	require.Equal(t, 1, persister.calls)
	persisted := persister.records[0]
	require.NotNil(t, persisted.PausedAtTimestamp)
	assert.Equal(t, clock.Now(), *persisted.PausedAtTimestamp)
	assert.True(t, persisted.Active, "backgrounding must not pause")

	before := engine.Record().AccumulatedTotal
	clock.Advance(90 * time.Second)
	c.Foreground()

	assert.Equal(t, ActiveForeground, c.State())
	assert.True(t, refresher.running)
	assert.Equal(t, before+90*time.Second, engine.Record().AccumulatedTotal)
	assert.Equal(t, 120*time.Second, engine.CurrentElapsed())
	_, ok := engine.PausedAt()
	assert.False(t, ok)
	assert.Equal(t, 2, persister.calls)
}

func TestRepeatedEventsAreIgnored(t *testing.T) {
	clock, engine, persister, _, c := setup(t)

	c.Foreground()
	assert.Equal(t, 0, persister.calls)

	clock.Advance(10 * time.Second)
	c.Background()
	clock.Advance(10 * time.Second)
	c.Background()
	assert.Equal(t, 1, persister.calls)

	pausedAt, ok := engine.PausedAt()
	require.True(t, ok)
	assert.Equal(t, t0.Add(10*time.Second), pausedAt)
}

func TestPauseResume(t *testing.T) {
	clock, engine, persister, refresher, c := setup(t)
	clock.Advance(20 * time.Second)

	assert.True(t, c.Pause())
	assert.False(t, c.Pause())
	assert.Equal(t, Paused, c.State())
	assert.False(t, refresher.running)

	clock.Advance(10 * time.Second)
	assert.Equal(t, 20*time.Second, engine.CurrentElapsed())

	assert.True(t, c.Resume())
	assert.False(t, c.Resume())
	assert.True(t, refresher.running)
	assert.Equal(t, 2, persister.calls)
}

func TestPausedHostVisibilityDoesNotAccrue(t *testing.T) {
	clock, engine, _, refresher, c := setup(t)
	clock.Advance(15 * time.Second)
	c.Pause()

	c.Background()
	clock.Advance(time.Hour)
	c.Foreground()

	assert.Equal(t, Paused, c.State())
	assert.False(t, refresher.running)
	assert.Equal(t, 15*time.Second, engine.CurrentElapsed())
}

func TestResumeWhileBackgroundedDoesNotRefresh(t *testing.T) {
	clock, engine, _, refresher, c := setup(t)
	c.Pause()
	c.Background()

	c.Resume()
	assert.False(t, refresher.running)
	assert.Equal(t, ActiveBackground, c.State())

	clock.Advance(5 * time.Second)
	c.Foreground()
	assert.True(t, refresher.running)
	assert.Equal(t, 5*time.Second, engine.CurrentElapsed())
}

func TestToggle(t *testing.T) {
	_, _, _, _, c := setup(t)

	c.Toggle()
	assert.Equal(t, Paused, c.State())
	c.Toggle()
	assert.Equal(t, ActiveForeground, c.State())
}

func TestScenarioBackgroundThenPause(t *testing.T) {
	clock, engine, _, _, c := setup(t)

	clock.Advance(30 * time.Second)
	c.Background()
	clock.Advance(90 * time.Second)
	c.Foreground()
	assert.Equal(t, int64(120), int64(engine.CurrentElapsed()/time.Second))

	c.Pause()
	clock.Advance(10 * time.Second)
	c.Resume()
	assert.Equal(t, int64(120), int64(engine.CurrentElapsed()/time.Second))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active-foreground", ActiveForeground.String())
	assert.Equal(t, "active-background", ActiveBackground.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "unknown", State(42).String())
}
