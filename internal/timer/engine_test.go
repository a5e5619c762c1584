package timer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestStartIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)

	e.Start()
	clock.Advance(10 * time.Second)
	e.Start()
	clock.Advance(5 * time.Second)

	assert.Equal(t, 15*time.Second, e.CurrentElapsed())
	rec := e.Record()
	require.NotNil(t, rec.StartTimestamp)
	assert.Equal(t, t0, *rec.StartTimestamp)
}

func TestPauseWhenInactiveIsNoop(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)

	e.Pause()
	assert.Equal(t, time.Duration(0), e.CurrentElapsed())
	assert.False(t, e.Active())
}

func TestCurrentElapsedSumsIntervals(t *testing.T) {
	tests := []struct {
		name      string
		intervals []struct{ run, idle time.Duration }
		openRun   time.Duration
		expected  time.Duration
	}{
		{
			name:     "single open interval",
			openRun:  42 * time.Second,
			expected: 42 * time.Second,
		},
		{
			name: "closed intervals only",
			intervals: []struct{ run, idle time.Duration }{
				{run: 30 * time.Second, idle: time.Minute},
				{run: 15 * time.Second, idle: 5 * time.Minute},
			},
			expected: 45 * time.Second,
		},
		{
			name: "closed plus open",
			intervals: []struct{ run, idle time.Duration }{
				{run: 1500 * time.Millisecond, idle: 3 * time.Second},
				{run: 2500 * time.Millisecond, idle: time.Second},
			},
			openRun:  6 * time.Second,
			expected: 10 * time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := clockwork.NewFakeClockAt(t0)
			e := NewEngine(clock)

			for _, iv := range tt.intervals {
				e.Start()
				clock.Advance(iv.run)
				e.Pause()
				clock.Advance(iv.idle)
			}
			if tt.openRun > 0 {
				e.Start()
				clock.Advance(tt.openRun)
			}

			assert.InDelta(t, tt.expected.Seconds(), e.CurrentElapsed().Seconds(), 1.0)
		})
	}
}

func TestCurrentElapsedClampsBackwardClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	future := t0.Add(time.Hour)
	e := Restore(clock, Record{
		StartTimestamp:   &future,
		AccumulatedTotal: 20 * time.Second,
		Active:           true,
	})

	assert.Equal(t, 20*time.Second, e.CurrentElapsed())

	e.Pause()
	assert.Equal(t, 20*time.Second, e.CurrentElapsed())
}

func TestReconcileAfterGapFoldsGap(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)
	e.Start()
	clock.Advance(30 * time.Second)

	require.True(t, e.MarkBackgrounded())
	before := e.Record().AccumulatedTotal
	pausedAt, ok := e.PausedAt()
	require.True(t, ok)

	clock.Advance(90 * time.Second)
	gap := e.ReconcileAfterGap(pausedAt, clock.Now())
	e.ClearPausedAt()

	assert.Equal(t, 90*time.Second, gap)
	assert.Equal(t, before+90*time.Second, e.Record().AccumulatedTotal)
	assert.Equal(t, 120*time.Second, e.CurrentElapsed())

	rec := e.Record()
	require.NotNil(t, rec.StartTimestamp)
	assert.Equal(t, clock.Now(), *rec.StartTimestamp)
	assert.Nil(t, rec.PausedAtTimestamp)
}

func TestReconcileAfterGapBackwardJumpClampsToZero(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)
	e.Start()
	clock.Advance(30 * time.Second)
	require.True(t, e.MarkBackgrounded())

	pausedAt, _ := e.PausedAt()
	gap := e.ReconcileAfterGap(pausedAt, pausedAt.Add(-2*time.Minute))

	assert.Equal(t, time.Duration(0), gap)
	assert.Equal(t, 30*time.Second, e.Record().AccumulatedTotal)
	assert.GreaterOrEqual(t, e.CurrentElapsed(), 30*time.Second)
}

func TestReconcileAfterGapFoldsUncheckpointedRun(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)
	e.Start()

	// Killed while foregrounded: the last known timestamp is the start.
	gap := e.ReconcileAfterGap(t0, t0.Add(5*time.Minute))

	assert.Equal(t, 5*time.Minute, gap)
	assert.Equal(t, 5*time.Minute, e.Record().AccumulatedTotal)
}

func TestReconcileAfterGapInactiveAccruesNothing(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)
	e.Start()
	clock.Advance(10 * time.Second)
	e.Pause()

	gap := e.ReconcileAfterGap(clock.Now(), clock.Now().Add(time.Hour))

	assert.Equal(t, time.Duration(0), gap)
	assert.Equal(t, 10*time.Second, e.CurrentElapsed())
}

func TestMarkBackgroundedInactive(t *testing.T) {
	e := NewEngine(clockwork.NewFakeClockAt(t0))

	assert.False(t, e.MarkBackgrounded())
	_, ok := e.PausedAt()
	assert.False(t, ok)
}

func TestRestoreRepairsInvariant(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	pausedAt := t0.Add(-time.Minute)

	tests := []struct {
		name       string
		rec        Record
		wantActive bool
		wantStart  *time.Time
	}{
		{
			name:       "active without start uses background marker",
			rec:        Record{Active: true, PausedAtTimestamp: &pausedAt},
			wantActive: true,
			wantStart:  &pausedAt,
		},
		{
			name:       "active without any timestamp becomes inactive",
			rec:        Record{Active: true, AccumulatedTotal: time.Minute},
			wantActive: false,
		},
		{
			name:       "inactive drops stray timestamps",
			rec:        Record{StartTimestamp: &pausedAt, PausedAtTimestamp: &pausedAt},
			wantActive: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Restore(clock, tt.rec).Record()

			assert.Equal(t, tt.wantActive, rec.Active)
			if tt.wantStart == nil {
				assert.Nil(t, rec.StartTimestamp)
				assert.Nil(t, rec.PausedAtTimestamp)
			} else {
				require.NotNil(t, rec.StartTimestamp)
				assert.Equal(t, *tt.wantStart, *rec.StartTimestamp)
			}
		})
	}
}

func TestRecordIsACopy(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)
	e.Start()

	rec := e.Record()
	*rec.StartTimestamp = t0.Add(-time.Hour)
	clock.Advance(time.Second)

	assert.Equal(t, time.Second, e.CurrentElapsed())
}

func TestBackgroundPauseResumeScenario(t *testing.T) {
	clock := clockwork.NewFakeClockAt(t0)
	e := NewEngine(clock)

	e.Start()
	clock.Advance(30 * time.Second)
	e.MarkBackgrounded()
	clock.Advance(90 * time.Second)
	pausedAt, _ := e.PausedAt()
	e.ReconcileAfterGap(pausedAt, clock.Now())
	e.ClearPausedAt()
	assert.Equal(t, 120*time.Second, e.CurrentElapsed())

	e.Pause()
	clock.Advance(10 * time.Second)
	e.Start()
	assert.Equal(t, 120*time.Second, e.CurrentElapsed())

	clock.Advance(3 * time.Second)
	assert.Equal(t, 123*time.Second, e.CurrentElapsed())
}
