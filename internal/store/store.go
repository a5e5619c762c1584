// Package store persists the single active session snapshot.
//
// Key layout (engine agnostic):
//
//	session:<id>              Session JSON
//	session:<id>:timer_start  unix millis, absent when inactive
//	session:<id>:timer_total  accumulated seconds, 3 decimals
//	session:<id>:timer_active "true" / "false"
//	session:<id>:timer_pause  unix millis, absent unless backgrounded
//
// Session IDs are fixed-width UTC timestamps, so the greatest session key is
// the newest session.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/timer"
)

const keyPrefix = "session:"

const (
	suffixTimerStart  = ":timer_start"
	suffixTimerTotal  = ":timer_total"
	suffixTimerActive = ":timer_active"
	suffixTimerPause  = ":timer_pause"
)

var timerSuffixes = []string{suffixTimerStart, suffixTimerTotal, suffixTimerActive, suffixTimerPause}

var ErrCorruptSnapshot = errors.New("corrupt session snapshot")

// CorruptSnapshotError names the stored session that could not be decoded,
// so it can still be cleared by id.
type CorruptSnapshotError struct {
	SessionID string
	Err       error
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("session %s: %v", e.SessionID, e.Err)
}

func (e *CorruptSnapshotError) Unwrap() error {
	return e.Err
}

// Snapshot is the full persisted state of one session
type Snapshot struct {
	Session models.Session
	Timer   timer.Record
}

// Capture builds a snapshot of session with the engine's current state
// mirrored into it. DurationSeconds never goes backwards.
func Capture(session models.Session, engine *timer.Engine) Snapshot {
	session = session.Clone()
	rec := engine.Record()
	if secs := int64(engine.CurrentElapsed() / time.Second); secs > session.DurationSeconds {
		session.DurationSeconds = secs
	}
	session.TimerActive = rec.Active
	return Snapshot{Session: session, Timer: rec}
}

// SessionStore is the durable home of the active session
type SessionStore interface {
	Save(ctx context.Context, snap Snapshot) error
	LoadLatest(ctx context.Context) (*Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

// KV is the minimal key/value surface a storage engine must offer
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// KVStore implements SessionStore on top of any KV engine
type KVStore struct {
	kv KV
}

// NewKVStore creates a session store over kv
func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

func isTimerKey(key string) bool {
	for _, suffix := range timerSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// Save writes the timer keys first and the session key last; the session key
// is what LoadLatest looks for, so a torn write degrades to stale timer data
// rather than a session without one.
func (s *KVStore) Save(ctx context.Context, snap Snapshot) error {
	id := snap.Session.ID
	if id == "" {
		return fmt.Errorf("session has no id")
	}
	key := sessionKey(id)

	if err := s.setOrDelete(ctx, key+suffixTimerStart, snap.Timer.StartTimestamp); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key+suffixTimerTotal, formatSeconds(snap.Timer.AccumulatedTotal)); err != nil {
		return fmt.Errorf("failed to write timer total: %w", err)
	}
	if err := s.kv.Set(ctx, key+suffixTimerActive, strconv.FormatBool(snap.Timer.Active)); err != nil {
		return fmt.Errorf("failed to write timer state: %w", err)
	}
	if err := s.setOrDelete(ctx, key+suffixTimerPause, snap.Timer.PausedAtTimestamp); err != nil {
		return err
	}

	payload, err := json.Marshal(snap.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *KVStore) setOrDelete(ctx context.Context, key string, ts *time.Time) error {
	if ts == nil {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
		return nil
	}
	if err := s.kv.Set(ctx, key, strconv.FormatInt(ts.UnixMilli(), 10)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// LoadLatest returns the newest snapshot, or nil when there is none
func (s *KVStore) LoadLatest(ctx context.Context) (*Snapshot, error) {
	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessionKeys []string
	for _, key := range keys {
		if !isTimerKey(key) {
			sessionKeys = append(sessionKeys, key)
		}
	}
	if len(sessionKeys) == 0 {
		return nil, nil
	}
	sort.Strings(sessionKeys)
	key := sessionKeys[len(sessionKeys)-1]

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	id := strings.TrimPrefix(key, keyPrefix)
	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, &CorruptSnapshotError{SessionID: id, Err: fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)}
	}
	if session.ID == "" {
		session.ID = id
	}

	rec, err := s.loadTimer(ctx, key, session)
	if errors.Is(err, ErrCorruptSnapshot) {
		return nil, &CorruptSnapshotError{SessionID: id, Err: err}
	}
	if err != nil {
		return nil, err
	}

	return &Snapshot{Session: session, Timer: rec}, nil
}

func (s *KVStore) loadTimer(ctx context.Context, key string, session models.Session) (timer.Record, error) {
	rec := timer.Record{AccumulatedTotal: time.Duration(session.DurationSeconds) * time.Second}

	if raw, ok, err := s.kv.Get(ctx, key+suffixTimerTotal); err != nil {
		return rec, fmt.Errorf("failed to read timer total: %w", err)
	} else if ok {
		total, err := parseSeconds(raw)
		if err != nil {
			return rec, fmt.Errorf("%w: timer total %q", ErrCorruptSnapshot, raw)
		}
		rec.AccumulatedTotal = total
	}

	if raw, ok, err := s.kv.Get(ctx, key+suffixTimerActive); err != nil {
		return rec, fmt.Errorf("failed to read timer state: %w", err)
	} else if ok {
		rec.Active = raw == "true"
	}

	start, err := s.getTimestamp(ctx, key+suffixTimerStart)
	if err != nil {
		return rec, err
	}
	rec.StartTimestamp = start

	pausedAt, err := s.getTimestamp(ctx, key+suffixTimerPause)
	if err != nil {
		return rec, err
	}
	rec.PausedAtTimestamp = pausedAt

	return rec, nil
}

func (s *KVStore) getTimestamp(ctx context.Context, key string) (*time.Time, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q", ErrCorruptSnapshot, key, raw)
	}
	ts := time.UnixMilli(ms).UTC()
	return &ts, nil
}

// Clear removes the session and its timer keys
func (s *KVStore) Clear(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)
	keys := []string{key}
	for _, suffix := range timerSuffixes {
		keys = append(keys, key+suffix)
	}
	if err := s.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("invalid seconds %q", raw)
	}
	return time.Duration(math.Round(seconds*1000)) * time.Millisecond, nil
}
