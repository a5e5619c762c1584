package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/wrkout/internal/models"
)

func testLog() models.WorkoutLog {
	return models.WorkoutLog{
		Name:            "Push Day",
		Date:            "2026-03-14T09:00:00Z",
		DurationMinutes: 48,
		Notes:           "felt strong",
		Exercises: []models.LoggedExercise{{
			Name:      "Bench Press",
			Equipment: "barbell",
			Order:     0,
			Sets:      []models.LoggedSet{{Reps: 8, Weight: 60, Order: 0}},
		}},
	}
}

func fastClient(url string) *Client {
	return NewClient(Config{
		BaseURL:         url + "/",
		Token:           "secret",
		Timeout:         time.Second,
		MaxElapsed:      2 * time.Second,
		InitialInterval: time.Millisecond,
	}, nil)
}

func TestSubmitWorkoutLogSendsPayload(t *testing.T) {
	var got map[string]any
	var auth, contentType, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	require.NoError(t, fastClient(srv.URL).SubmitWorkoutLog(context.Background(), testLog()))

	assert.Equal(t, "/workout-logs", path)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "Push Day", got["name"])
	assert.Equal(t, float64(48), got["durationMinutes"])
	exercises := got["exercises"].([]any)
	require.Len(t, exercises, 1)
	sets := exercises[0].(map[string]any)["sets"].([]any)
	assert.Equal(t, map[string]any{"reps": float64(8), "weight": float64(60), "order": float64(0)}, sets[0])
}

func TestSubmitWorkoutLogRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	keys := map[string]struct{}{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys[r.Header.Get("Idempotency-Key")] = struct{}{}
		mu.Unlock()
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, fastClient(srv.URL).SubmitWorkoutLog(context.Background(), testLog()))

	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, keys, 1, "retries must reuse the idempotency key")
}

func TestSubmitWorkoutLogClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("exercises must not be empty"))
	}))
	defer srv.Close()

	err := fastClient(srv.URL).SubmitWorkoutLog(context.Background(), testLog())

	require.ErrorIs(t, err, ErrSubmit)
	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusUnprocessableEntity, status.StatusCode)
	assert.Equal(t, "exercises must not be empty", status.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubmitWorkoutLogGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxElapsed: 50 * time.Millisecond, InitialInterval: time.Millisecond}, nil)
	err := c.SubmitWorkoutLog(context.Background(), testLog())

	assert.ErrorIs(t, err, ErrSubmit)
}

func TestSubmitWorkoutLogCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastClient(srv.URL).SubmitWorkoutLog(ctx, testLog())
	assert.ErrorIs(t, err, ErrSubmit)
}

func TestSubmitWorkoutLogNotConfigured(t *testing.T) {
	err := NewClient(Config{}, nil).SubmitWorkoutLog(context.Background(), testLog())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStatusErrorRetryable(t *testing.T) {
	tests := []struct {
		code      int
		retryable bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retryable, (&StatusError{StatusCode: tt.code}).Retryable())
		})
	}
}
