// Package api submits finalized workouts to the remote workout-log API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/balkashynov/wrkout/internal/models"
)

const workoutLogsPath = "/workout-logs"

var (
	ErrSubmit        = errors.New("workout log submission failed")
	ErrNotConfigured = errors.New("workout log API is not configured")
)

// StatusError is a non-2xx response from the API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode == http.StatusRequestTimeout
}

// Config for the API client
type Config struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration // per request
	MaxElapsed      time.Duration // across retries
	InitialInterval time.Duration
}

// Client posts workout logs
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a client. A nil logger uses slog.Default().
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = time.Minute
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// SubmitWorkoutLog posts log, retrying transient failures with exponential
// backoff. Every attempt carries the same idempotency key.
func (c *Client) SubmitWorkoutLog(ctx context.Context, log models.WorkoutLog) error {
	if c.cfg.BaseURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal workout log: %w", err)
	}
	idempotencyKey := uuid.NewString()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialInterval
	b.MaxElapsedTime = c.cfg.MaxElapsed

	attempt := 0
	op := func() error {
		attempt++
		err := c.post(ctx, body, idempotencyKey)
		var status *StatusError
		if errors.As(err, &status) && !status.Retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Workout log submission failed, retrying", "attempt", attempt, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	c.logger.Info("Workout log submitted", "name", log.Name, "attempts", attempt)
	return nil
}

func (c *Client) post(ctx context.Context, body []byte, idempotencyKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+workoutLogsPath, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
}
