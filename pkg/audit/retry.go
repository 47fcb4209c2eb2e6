// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	stderrors "errors"
	"math"
	"math/rand"
	"time"

	"github.com/jllopis/telos/pkg/errors"
)

// RetryConfig controls how RetryStore retries failed writes with
// exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, the first included.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the exponential backoff delay.
	MaxDelay time.Duration

	// Multiplier for exponential backoff (default 2.0).
	Multiplier float64

	// Jitter in [0, 1]; 0.1 means ±10% of the delay.
	Jitter float64

	// IsRetryable reports whether err deserves another attempt. If nil,
	// everything but context errors and non-recoverable Telos errors is
	// retried.
	IsRetryable func(error) bool
}

// DefaultRetryConfig returns the retry policy used by Open.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 20 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error or the
// attempts are exhausted.
func (rc RetryConfig) Do(ctx context.Context, fn func() error) error {
	if rc.MaxAttempts < 1 {
		rc.MaxAttempts = 1
	}
	retryable := rc.IsRetryable
	if retryable == nil {
		retryable = isRetryableDefault
	}

	var lastErr error
	for attempt := 0; attempt < rc.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.New(errors.CodeAudit, "context canceled during retry", ctx.Err()).
					WithContext("attempt", attempt).
					WithContext("max_attempts", rc.MaxAttempts).
					WithContext("last_error", lastErr.Error())
			case <-time.After(backoff(attempt, rc)):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
	}
	return lastErr
}

// backoff computes InitialDelay * Multiplier^(attempt-1), capped and
// jittered.
func backoff(attempt int, rc RetryConfig) time.Duration {
	multiplier := rc.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}
	delay := time.Duration(float64(rc.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	if rc.MaxDelay > 0 && delay > rc.MaxDelay {
		delay = rc.MaxDelay
	}
	if rc.Jitter > 0 {
		spread := float64(delay) * rc.Jitter
		delay = time.Duration(float64(delay) + spread*(2*rand.Float64()-1))
		if delay < 0 {
			delay = 0
		}
	}
	return delay
}

func isRetryableDefault(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *errors.TelosError
	if stderrors.As(err, &te) {
		return te.Recoverable
	}
	return true
}

// RetryStore retries failed Record calls of the wrapped store. Reads are
// passed through unchanged.
type RetryStore struct {
	store  Store
	config RetryConfig
}

// NewRetryStore wraps store with the retry policy cfg.
func NewRetryStore(store Store, cfg RetryConfig) *RetryStore {
	return &RetryStore{store: store, config: cfg}
}

// Record implements Store. The final error is reported as CodeAudit.
func (s *RetryStore) Record(ctx context.Context, rec Record) error {
	attempts := 0
	err := s.config.Do(ctx, func() error {
		attempts++
		return s.store.Record(ctx, rec)
	})
	if err == nil {
		return nil
	}
	return errors.New(errors.CodeAudit, "cannot write audit record", err).
		WithContext("run_id", rec.RunID).
		WithContext("attempts", attempts).
		WithRecoverable(false)
}

// List implements Store.
func (s *RetryStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	return s.store.List(ctx, filter)
}

// Close implements Store.
func (s *RetryStore) Close() error {
	return s.store.Close()
}
