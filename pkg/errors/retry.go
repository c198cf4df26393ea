package errors

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
)

// Retry configuration defaults.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 50 * time.Millisecond
	DefaultMaxDelay   = time.Second
	DefaultJitter     = 0.4 // Produces a multiplier range of [0.6, 1.4]
)

// SQLite primary result codes that indicate transient lock contention.
// Writes hitting these are safe to retry: the failed statement ran inside a
// transaction that rolled back as a unit.
const (
	sqliteBusy   = 5 // SQLITE_BUSY
	sqliteLocked = 6 // SQLITE_LOCKED
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay before first retry
	MaxDelay   time.Duration // Maximum delay between retries
	Jitter     float64       // Jitter factor (0.0 to 1.0)
}

// DefaultRetryConfig returns a RetryConfig with sensible defaults for
// cross-process contention on a local database file.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
		Jitter:     DefaultJitter,
	}
}

// IsRetryable reports whether err represents transient database lock
// contention from another process holding the write lock.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var se *sqlite.Error
	if As(err, &se) {
		code := se.Code() & 0xff // primary code; extended codes share the low byte
		return code == sqliteBusy || code == sqliteLocked
	}

	// The driver sometimes surfaces busy errors as plain strings through
	// database/sql.
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// Retry executes fn with exponential backoff.
// It returns immediately if the error is not retryable or if ctx is cancelled.
// On success, returns nil. On failure after all retries, returns the last error.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return Wrapf(lastErr, "context cancelled after %d attempts", attempt)
			}
			return Wrap(err, "context cancelled before retry")
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) {
			return lastErr
		}

		if attempt == cfg.MaxRetries {
			break
		}

		delay := CalculateBackoff(cfg.BaseDelay, cfg.MaxDelay, attempt, cfg.Jitter)

		select {
		case <-ctx.Done():
			return Wrapf(lastErr, "context cancelled during retry backoff (attempt %d/%d)", attempt+1, cfg.MaxRetries)
		case <-time.After(delay):
			// Continue to next attempt
		}
	}

	return Wrapf(lastErr, "failed after %d retries", cfg.MaxRetries)
}

// CalculateBackoff computes the delay for a given retry attempt using
// exponential backoff with jitter.
func CalculateBackoff(baseDelay, maxDelay time.Duration, attempt int, jitter float64) time.Duration {
	backoff := float64(baseDelay) * math.Pow(2, float64(attempt))
	if backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	if jitter > 0 {
		// Multiplier in [1-jitter, 1+jitter]
		multiplier := 1 + jitter*(2*rand.Float64()-1)
		backoff *= multiplier
	}

	if backoff < 0 {
		backoff = 0
	}
	return time.Duration(backoff)
}
