package errors

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedErr mimics how the driver surfaces contention through database/sql.
var lockedErr = New("database is locked (5) (SQLITE_BUSY)")

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Jitter:     0,
	}
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(New("syntax error")))
	assert.False(t, IsRetryable(NewStorageError("/x", "gone")))

	assert.True(t, IsRetryable(lockedErr))
	assert.True(t, IsRetryable(New("database table is locked")))
	assert.True(t, IsRetryable(Wrap(lockedErr, "inserting entry")))
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_SucceedsAfterContention(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		calls++
		if calls < 3 {
			return lockedErr
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_NonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	permanent := New("constraint violation")
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return permanent
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, Is(err, permanent))
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	cfg := fastRetryConfig()
	calls := 0
	err := Retry(context.Background(), cfg, func() error {
		calls++
		return lockedErr
	})
	require.Error(t, err)
	assert.Equal(t, cfg.MaxRetries+1, calls)
	assert.True(t, Is(err, lockedErr))
	assert.Contains(t, err.Error(), "failed after 3 retries")
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, fastRetryConfig(), func() error {
		calls++
		return lockedErr
	})
	require.Error(t, err)
	assert.Zero(t, calls)
	assert.True(t, Is(err, context.Canceled))
}

func TestCalculateBackoff(t *testing.T) {
	base := 50 * time.Millisecond
	max := time.Second

	// Without jitter the progression is exactly exponential until capped.
	assert.Equal(t, 50*time.Millisecond, CalculateBackoff(base, max, 0, 0))
	assert.Equal(t, 100*time.Millisecond, CalculateBackoff(base, max, 1, 0))
	assert.Equal(t, 200*time.Millisecond, CalculateBackoff(base, max, 2, 0))
	assert.Equal(t, max, CalculateBackoff(base, max, 10, 0))

	// With jitter the delay stays inside the multiplier envelope.
	for i := 0; i < 50; i++ {
		d := CalculateBackoff(base, max, 1, DefaultJitter)
		assert.GreaterOrEqual(t, d, 59*time.Millisecond)
		assert.LessOrEqual(t, d, 141*time.Millisecond)
	}
}
