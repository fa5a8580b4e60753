package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("test error")

func TestDo(t *testing.T) {
	fastCfg := func(n int) retry.RetryConfig {
		return retry.RetryConfig{
			MaxAttempts: n,
			Backoff:     retry.ConstantBackoff(time.Millisecond),
		}
	}

	t.Run("FirstAttempt", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), fastCfg(3), func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("SucceedsAfterFailures", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), fastCfg(3), func() error {
			calls++
			if calls < 3 {
				return errTest
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustedReturnsLastError", func(t *testing.T) {
		var calls int
		err := retry.Do(t.Context(), fastCfg(2), func() error {
			calls++
			return errTest
		})
		require.ErrorIs(t, err, errTest)
		assert.Equal(t, 2, calls)
	})

	t.Run("NotRetryable", func(t *testing.T) {
		cfg := fastCfg(5)
		cfg.ShouldRetry = func(error) bool { return false }

		var calls int
		err := retry.Do(t.Context(), cfg, func() error {
			calls++
			return errTest
		})
		require.ErrorIs(t, err, errTest)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		var calls int
		err := retry.Do(ctx, fastCfg(3), func() error {
			calls++
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})
}

func TestDoWithResult(t *testing.T) {
	cfg := retry.RetryConfig{
		MaxAttempts: 2,
		Backoff:     retry.ConstantBackoff(time.Millisecond),
	}

	var calls int
	v, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errTest
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestExponentialBackoff(t *testing.T) {
	b := retry.ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := (1 << attempt) * 10 * time.Millisecond
		d := b(attempt)
		assert.Greater(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}
