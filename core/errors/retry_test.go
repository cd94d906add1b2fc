package errors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(delays *[]time.Duration) *RetryExecutor {
	e := NewRetryExecutor(nil, nil)
	e.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
	return e
}

func TestRetryExecutor_SucceedsAfterTransient(t *testing.T) {
	var delays []time.Duration
	e := newTestExecutor(&delays)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("connection reset by peer")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, delays, 1)
}

func TestRetryExecutor_StopsOnPermanent(t *testing.T) {
	var delays []time.Duration
	e := newTestExecutor(&delays)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return ErrMalformedResponse
	})

	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestRetryExecutor_ExhaustsPolicy(t *testing.T) {
	var delays []time.Duration
	e := newTestExecutor(&delays)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return NewTieredError(TierTransient, "reset", nil)
	})

	require.Error(t, err)
	assert.Equal(t, GetRetryPolicy(TierTransient).MaxAttempts+1, calls)
}

func TestRetryExecutor_HonorsRetryAfter(t *testing.T) {
	var delays []time.Duration
	e := newTestExecutor(&delays)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return ErrRateLimited.WithRetryAfter(7 * time.Second)
		}
		return nil
	})

	require.NoError(t, err)
	require.Len(t, delays, 1)
	assert.Equal(t, 7*time.Second, delays[0])
}

func TestRetryExecutor_ContextErrorsAreNotRetried(t *testing.T) {
	var delays []time.Duration
	e := newTestExecutor(&delays)

	calls := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return context.DeadlineExceeded
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}

func TestRetryExecutor_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := NewRetryExecutor(nil, nil)

	calls := 0
	err := e.Execute(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return NewTieredError(TierTransient, "reset", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCalculateDelay(t *testing.T) {
	policy := &RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, CalculateDelay(0, policy))
	assert.Equal(t, 400*time.Millisecond, CalculateDelay(2, policy))
	assert.Equal(t, time.Second, CalculateDelay(10, policy))
	assert.Equal(t, time.Duration(0), CalculateDelay(1, &RetryPolicy{}))
	assert.Equal(t, time.Duration(0), CalculateDelay(1, nil))
}

func TestAddJitter(t *testing.T) {
	base := time.Second
	for i := 0; i < 50; i++ {
		d := AddJitter(base, 0.1)
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}
	assert.Equal(t, base, AddJitter(base, 0))
}
