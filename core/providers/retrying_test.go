package providers_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/providers"
	"github.com/adalundhe/floyd/core/providers/providertest"
)

func fastPolicy(attempts int) *coreerrors.RetryPolicy {
	return &coreerrors.RetryPolicy{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1,
	}
}

func fastWrapper(t *testing.T, breaker *coreerrors.CircuitBreakerConfig) func(providers.Provider) providers.Provider {
	t.Helper()
	wrap, err := providers.RetryWrapper(providers.Settings{
		Retry: map[string]*coreerrors.RetryPolicy{
			"transient":           fastPolicy(2),
			"external_rate_limit": fastPolicy(2),
			"external_degrading":  fastPolicy(1),
		},
		CircuitBreaker: breaker,
	}, nil, slog.Default())
	require.NoError(t, err)
	return wrap
}

func TestRetrying_RetriesTransientFailure(t *testing.T) {
	fake := providertest.ScriptedReplies(
		providertest.Reply{Err: coreerrors.ErrTimeout},
		providertest.Reply{Content: "second time lucky"},
	)
	p := fastWrapper(t, nil)(fake)

	resp, err := p.Complete(context.Background(), providers.NewTextRequest("sys", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", resp.Content)
	assert.Equal(t, 2, fake.Calls())
}

func TestRetrying_PermanentFailureIsNotRetried(t *testing.T) {
	fake := providertest.ScriptedReplies(
		providertest.Reply{Err: coreerrors.ErrMalformedResponse},
		providertest.Reply{Content: "unreachable"},
	)
	p := fastWrapper(t, nil)(fake)

	_, err := p.Complete(context.Background(), providers.NewTextRequest("sys", "hi"))
	assert.ErrorIs(t, err, coreerrors.ErrMalformedResponse)
	assert.Equal(t, 1, fake.Calls())
}

func TestRetrying_GivesUpAfterPolicy(t *testing.T) {
	fake := providertest.Func(func(*providers.Request) (string, error) {
		return "", coreerrors.ErrServiceUnavailable
	})
	p := fastWrapper(t, nil)(fake)

	_, err := p.Complete(context.Background(), providers.NewTextRequest("sys", "hi"))
	assert.ErrorIs(t, err, coreerrors.ErrServiceUnavailable)
	assert.Equal(t, 2, fake.Calls())
}

func TestRetrying_OpenCircuitFailsFast(t *testing.T) {
	fake := providertest.Func(func(*providers.Request) (string, error) {
		return "", coreerrors.ErrServiceUnavailable
	})
	p := fastWrapper(t, &coreerrors.CircuitBreakerConfig{
		ConsecutiveFailures: 2,
		CooldownDuration:    time.Hour,
		SuccessThreshold:    1,
	})(fake)

	_, err := p.Complete(context.Background(), providers.NewTextRequest("sys", "hi"))
	require.Error(t, err)
	calls := fake.Calls()

	_, err = p.Complete(context.Background(), providers.NewTextRequest("sys", "hi"))
	assert.ErrorIs(t, err, coreerrors.ErrCircuitOpen)
	assert.Equal(t, 503, coreerrors.StatusFor(err))
	assert.Equal(t, calls, fake.Calls())

	r, ok := p.(*providers.Retrying)
	require.True(t, ok)
	assert.Equal(t, coreerrors.CircuitOpen, r.CircuitState())
	assert.Same(t, fake, r.Unwrap())
}

func TestRetrying_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fake := providertest.Func(func(*providers.Request) (string, error) {
		cancel()
		return "", coreerrors.ErrTimeout
	})
	p := fastWrapper(t, nil)(fake)

	_, err := p.Complete(ctx, providers.NewTextRequest("sys", "hi"))
	require.Error(t, err)
	assert.Equal(t, 1, fake.Calls())
}

func TestRetryWrapper_RejectsUnknownTier(t *testing.T) {
	_, err := providers.RetryWrapper(providers.Settings{
		Retry: map[string]*coreerrors.RetryPolicy{"sometimes": fastPolicy(1)},
	}, nil, nil)
	assert.Error(t, err)
}
