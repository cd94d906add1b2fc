package providers

import (
	"context"
	"log/slog"
	"time"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// Retrying wraps a Provider with tier-driven retries and a circuit breaker.
// It is the only place completion calls are retried.
type Retrying struct {
	inner    Provider
	executor *coreerrors.RetryExecutor
	breaker  *coreerrors.CircuitBreaker
	logger   *slog.Logger

	// stepRetried is set when inner retries its own idempotent step.
	stepRetried bool
}

// StepRetrier is a provider whose Complete has side effects that must not
// repeat. Retrying hands it the retry executor and calls Complete once.
type StepRetrier interface {
	UseRetryExecutor(e *coreerrors.RetryExecutor)
}

// RetryingOption configures a Retrying provider.
type RetryingOption func(*Retrying)

func WithRetryExecutor(e *coreerrors.RetryExecutor) RetryingOption {
	return func(r *Retrying) {
		if e != nil {
			r.executor = e
		}
	}
}

func WithCircuitBreaker(cfg coreerrors.CircuitBreakerConfig) RetryingOption {
	return func(r *Retrying) {
		r.breaker = coreerrors.NewCircuitBreaker(r.inner.Name(), cfg)
	}
}

func WithLogger(logger *slog.Logger) RetryingOption {
	return func(r *Retrying) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRetrying wraps inner. Without options it uses the default retry
// policies and the default circuit breaker.
func NewRetrying(inner Provider, opts ...RetryingOption) *Retrying {
	r := &Retrying{
		inner:    inner,
		executor: coreerrors.NewRetryExecutor(nil, nil),
		breaker:  coreerrors.NewCircuitBreaker(inner.Name(), coreerrors.DefaultCircuitBreakerConfig()),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("provider", inner.Name())
	if sr, ok := inner.(StepRetrier); ok {
		sr.UseRetryExecutor(r.executor)
		r.stepRetried = true
	}
	return r
}

func (r *Retrying) Name() string {
	return r.inner.Name()
}

// Complete calls the wrapped provider, retrying failures whose tier allows
// it. A StepRetrier is called once and retries internally. An open circuit
// fails fast with ErrCircuitOpen.
func (r *Retrying) Complete(ctx context.Context, req *Request) (*Response, error) {
	var resp *Response
	attempt := 0

	call := func(ctx context.Context) error {
		attempt++
		if !r.breaker.Allow() {
			return coreerrors.ErrCircuitOpen.WithContext("provider", r.inner.Name())
		}

		start := time.Now()
		out, err := r.inner.Complete(ctx, req)
		r.breaker.Record(err)
		if err != nil {
			r.logger.Debug("completion attempt failed",
				"attempt", attempt,
				"tier", coreerrors.GetTier(err).String(),
				"duration", time.Since(start),
				"error", err)
			return err
		}
		resp = out
		return nil
	}

	var err error
	if r.stepRetried {
		err = call(ctx)
	} else {
		err = r.executor.Execute(ctx, call)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *Retrying) ValidateConfig() error {
	return r.inner.ValidateConfig()
}

func (r *Retrying) Close() error {
	return r.inner.Close()
}

// Unwrap returns the wrapped provider.
func (r *Retrying) Unwrap() Provider {
	return r.inner
}

// CircuitState reports the breaker state for the wrapped provider.
func (r *Retrying) CircuitState() coreerrors.CircuitState {
	return r.breaker.State()
}

// RetryWrapper returns a decorator applying the retry policies and circuit
// breaker configured in s. Retry policies are keyed by tier name.
func RetryWrapper(s Settings, classifier *coreerrors.ErrorClassifier, logger *slog.Logger) (func(Provider) Provider, error) {
	policies := coreerrors.DefaultRetryPolicies()
	for name, policy := range s.Retry {
		tier, ok := coreerrors.ParseTier(name)
		if !ok || policy == nil {
			return nil, coreerrors.NewTieredError(coreerrors.TierUserFixable, "unknown retry tier "+name, nil)
		}
		policies[tier] = policy
	}
	executor := coreerrors.NewRetryExecutor(policies, classifier)

	breaker := coreerrors.DefaultCircuitBreakerConfig()
	if s.CircuitBreaker != nil {
		breaker = *s.CircuitBreaker
	}

	return func(p Provider) Provider {
		return NewRetrying(p,
			WithRetryExecutor(executor),
			WithCircuitBreaker(breaker),
			WithLogger(logger))
	}, nil
}
