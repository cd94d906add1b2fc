package errors

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy defines the retry behavior for a specific error tier.
type RetryPolicy struct {
	// MaxAttempts is the number of retries after the first call (0 means no retry).
	MaxAttempts int `yaml:"max_attempts"`

	// InitialDelay is the starting backoff duration.
	InitialDelay time.Duration `yaml:"initial_delay"`

	// MaxDelay caps the backoff.
	MaxDelay time.Duration `yaml:"max_delay"`

	// Multiplier is the backoff multiplier (default: 2.0).
	Multiplier float64 `yaml:"multiplier"`

	// UseRetryAfter prefers the provider's Retry-After hint when present.
	UseRetryAfter bool `yaml:"use_retry_after"`

	// JitterPercent is the jitter fraction applied to each delay.
	JitterPercent float64 `yaml:"jitter_percent"`
}

// DefaultRetryPolicies returns the provider retry policies for each tier.
// Completion calls are slow, so attempts are kept low.
func DefaultRetryPolicies() map[ErrorTier]*RetryPolicy {
	return map[ErrorTier]*RetryPolicy{
		TierTransient: {
			MaxAttempts:   2,
			InitialDelay:  250 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			Multiplier:    2.0,
			JitterPercent: 0.1,
		},
		TierExternalRateLimit: {
			MaxAttempts:   3,
			InitialDelay:  time.Second,
			MaxDelay:      20 * time.Second,
			Multiplier:    2.0,
			UseRetryAfter: true,
			JitterPercent: 0.1,
		},
		TierExternalDegrading: {
			MaxAttempts:   1,
			InitialDelay:  time.Second,
			MaxDelay:      5 * time.Second,
			Multiplier:    2.0,
			JitterPercent: 0.1,
		},
		TierPermanent:   {},
		TierUserFixable: {},
	}
}

// GetRetryPolicy returns the default retry policy for a given error tier.
func GetRetryPolicy(tier ErrorTier) *RetryPolicy {
	if policy, ok := DefaultRetryPolicies()[tier]; ok {
		return policy
	}
	return &RetryPolicy{}
}

// RetryExecutor runs an operation, retrying according to the tier of each
// failure. The tier is decided by the classifier on every attempt.
type RetryExecutor struct {
	policies   map[ErrorTier]*RetryPolicy
	classifier *ErrorClassifier
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewRetryExecutor creates a RetryExecutor. Nil arguments select the defaults.
func NewRetryExecutor(policies map[ErrorTier]*RetryPolicy, classifier *ErrorClassifier) *RetryExecutor {
	if policies == nil {
		policies = DefaultRetryPolicies()
	}
	if classifier == nil {
		// The default patterns always compile.
		classifier, _ = NewErrorClassifierFromConfig(nil)
	}
	return &RetryExecutor{
		policies:   policies,
		classifier: classifier,
		sleep:      waitBeforeRetry,
	}
}

// Execute calls fn until it succeeds, the failure's policy is exhausted or
// ctx is done. The last failure is returned.
func (e *RetryExecutor) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := make(map[ErrorTier]int)

	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		tier := e.classifier.Classify(err)
		policy := e.policyFor(tier)
		attempt := attempts[tier]
		if attempt >= policy.MaxAttempts {
			return err
		}
		attempts[tier] = attempt + 1

		if werr := e.sleep(ctx, delayFor(err, attempt, policy)); werr != nil {
			return err
		}
	}
}

func (e *RetryExecutor) policyFor(tier ErrorTier) *RetryPolicy {
	if policy, ok := e.policies[tier]; ok && policy != nil {
		return policy
	}
	return &RetryPolicy{}
}

func delayFor(err error, attempt int, policy *RetryPolicy) time.Duration {
	if policy.UseRetryAfter {
		var te *TieredError
		if errors.As(err, &te) && te.RetryAfter > 0 {
			return te.RetryAfter
		}
	}
	return AddJitter(CalculateDelay(attempt, policy), policy.JitterPercent)
}

func waitBeforeRetry(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
