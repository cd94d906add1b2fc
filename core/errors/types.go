// Package errors implements the tiered error taxonomy shared by the dialogue
// core, the completion providers and the request boundary.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorTier represents the classification tier for errors.
// Each tier has defined behavior for retry policy and status reporting.
type ErrorTier int

const (
	// TierTransient indicates temporary errors that may be retried.
	// Examples: network timeouts, connection resets.
	TierTransient ErrorTier = iota

	// TierPermanent indicates errors that will not resolve with retry.
	// Examples: missing prompt, unknown assistant type, malformed provider payload.
	TierPermanent

	// TierUserFixable indicates errors that require operator intervention.
	// Examples: missing API key, persona without a bound remote assistant.
	TierUserFixable

	// TierExternalRateLimit indicates rate limiting from the completion provider.
	TierExternalRateLimit

	// TierExternalDegrading indicates provider degradation.
	// Examples: 5xx responses, runs that never reach a terminal status.
	TierExternalDegrading
)

var tierNames = map[ErrorTier]string{
	TierTransient:         "transient",
	TierPermanent:         "permanent",
	TierUserFixable:       "user_fixable",
	TierExternalRateLimit: "external_rate_limit",
	TierExternalDegrading: "external_degrading",
}

// ParseTier returns the tier with the given name.
func ParseTier(name string) (ErrorTier, bool) {
	for tier, n := range tierNames {
		if n == name {
			return tier, true
		}
	}
	return 0, false
}

func (t ErrorTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// TieredError wraps an error with tier classification.
// StatusCode, when set, is the status reported at the request boundary.
type TieredError struct {
	Tier       ErrorTier
	Message    string
	Underlying error
	StatusCode int
	RetryAfter time.Duration
	Context    map[string]string
}

// Error implements the error interface.
func (e *TieredError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Tier, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s", e.Tier, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TieredError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a TieredError of the same tier whose message
// matches. A target with an empty message matches any error of its tier.
func (e *TieredError) Is(target error) bool {
	var te *TieredError
	if !errors.As(target, &te) {
		return false
	}
	if e.Tier != te.Tier {
		return false
	}
	return te.Message == "" || te.Message == e.Message
}

// NewTieredError creates a new TieredError with the given tier and message.
func NewTieredError(tier ErrorTier, message string, underlying error) *TieredError {
	return &TieredError{
		Tier:       tier,
		Message:    message,
		Underlying: underlying,
		Context:    make(map[string]string),
	}
}

// NewClientError creates a permanent error caused by the caller's input.
// It is reported with status 400 and is never retried.
func NewClientError(message string) *TieredError {
	return NewTieredError(TierPermanent, message, nil).WithStatusCode(http.StatusBadRequest)
}

// WithStatusCode returns a copy of the error carrying the given status code.
func (e *TieredError) WithStatusCode(code int) *TieredError {
	c := e.clone()
	c.StatusCode = code
	return c
}

// WithRetryAfter returns a copy of the error carrying a retry-after hint.
func (e *TieredError) WithRetryAfter(d time.Duration) *TieredError {
	c := e.clone()
	c.RetryAfter = d
	return c
}

// WithContext returns a copy of the error with an added context pair.
func (e *TieredError) WithContext(key, value string) *TieredError {
	c := e.clone()
	c.Context[key] = value
	return c
}

func (e *TieredError) clone() *TieredError {
	ctx := make(map[string]string, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	return &TieredError{
		Tier:       e.Tier,
		Message:    e.Message,
		Underlying: e.Underlying,
		StatusCode: e.StatusCode,
		RetryAfter: e.RetryAfter,
		Context:    ctx,
	}
}

// GetTier extracts the ErrorTier from an error, defaulting to Permanent.
func GetTier(err error) ErrorTier {
	var te *TieredError
	if errors.As(err, &te) {
		return te.Tier
	}
	return TierPermanent
}

// IsRetryable reports whether the error's tier has a retrying policy.
func IsRetryable(err error) bool {
	return GetRetryPolicy(GetTier(err)).MaxAttempts > 0
}

// Sentinel errors. Compare with errors.Is.
var (
	// Client errors
	ErrPromptRequired   = NewClientError("Prompt is required")
	ErrUnknownAssistant = NewClientError("Unknown assistant type")
	ErrInvalidRequest   = NewClientError("Invalid request body")

	// Configuration errors
	ErrMissingAPIKey     = NewTieredError(TierUserFixable, "missing API key", nil)
	ErrAssistantNotBound = NewTieredError(TierUserFixable, "persona has no remote assistant", nil)
	ErrUnknownProvider   = NewTieredError(TierUserFixable, "unknown completion provider", nil)

	// Upstream errors
	ErrUpstream           = NewTieredError(TierExternalDegrading, "completion provider error", nil).WithStatusCode(http.StatusBadGateway)
	ErrMalformedResponse  = NewTieredError(TierPermanent, "malformed completion provider response", nil).WithStatusCode(http.StatusBadGateway)
	ErrRunNotCompleted    = NewTieredError(TierExternalDegrading, "assistant run did not complete", nil).WithStatusCode(http.StatusBadGateway)
	ErrPollTimeout        = NewTieredError(TierExternalDegrading, "timed out waiting for completion", nil).WithStatusCode(http.StatusGatewayTimeout)
	ErrRateLimited        = NewTieredError(TierExternalRateLimit, "rate limited", nil).WithStatusCode(http.StatusServiceUnavailable)
	ErrTimeout            = NewTieredError(TierTransient, "operation timed out", nil).WithStatusCode(http.StatusGatewayTimeout)
	ErrServiceUnavailable = NewTieredError(TierExternalDegrading, "service unavailable", nil).WithStatusCode(http.StatusServiceUnavailable)

	// ErrCircuitOpen is permanent so the retry executor fails fast.
	ErrCircuitOpen = NewTieredError(TierPermanent, "completion provider unavailable", nil).WithStatusCode(http.StatusServiceUnavailable)
)

// WrapWithTier wraps an error with a tier classification.
// An error that already carries a tier keeps it, along with its status code.
func WrapWithTier(tier ErrorTier, message string, err error) error {
	if err == nil {
		return nil
	}

	var te *TieredError
	if errors.As(err, &te) {
		return &TieredError{
			Tier:       te.Tier,
			Message:    message,
			Underlying: err,
			StatusCode: te.StatusCode,
			RetryAfter: te.RetryAfter,
			Context:    te.Context,
		}
	}

	return NewTieredError(tier, message, err)
}

// Upstream wraps a provider failure so that it surfaces as an upstream error.
// Errors that already carry a tier keep it; bare errors are reported as 502,
// or 504 when the context deadline expired.
func Upstream(message string, err error) error {
	if err == nil {
		return nil
	}
	var te *TieredError
	if errors.As(err, &te) {
		wrapped := WrapWithTier(te.Tier, message, err).(*TieredError)
		if wrapped.StatusCode == 0 && wrapped.Tier != TierUserFixable {
			wrapped.StatusCode = http.StatusBadGateway
		}
		return wrapped
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TieredError{
			Tier:       TierTransient,
			Message:    message,
			Underlying: err,
			StatusCode: http.StatusGatewayTimeout,
			Context:    make(map[string]string),
		}
	}
	return &TieredError{
		Tier:       TierExternalDegrading,
		Message:    message,
		Underlying: err,
		StatusCode: http.StatusBadGateway,
		Context:    make(map[string]string),
	}
}
