package errors

import (
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed lets completion calls through.
	CircuitClosed CircuitState = iota

	// CircuitOpen rejects calls until the cooldown expires.
	CircuitOpen

	// CircuitHalfOpen lets probe calls through to test recovery.
	CircuitHalfOpen
)

var circuitStateNames = map[CircuitState]string{
	CircuitClosed:   "closed",
	CircuitOpen:     "open",
	CircuitHalfOpen: "half_open",
}

func (s CircuitState) String() string {
	if name, ok := circuitStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	// ConsecutiveFailures is the count-based trip threshold. Zero disables the breaker.
	ConsecutiveFailures int `yaml:"consecutive_failures"`

	// CooldownDuration is the time before transitioning to half-open.
	CooldownDuration time.Duration `yaml:"cooldown_duration"`

	// SuccessThreshold is the number of probe successes needed to close.
	SuccessThreshold int `yaml:"success_threshold"`
}

// DefaultCircuitBreakerConfig returns the configuration used per provider.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		ConsecutiveFailures: 5,
		CooldownDuration:    30 * time.Second,
		SuccessThreshold:    1,
	}
}

// CircuitBreaker stops calls to a provider that keeps failing upstream.
// Only provider-side failures count; client and configuration errors do not.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           CircuitState
	failures        int
	successes       int
	lastStateChange time.Time
	config          CircuitBreakerConfig
	resourceID      string
	now             func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker for a resource.
func NewCircuitBreaker(resourceID string, config CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		state:           CircuitClosed,
		config:          config,
		resourceID:      resourceID,
		lastStateChange: time.Now(),
		now:             time.Now,
	}
}

// Allow reports whether a call may proceed. An open breaker whose cooldown
// has expired moves to half-open and allows the call.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != CircuitOpen {
		return true
	}
	if cb.now().Sub(cb.lastStateChange) < cb.config.CooldownDuration {
		return false
	}
	cb.transitionTo(CircuitHalfOpen)
	return true
}

// Record tracks the outcome of a call.
func (cb *CircuitBreaker) Record(err error) {
	if cb.config.ConsecutiveFailures <= 0 {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !countsAsFailure(err) {
		cb.failures = 0
		if cb.state == CircuitHalfOpen {
			cb.successes++
			if cb.successes >= max(cb.config.SuccessThreshold, 1) {
				cb.transitionTo(CircuitClosed)
			}
		}
		return
	}

	cb.failures++
	cb.successes = 0
	if cb.state == CircuitHalfOpen || cb.failures >= cb.config.ConsecutiveFailures {
		cb.transitionTo(CircuitOpen)
	}
}

func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	switch GetTier(err) {
	case TierTransient, TierExternalRateLimit, TierExternalDegrading:
		return true
	}
	return false
}

func (cb *CircuitBreaker) transitionTo(state CircuitState) {
	cb.state = state
	cb.lastStateChange = cb.now()
	cb.successes = 0
	if state == CircuitClosed {
		cb.failures = 0
	}
}

// ForceReset manually resets the circuit breaker to closed state.
func (cb *CircuitBreaker) ForceReset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transitionTo(CircuitClosed)
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// ResourceID returns the resource identifier.
func (cb *CircuitBreaker) ResourceID() string {
	return cb.resourceID
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
