package errors

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

// ErrorClassifier assigns tiers to provider errors that do not carry one.
// Status codes take precedence over message patterns.
type ErrorClassifier struct {
	mu              sync.RWMutex
	transientPats   []*regexp.Regexp
	permanentPats   []*regexp.Regexp
	userFixablePats []*regexp.Regexp
	rateLimitCodes  map[int]struct{}
	degradingCodes  map[int]struct{}
}

func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{
		rateLimitCodes: map[int]struct{}{
			http.StatusTooManyRequests: {},
		},
		degradingCodes: map[int]struct{}{
			http.StatusInternalServerError: {},
			http.StatusBadGateway:          {},
			http.StatusServiceUnavailable:  {},
			http.StatusGatewayTimeout:      {},
		},
	}
}

func NewErrorClassifierFromConfig(cfg *ErrorClassifierConfig) (*ErrorClassifier, error) {
	if cfg == nil {
		cfg = DefaultErrorClassifierConfig()
	}

	c := NewErrorClassifier()
	groups := []struct {
		name     string
		patterns []string
		target   *[]*regexp.Regexp
	}{
		{"transient", cfg.TransientPatterns, &c.transientPats},
		{"permanent", cfg.PermanentPatterns, &c.permanentPats},
		{"user-fixable", cfg.UserFixablePatterns, &c.userFixablePats},
	}
	for _, g := range groups {
		for _, p := range g.patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, NewTieredError(TierUserFixable, "invalid "+g.name+" pattern", err)
			}
			*g.target = append(*g.target, re)
		}
	}

	if len(cfg.RateLimitStatuses) > 0 {
		c.rateLimitCodes = toSet(cfg.RateLimitStatuses)
	}
	if len(cfg.DegradingStatuses) > 0 {
		c.degradingCodes = toSet(cfg.DegradingStatuses)
	}
	return c, nil
}

func toSet(codes []int) map[int]struct{} {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Classify returns the tier of err. Errors that already carry a tier keep it.
func (c *ErrorClassifier) Classify(err error) ErrorTier {
	if err == nil {
		return TierPermanent
	}

	var te *TieredError
	if errors.As(err, &te) {
		return te.Tier
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	msg := err.Error()
	switch {
	case matchesAny(msg, c.userFixablePats):
		return TierUserFixable
	case matchesAny(msg, c.permanentPats):
		return TierPermanent
	case matchesAny(msg, c.transientPats):
		return TierTransient
	case strings.Contains(strings.ToLower(msg), "rate limit"):
		return TierExternalRateLimit
	}
	return TierPermanent
}

// ClassifyStatus tiers an HTTP status returned by a provider API.
func (c *ErrorClassifier) ClassifyStatus(status int) ErrorTier {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.rateLimitCodes[status]; ok {
		return TierExternalRateLimit
	}
	if _, ok := c.degradingCodes[status]; ok {
		return TierExternalDegrading
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return TierUserFixable
	case http.StatusRequestTimeout:
		return TierTransient
	}
	return TierPermanent
}

// Wrap tiers a provider error. When status is non-zero it drives the tier;
// otherwise the message patterns do. retryAfter is carried for rate limits.
func (c *ErrorClassifier) Wrap(message string, status int, retryAfter time.Duration, err error) error {
	if err == nil {
		return nil
	}

	var te *TieredError
	if errors.As(err, &te) {
		return WrapWithTier(te.Tier, message, err)
	}

	tier := c.Classify(err)
	if status != 0 {
		tier = c.ClassifyStatus(status)
	}

	wrapped := NewTieredError(tier, message, err)
	if retryAfter > 0 {
		wrapped.RetryAfter = retryAfter
	}
	if status != 0 {
		wrapped.Context["status"] = http.StatusText(status)
	}
	return wrapped
}

func (c *ErrorClassifier) AddTransientPattern(pattern string) error {
	return c.addPattern(pattern, &c.transientPats)
}

func (c *ErrorClassifier) AddUserFixablePattern(pattern string) error {
	return c.addPattern(pattern, &c.userFixablePats)
}

func (c *ErrorClassifier) addPattern(pattern string, target *[]*regexp.Regexp) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	c.mu.Lock()
	*target = append(*target, re)
	c.mu.Unlock()
	return nil
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
