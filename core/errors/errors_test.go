package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorTierString(t *testing.T) {
	tests := []struct {
		tier     ErrorTier
		expected string
	}{
		{TierTransient, "transient"},
		{TierPermanent, "permanent"},
		{TierUserFixable, "user_fixable"},
		{TierExternalRateLimit, "external_rate_limit"},
		{TierExternalDegrading, "external_degrading"},
		{ErrorTier(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.tier.String(); got != tt.expected {
				t.Errorf("ErrorTier.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTieredErrorError(t *testing.T) {
	t.Run("with underlying error", func(t *testing.T) {
		err := NewTieredError(TierTransient, "wrapped", errors.New("base error"))
		expected := "[transient] wrapped: base error"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without underlying error", func(t *testing.T) {
		err := NewTieredError(TierPermanent, "simple error", nil)
		expected := "[permanent] simple error"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})
}

func TestTieredErrorIs(t *testing.T) {
	wrapped := WrapWithTier(TierTransient, "lookup persona", ErrUnknownAssistant)

	if !errors.Is(wrapped, ErrUnknownAssistant) {
		t.Error("wrapped sentinel should match with errors.Is")
	}
	if errors.Is(wrapped, ErrPromptRequired) {
		t.Error("sentinels of the same tier with different messages should not match")
	}
	if !errors.Is(ErrPollTimeout.WithContext("attempts", "3"), ErrPollTimeout) {
		t.Error("a sentinel with added context should still match")
	}
	if !errors.Is(ErrUnknownAssistant, NewTieredError(TierPermanent, "", nil)) {
		t.Error("an empty target message should match any error of the tier")
	}
}

func TestWithHelpersClone(t *testing.T) {
	base := NewTieredError(TierExternalRateLimit, "slow down", nil)
	derived := base.WithStatusCode(http.StatusServiceUnavailable).
		WithRetryAfter(2*time.Second).
		WithContext("provider", "openai")

	if base.StatusCode != 0 || base.RetryAfter != 0 || len(base.Context) != 0 {
		t.Errorf("base error was mutated: %+v", base)
	}
	if derived.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", derived.StatusCode)
	}
	if derived.RetryAfter != 2*time.Second {
		t.Errorf("RetryAfter = %v, want 2s", derived.RetryAfter)
	}
	if derived.Context["provider"] != "openai" {
		t.Errorf("Context = %v", derived.Context)
	}
}

func TestWrapWithTierKeepsExistingTier(t *testing.T) {
	err := WrapWithTier(TierTransient, "dispatch", ErrPromptRequired)

	if GetTier(err) != TierPermanent {
		t.Errorf("GetTier() = %v, want permanent", GetTier(err))
	}
	if StatusFor(err) != http.StatusBadRequest {
		t.Errorf("StatusFor() = %d, want 400", StatusFor(err))
	}
	if WrapWithTier(TierTransient, "nothing", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestGetTierDefaultsToPermanent(t *testing.T) {
	if GetTier(errors.New("plain")) != TierPermanent {
		t.Error("plain errors should be permanent")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transient", NewTieredError(TierTransient, "reset", nil), true},
		{"rate limit", ErrRateLimited, true},
		{"degrading", ErrUpstream, true},
		{"permanent", ErrMalformedResponse, false},
		{"user fixable", ErrMissingAPIKey, false},
		{"client", ErrPromptRequired, false},
		{"plain", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpstream(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if Upstream("complete", nil) != nil {
			t.Error("Upstream(nil) should be nil")
		}
	})

	t.Run("bare error is degrading 502", func(t *testing.T) {
		err := Upstream("complete", errors.New("boom"))
		if GetTier(err) != TierExternalDegrading {
			t.Errorf("tier = %v", GetTier(err))
		}
		if StatusFor(err) != http.StatusBadGateway {
			t.Errorf("status = %d", StatusFor(err))
		}
	})

	t.Run("deadline is 504", func(t *testing.T) {
		err := Upstream("complete", fmt.Errorf("post: %w", context.DeadlineExceeded))
		if StatusFor(err) != http.StatusGatewayTimeout {
			t.Errorf("status = %d", StatusFor(err))
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("deadline should stay reachable through the chain")
		}
	})

	t.Run("tiered error keeps its status", func(t *testing.T) {
		err := Upstream("complete", ErrPollTimeout)
		if StatusFor(err) != http.StatusGatewayTimeout {
			t.Errorf("status = %d", StatusFor(err))
		}
	})

	t.Run("tiered error without status becomes 502", func(t *testing.T) {
		err := Upstream("complete", NewTieredError(TierTransient, "reset", nil))
		if StatusFor(err) != http.StatusBadGateway {
			t.Errorf("status = %d", StatusFor(err))
		}
	})

	t.Run("configuration error stays internal", func(t *testing.T) {
		err := Upstream("complete", ErrMissingAPIKey)
		if StatusFor(err) != http.StatusInternalServerError {
			t.Errorf("status = %d", StatusFor(err))
		}
	})
}
