package errors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"prompt required", ErrPromptRequired, http.StatusBadRequest},
		{"unknown assistant", ErrUnknownAssistant, http.StatusBadRequest},
		{"upstream", ErrUpstream, http.StatusBadGateway},
		{"malformed", ErrMalformedResponse, http.StatusBadGateway},
		{"poll timeout", ErrPollTimeout, http.StatusGatewayTimeout},
		{"bare deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"untagged transient", NewTieredError(TierTransient, "reset", nil), http.StatusBadGateway},
		{"missing key", ErrMissingAPIKey, http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsClientError(t *testing.T) {
	if !IsClientError(ErrPromptRequired) {
		t.Error("missing prompt should be a client error")
	}
	if IsClientError(ErrUpstream) {
		t.Error("upstream failure should not be a client error")
	}
	if IsClientError(errors.New("boom")) {
		t.Error("internal failure should not be a client error")
	}
}

func TestPublicMessage(t *testing.T) {
	internal := Upstream("completion failed", errors.New("dial tcp 10.0.0.1:443: refused"))

	if got := PublicMessage(internal, false); got != "completion failed" {
		t.Errorf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(internal, true); got != internal.Error() {
		t.Errorf("debug PublicMessage() = %q", got)
	}
	if got := PublicMessage(ErrPromptRequired, false); got != "Prompt is required" {
		t.Errorf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(errors.New("secret"), false); got != "Internal Server Error" {
		t.Errorf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(nil, false); got != "" {
		t.Errorf("PublicMessage(nil) = %q", got)
	}
}
