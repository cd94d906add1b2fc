package errors

import (
	"context"
	"errors"
	"net/http"
)

// StatusFor maps an error to the status reported at the request boundary.
//
// An explicit StatusCode on the outermost TieredError wins. Otherwise expired
// deadlines report 504, provider-side tiers report 502 and everything else is
// an internal error.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var te *TieredError
	if errors.As(err, &te) && te.StatusCode != 0 {
		return te.StatusCode
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	switch GetTier(err) {
	case TierTransient, TierExternalRateLimit, TierExternalDegrading:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the error was caused by the caller's input.
func IsClientError(err error) bool {
	status := StatusFor(err)
	return status >= 400 && status < 500
}

// PublicMessage returns the message safe to show to a caller.
// Wrapped causes are only included when debug is set.
func PublicMessage(err error, debug bool) string {
	if err == nil {
		return ""
	}
	if debug {
		return err.Error()
	}

	var te *TieredError
	if errors.As(err, &te) {
		return te.Message
	}
	return http.StatusText(StatusFor(err))
}
