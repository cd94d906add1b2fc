package llm

import (
	"net/http"
	"strconv"
	"time"
)

// ParseRetryAfter extracts retry duration from HTTP headers.
// Returns zero duration if header is absent or unparseable.
func ParseRetryAfter(headers http.Header) time.Duration {
	if headers == nil {
		return 0
	}

	if ms := headers.Get("Retry-After-Ms"); ms != "" {
		if v, err := strconv.ParseFloat(ms, 64); err == nil && v > 0 {
			return time.Duration(v * float64(time.Millisecond))
		}
	}

	value := headers.Get("Retry-After")
	if value == "" {
		return 0
	}

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}
