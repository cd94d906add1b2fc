package errors

// ErrorClassifierConfig holds the patterns used to tier provider errors
// that arrive without a tier of their own.
type ErrorClassifierConfig struct {
	TransientPatterns   []string `yaml:"transient_patterns"`
	PermanentPatterns   []string `yaml:"permanent_patterns"`
	UserFixablePatterns []string `yaml:"user_fixable_patterns"`
	RateLimitStatuses   []int    `yaml:"rate_limit_statuses"`
	DegradingStatuses   []int    `yaml:"degrading_statuses"`
}

func DefaultErrorClassifierConfig() *ErrorClassifierConfig {
	return &ErrorClassifierConfig{
		TransientPatterns: []string{
			`(?i)timeout`,
			`(?i)temporar`,
			`(?i)connection reset`,
			`(?i)connection refused`,
			`(?i)\beof\b`,
		},
		PermanentPatterns: []string{
			`(?i)invalid_request`,
			`(?i)context_length_exceeded`,
			`(?i)content_filter`,
		},
		UserFixablePatterns: []string{
			`(?i)invalid.*api.?key`,
			`(?i)incorrect api key`,
			`(?i)authentication`,
			`(?i)no such assistant`,
		},
		RateLimitStatuses: []int{429},
		DegradingStatuses: []int{500, 502, 503, 504, 529},
	}
}
