// Package security redacts credentials from text that leaves the process,
// such as debug error bodies and logs.
package security

import (
	"regexp"
	"sync"
)

type SecretSeverity string

const (
	SecretSeverityMedium   SecretSeverity = "medium"
	SecretSeverityHigh     SecretSeverity = "high"
	SecretSeverityCritical SecretSeverity = "critical"
)

type SecretPattern struct {
	Name     string
	Pattern  *regexp.Regexp
	Severity SecretSeverity
}

// PatternManager holds the patterns a Redactor applies, in order.
type PatternManager struct {
	mu       sync.RWMutex
	patterns []*SecretPattern
}

func NewPatternManager() *PatternManager {
	return &PatternManager{patterns: defaultSecretPatterns()}
}

// Anthropic keys are matched before the generic sk- pattern so the whole key
// is replaced.
func defaultSecretPatterns() []*SecretPattern {
	return []*SecretPattern{
		newPattern("anthropic_key", `sk-ant-[a-zA-Z0-9_\-]{20,}`, SecretSeverityCritical),
		newPattern("openai_key", `sk-(?:proj-|svcacct-)?[a-zA-Z0-9_\-]{20,}`, SecretSeverityCritical),
		newPattern("openai_key_partial", `sk-[a-zA-Z0-9_\-]*\*{4,}[a-zA-Z0-9]{2,}`, SecretSeverityMedium),
		newPattern("google_api_key", `AIza[0-9A-Za-z\-_]{35}`, SecretSeverityHigh),
		newPattern("aws_access_key", `AKIA[0-9A-Z]{16}`, SecretSeverityCritical),
		newPattern("bearer_token", `(?i)bearer\s+[a-zA-Z0-9_\-\.=]{20,}`, SecretSeverityHigh),
		newPattern("api_key_generic", `(?i)(api[_-]?key|x-goog-api-key)\s*[=:]\s*['"]?[a-zA-Z0-9_\-]{20,}`, SecretSeverityHigh),
	}
}

func newPattern(name, pattern string, severity SecretSeverity) *SecretPattern {
	return &SecretPattern{
		Name:     name,
		Pattern:  regexp.MustCompile(pattern),
		Severity: severity,
	}
}

func (pm *PatternManager) Patterns() []*SecretPattern {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	result := make([]*SecretPattern, len(pm.patterns))
	copy(result, pm.patterns)
	return result
}

func (pm *PatternManager) AddPattern(p *SecretPattern) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.patterns = append(pm.patterns, p)
}

func (pm *PatternManager) RemovePattern(name string) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for i, p := range pm.patterns {
		if p.Name == name {
			pm.patterns = append(pm.patterns[:i], pm.patterns[i+1:]...)
			return true
		}
	}
	return false
}
