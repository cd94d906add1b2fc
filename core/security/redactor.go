package security

import (
	"sync"
	"sync/atomic"
)

const DefaultRedactText = "[REDACTED]"

// Redactor replaces credentials in text with a placeholder.
type Redactor struct {
	mu         sync.RWMutex
	patterns   *PatternManager
	redactText string
	redacted   atomic.Int64
}

func NewRedactor() *Redactor {
	return &Redactor{
		patterns:   NewPatternManager(),
		redactText: DefaultRedactText,
	}
}

var defaultRedactor = NewRedactor()

// Redact applies the default redactor.
func Redact(text string) string {
	out, _ := defaultRedactor.Redact(text)
	return out
}

func (r *Redactor) SetRedactText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redactText = text
}

// Patterns exposes the pattern set for additions and removals.
func (r *Redactor) Patterns() *PatternManager {
	return r.patterns
}

// Redact returns text with every match replaced and the number of
// replacements made.
func (r *Redactor) Redact(text string) (string, int) {
	if text == "" {
		return text, 0
	}

	r.mu.RLock()
	redactText := r.redactText
	r.mu.RUnlock()

	total := 0
	for _, p := range r.patterns.Patterns() {
		matches := p.Pattern.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}
		total += len(matches)
		text = p.Pattern.ReplaceAllString(text, redactText)
	}

	r.redacted.Add(int64(total))
	return text, total
}

// Redacted returns the number of replacements made so far.
func (r *Redactor) Redacted() int64 {
	return r.redacted.Load()
}
