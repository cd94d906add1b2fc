package dialogue

import (
	"context"
	"strings"

	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
)

// RouterConfig selects the labels a router may answer with and the order
// they are matched in.
type RouterConfig struct {
	// Labels is the closed label set. Empty means the intent labels.
	Labels []persona.Label `yaml:"labels"`

	// Priority orders matching. Labels missing from it are matched after
	// it, in Labels order. Empty means DefaultPriority for the intent
	// labels and Labels order otherwise.
	Priority []persona.Label `yaml:"priority"`

	// DefaultLabel is returned when no label matches.
	DefaultLabel persona.Label `yaml:"default_label"`
}

// Router classifies a prompt into one label using the router persona.
type Router struct {
	provider providers.Provider
	persona  persona.Persona
	order    []persona.Label
	fallback persona.Label
}

func NewRouter(provider providers.Provider, p persona.Persona, cfg RouterConfig) *Router {
	return &Router{
		provider: provider,
		persona:  p,
		order:    matchOrder(cfg),
		fallback: fallbackLabel(cfg),
	}
}

func matchOrder(cfg RouterConfig) []persona.Label {
	labels := cfg.Labels
	priority := cfg.Priority
	if len(labels) == 0 {
		labels = persona.IntentLabels()
		if len(priority) == 0 {
			priority = persona.DefaultPriority()
		}
	}

	allowed := make(map[persona.Label]bool, len(labels))
	for _, l := range labels {
		allowed[l] = true
	}

	order := make([]persona.Label, 0, len(labels))
	seen := make(map[persona.Label]bool, len(labels))
	for _, group := range [][]persona.Label{priority, labels} {
		for _, l := range group {
			if allowed[l] && !seen[l] {
				seen[l] = true
				order = append(order, l)
			}
		}
	}
	return order
}

func fallbackLabel(cfg RouterConfig) persona.Label {
	if cfg.DefaultLabel != "" {
		return cfg.DefaultLabel
	}
	return persona.DefaultLabel
}

// Labels returns the labels in match order.
func (r *Router) Labels() []persona.Label {
	return append([]persona.Label(nil), r.order...)
}

// Default returns the label used when a reply names no label.
func (r *Router) Default() persona.Label {
	return r.fallback
}

// Classify sends prompt to the router persona and returns the first label,
// in match order, that the reply contains.
func (r *Router) Classify(ctx context.Context, prompt string) (persona.Label, error) {
	resp, err := complete(ctx, r.provider, r.persona, prompt, "")
	if err != nil {
		return "", err
	}
	return r.Match(resp.Content), nil
}

// Match returns the first label contained in reply, ignoring case, or the
// default label.
func (r *Router) Match(reply string) persona.Label {
	lower := strings.ToLower(reply)
	for _, l := range r.order {
		if strings.Contains(lower, strings.ToLower(string(l))) {
			return l
		}
	}
	return r.fallback
}
