package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
	"github.com/adalundhe/floyd/core/security"
)

// DefaultSelector is the selector that runs the two-stage routed flow.
const DefaultSelector = "floyd"

// Request is one player input addressed to a selector: a routed selector
// such as "floyd" or a persona id.
type Request struct {
	Selector string
	Prompt   string
	Thread   string
}

// Result is the reply to a Request. Parameters is nil when the reply
// carried no structured data.
type Result struct {
	Message       string
	Parameters    map[string]any
	AssistantType string
	Routed        bool
	Thread        string
}

// Config selects the routed selectors and the router label set.
type Config struct {
	Selectors []string     `yaml:"selectors"`
	Routing   RouterConfig `yaml:",inline"`
}

// DefaultConfig routes only DefaultSelector over the intent labels.
func DefaultConfig() Config {
	return Config{Selectors: []string{DefaultSelector}}
}

// Dispatcher maps a selector to a handling flow. It is read-only after
// construction and safe for concurrent use.
type Dispatcher struct {
	catalog   *persona.Catalog
	providers ProviderResolver
	rewriter  *Rewriter
	router    *Router
	routed    map[string]bool
	logger    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher wires the rewriter and router personas from catalog to
// their providers. Every label the router can return must be in catalog.
func NewDispatcher(catalog *persona.Catalog, resolver ProviderResolver, cfg Config, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		catalog:   catalog,
		providers: resolver,
		routed:    make(map[string]bool),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	selectors := cfg.Selectors
	if len(selectors) == 0 {
		selectors = DefaultConfig().Selectors
	}
	for _, s := range selectors {
		d.routed[strings.TrimSpace(s)] = true
	}

	rewriteProvider, rewritePersona, err := d.servicePersona(persona.RewriteSecondPerson)
	if err != nil {
		return nil, err
	}
	d.rewriter = NewRewriter(rewriteProvider, rewritePersona)

	routerProvider, routerPersona, err := d.servicePersona(persona.Router)
	if err != nil {
		return nil, err
	}
	d.router = NewRouter(routerProvider, routerPersona, cfg.Routing)

	for _, label := range append(d.router.Labels(), d.router.Default()) {
		if !catalog.Has(label) {
			return nil, coreerrors.NewTieredError(coreerrors.TierUserFixable,
				fmt.Sprintf("routing label %q has no persona", label), nil)
		}
	}
	return d, nil
}

func (d *Dispatcher) servicePersona(id persona.Label) (provider providers.Provider, p persona.Persona, err error) {
	p, err = d.catalog.Lookup(id)
	if err != nil {
		return nil, p, coreerrors.WrapWithTier(coreerrors.TierUserFixable, "missing service persona "+string(id), err)
	}
	provider, err = providerFor(d.providers, p)
	if err != nil {
		return nil, p, err
	}
	return provider, p, nil
}

// Routed reports whether selector runs the two-stage routed flow.
func (d *Dispatcher) Routed(selector string) bool {
	return d.routed[selector]
}

// Catalog returns the persona catalog the dispatcher serves.
func (d *Dispatcher) Catalog() *persona.Catalog {
	return d.catalog
}

// Handle answers req. Routed selectors make at most three provider calls:
// rewrite, route and the persona reply. Any other selector names a persona
// and makes one.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, coreerrors.ErrPromptRequired
	}

	start := time.Now()
	logger := d.logger.With("selector", req.Selector)

	var (
		result *Result
		err    error
	)
	if d.Routed(req.Selector) {
		result, err = d.handleRouted(ctx, logger, req)
	} else {
		result, err = d.handleDirect(ctx, req)
	}
	if err != nil {
		logger.Warn("dispatch failed",
			"duration", time.Since(start),
			"tier", coreerrors.GetTier(err).String(),
			"error", security.Redact(err.Error()))
		return nil, err
	}

	logger.Info("dispatched",
		"assistant_type", result.AssistantType,
		"routed", result.Routed,
		"duration", time.Since(start))
	return result, nil
}

func (d *Dispatcher) handleRouted(ctx context.Context, logger *slog.Logger, req Request) (*Result, error) {
	rewritten, applicable, err := d.rewriter.Rewrite(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}
	if !applicable {
		logger.Debug("rewrite not applicable")
		return &Result{Message: NotApplicable, Thread: req.Thread}, nil
	}
	logger.Debug("rewrote prompt", "prompt", rewritten)

	label, err := d.router.Classify(ctx, rewritten)
	if err != nil {
		return nil, err
	}
	logger.Debug("routed prompt", "label", label)

	result, err := d.reply(ctx, label, rewritten, req.Thread)
	if err != nil {
		return nil, err
	}
	result.Routed = true
	return result, nil
}

func (d *Dispatcher) handleDirect(ctx context.Context, req Request) (*Result, error) {
	return d.reply(ctx, persona.Label(req.Selector), req.Prompt, req.Thread)
}

func (d *Dispatcher) reply(ctx context.Context, id persona.Label, prompt, thread string) (*Result, error) {
	p, err := d.catalog.Lookup(id)
	if err != nil {
		return nil, err
	}
	provider, err := providerFor(d.providers, p)
	if err != nil {
		return nil, err
	}

	resp, err := complete(ctx, provider, p, prompt, thread)
	if err != nil {
		return nil, err
	}

	normalized := Normalize(resp.Content)
	out := &Result{
		Message:       normalized.Message,
		Parameters:    normalized.Parameters,
		AssistantType: string(id),
		Thread:        resp.Thread,
	}
	if out.Thread == "" {
		out.Thread = thread
	}
	return out, nil
}
