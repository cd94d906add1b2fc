// Package app assembles a dispatcher and its providers from a config
// snapshot.
package app

import (
	"context"
	"log/slog"

	"github.com/adalundhe/floyd/core/config"
	"github.com/adalundhe/floyd/core/dialogue"
	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/llm"
	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
)

// App is everything built from one config snapshot.
type App struct {
	Config     *config.Config
	Catalog    *persona.Catalog
	Registry   *providers.Registry
	Dispatcher *dialogue.Dispatcher
}

type options struct {
	keys      providers.KeyResolver
	providers map[providers.ProviderType]providers.Provider
	logger    *slog.Logger
}

type Option func(*options)

// WithKeys replaces llm.ResolveAPIKey as the API key source.
func WithKeys(keys providers.KeyResolver) Option {
	return func(o *options) { o.keys = keys }
}

// WithProviders registers prebuilt providers instead of building them from
// the provider settings.
func WithProviders(ps map[providers.ProviderType]providers.Provider) Option {
	return func(o *options) { o.providers = ps }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New builds the providers, persona catalog and dispatcher for cfg. Every
// provider is wrapped with the configured retry policy and circuit breaker.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{keys: llm.ResolveAPIKey, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	classifier, err := coreerrors.NewErrorClassifierFromConfig(&cfg.Errors)
	if err != nil {
		return nil, err
	}

	wrap, err := providers.RetryWrapper(cfg.Providers, classifier, o.logger)
	if err != nil {
		return nil, err
	}

	catalog, err := persona.Build(cfg.Personas)
	if err != nil {
		return nil, err
	}

	builder := providers.NewRegistryBuilder(ctx).
		WithKeys(o.keys).
		WithWrapper(wrap).
		WithErrorClassifier(classifier)
	if o.providers != nil {
		for _, name := range []providers.ProviderType{
			providers.ProviderTypeOpenAI,
			providers.ProviderTypeAnthropic,
			providers.ProviderTypeGoogle,
			providers.ProviderTypeAssistants,
		} {
			if p, ok := o.providers[name]; ok {
				builder.WithProvider(name, p)
			}
		}
		builder.WithDefault(cfg.Providers.Default)
	} else {
		builder.WithSettings(cfg.Providers)
	}
	registry, err := builder.Build()
	if err != nil {
		return nil, err
	}

	dispatcher, err := dialogue.NewDispatcher(catalog, registry, cfg.Routing, dialogue.WithLogger(o.logger))
	if err != nil {
		_ = registry.Close()
		return nil, err
	}

	o.logger.Debug("dispatcher ready",
		"providers", registry.Available(),
		"default_provider", registry.DefaultType(),
		"personas", catalog.Len())

	return &App{
		Config:     cfg,
		Catalog:    catalog,
		Registry:   registry,
		Dispatcher: dispatcher,
	}, nil
}

func (a *App) Close() error {
	return a.Registry.Close()
}
