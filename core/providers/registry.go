package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// Registry manages multiple provider instances and resolves the provider
// named by a persona
type Registry struct {
	mu sync.RWMutex

	providers map[ProviderType]Provider
	default_  ProviderType
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[ProviderType]Provider),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(providerType ProviderType, provider Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := provider.ValidateConfig(); err != nil {
		return coreerrors.WrapWithTier(coreerrors.TierUserFixable,
			fmt.Sprintf("invalid provider config for %s", providerType), err)
	}

	r.providers[providerType] = provider

	// Set as default if first provider
	if len(r.providers) == 1 {
		r.default_ = providerType
	}

	return nil
}

// Get returns a provider by type
func (r *Registry) Get(providerType ProviderType) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[providerType]
	if !ok {
		return nil, coreerrors.ErrUnknownProvider.WithContext("provider", string(providerType))
	}
	return provider, nil
}

// Resolve returns the provider registered under name, or the default
// provider when name is empty.
func (r *Registry) Resolve(name string) (Provider, error) {
	if name == "" {
		return r.Default()
	}
	return r.Get(ProviderType(name))
}

// Default returns the default provider
func (r *Registry) Default() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.default_ == "" {
		return nil, coreerrors.ErrUnknownProvider.WithContext("provider", "default")
	}
	return r.providers[r.default_], nil
}

// SetDefault sets the default provider
func (r *Registry) SetDefault(providerType ProviderType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[providerType]; !ok {
		return coreerrors.ErrUnknownProvider.WithContext("provider", string(providerType))
	}
	r.default_ = providerType
	return nil
}

// DefaultType returns the type of the default provider
func (r *Registry) DefaultType() ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.default_
}

// Available returns all registered provider types in sorted order
func (r *Registry) Available() []ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ProviderType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Has checks if a provider type is registered
func (r *Registry) Has(providerType ProviderType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[providerType]
	return ok
}

// Close closes all registered providers
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, provider := range r.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// KeyResolver looks up the API key for a provider whose configuration does
// not carry one.
type KeyResolver func(provider string) (string, error)

// Settings selects and configures the providers to register. A nil section
// leaves that provider out unless it is the default.
type Settings struct {
	Default    ProviderType      `yaml:"default"`
	OpenAI     *OpenAIConfig     `yaml:"openai,omitempty"`
	Anthropic  *AnthropicConfig  `yaml:"anthropic,omitempty"`
	Google     *GoogleConfig     `yaml:"google,omitempty"`
	Assistants *AssistantsConfig `yaml:"assistants,omitempty"`

	Retry          map[string]*coreerrors.RetryPolicy `yaml:"retry,omitempty"`
	CircuitBreaker *coreerrors.CircuitBreakerConfig   `yaml:"circuit_breaker,omitempty"`
}

// DefaultSettings registers only the OpenAI provider.
func DefaultSettings() Settings {
	return Settings{Default: ProviderTypeOpenAI}
}

// RegistryBuilder provides a fluent interface for building a registry
type RegistryBuilder struct {
	registry *Registry
	ctx      context.Context
	keys     KeyResolver
	wrap     func(Provider) Provider
	options  []ProviderOption
	errors   []error
}

// NewRegistryBuilder creates a new builder
func NewRegistryBuilder(ctx context.Context) *RegistryBuilder {
	return &RegistryBuilder{
		registry: NewRegistry(),
		ctx:      ctx,
		keys:     func(string) (string, error) { return "", coreerrors.ErrMissingAPIKey },
		wrap:     func(p Provider) Provider { return p },
	}
}

// WithKeys sets the resolver used for configs without an API key
func (b *RegistryBuilder) WithKeys(keys KeyResolver) *RegistryBuilder {
	if keys != nil {
		b.keys = keys
	}
	return b
}

// WithWrapper decorates every provider before it is registered
func (b *RegistryBuilder) WithWrapper(wrap func(Provider) Provider) *RegistryBuilder {
	if wrap != nil {
		b.wrap = wrap
	}
	return b
}

// WithErrorClassifier tiers errors of every SDK-backed provider built
// afterwards with c
func (b *RegistryBuilder) WithErrorClassifier(c *coreerrors.ErrorClassifier) *RegistryBuilder {
	if c != nil {
		b.options = append(b.options, WithErrorClassifier(c))
	}
	return b
}

func (b *RegistryBuilder) resolveKey(providerType ProviderType, key *string) bool {
	if *key != "" {
		return true
	}
	resolved, err := b.keys(string(providerType))
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("%s: %w", providerType, err))
		return false
	}
	*key = resolved
	return true
}

func (b *RegistryBuilder) register(providerType ProviderType, provider Provider, err error) {
	if err == nil {
		err = b.registry.Register(providerType, b.wrap(provider))
	}
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("%s: %w", providerType, err))
	}
}

// WithAnthropic adds an Anthropic provider
func (b *RegistryBuilder) WithAnthropic(config AnthropicConfig) *RegistryBuilder {
	if b.resolveKey(ProviderTypeAnthropic, &config.APIKey) {
		p, err := NewAnthropicProvider(config, b.options...)
		b.register(ProviderTypeAnthropic, p, err)
	}
	return b
}

// WithOpenAI adds an OpenAI provider
func (b *RegistryBuilder) WithOpenAI(config OpenAIConfig) *RegistryBuilder {
	if b.resolveKey(ProviderTypeOpenAI, &config.APIKey) {
		p, err := NewOpenAIProvider(config, b.options...)
		b.register(ProviderTypeOpenAI, p, err)
	}
	return b
}

// WithAssistants adds an OpenAI assistants provider
func (b *RegistryBuilder) WithAssistants(config AssistantsConfig) *RegistryBuilder {
	if b.resolveKey(ProviderTypeAssistants, &config.APIKey) {
		p, err := NewAssistantsProvider(config, b.options...)
		b.register(ProviderTypeAssistants, p, err)
	}
	return b
}

// WithGoogle adds a Google provider
func (b *RegistryBuilder) WithGoogle(config GoogleConfig) *RegistryBuilder {
	if config.UseVertexAI || b.resolveKey(ProviderTypeGoogle, &config.APIKey) {
		p, err := NewGoogleProvider(b.ctx, config, b.options...)
		b.register(ProviderTypeGoogle, p, err)
	}
	return b
}

// WithProvider adds an already constructed provider
func (b *RegistryBuilder) WithProvider(providerType ProviderType, provider Provider) *RegistryBuilder {
	b.register(providerType, provider, nil)
	return b
}

// WithSettings adds every provider selected by s and sets the default
func (b *RegistryBuilder) WithSettings(s Settings) *RegistryBuilder {
	if s.Default == "" {
		s.Default = ProviderTypeOpenAI
	}
	if _, err := ParseProviderType(string(s.Default)); err != nil {
		b.errors = append(b.errors, err)
		return b
	}

	if s.OpenAI != nil || s.Default == ProviderTypeOpenAI {
		b.WithOpenAI(orDefault(s.OpenAI, DefaultOpenAIConfig()))
	}
	if s.Anthropic != nil || s.Default == ProviderTypeAnthropic {
		b.WithAnthropic(orDefault(s.Anthropic, DefaultAnthropicConfig()))
	}
	if s.Google != nil || s.Default == ProviderTypeGoogle {
		b.WithGoogle(orDefault(s.Google, DefaultGoogleConfig()))
	}
	if s.Assistants != nil || s.Default == ProviderTypeAssistants {
		b.WithAssistants(orDefault(s.Assistants, DefaultAssistantsConfig()))
	}
	return b.WithDefault(s.Default)
}

func orDefault[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

// WithDefault sets the default provider
func (b *RegistryBuilder) WithDefault(providerType ProviderType) *RegistryBuilder {
	if !b.registry.Has(providerType) {
		// Registration already recorded why the default is missing.
		if len(b.errors) == 0 {
			b.errors = append(b.errors, coreerrors.ErrUnknownProvider.WithContext("provider", string(providerType)))
		}
		return b
	}
	if err := b.registry.SetDefault(providerType); err != nil {
		b.errors = append(b.errors, fmt.Errorf("default: %w", err))
	}
	return b
}

// Build returns the configured registry
func (b *RegistryBuilder) Build() (*Registry, error) {
	if len(b.errors) > 0 {
		return nil, coreerrors.WrapWithTier(coreerrors.TierUserFixable, "provider registry", errors.Join(b.errors...))
	}
	return b.registry, nil
}
