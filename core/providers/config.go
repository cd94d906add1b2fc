package providers

import (
	"fmt"
	"time"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// BaseConfig contains configuration common to all providers
type BaseConfig struct {
	// APIKey is the authentication key for the provider
	APIKey string `json:"api_key" yaml:"api_key"`

	// Model is the default model to use
	Model string `json:"model" yaml:"model"`

	// MaxTokens is the default maximum tokens to generate
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the default sampling temperature, used when the persona sets none
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Timeout for a single API request
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultBaseConfig returns sensible defaults
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		MaxTokens:   1024,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
	}
}

// Validate checks the base configuration
func (c *BaseConfig) Validate() error {
	if c.APIKey == "" {
		return coreerrors.ErrMissingAPIKey
	}
	if c.MaxTokens <= 0 {
		return coreerrors.NewTieredError(coreerrors.TierUserFixable, "max_tokens must be positive", nil)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return coreerrors.NewTieredError(coreerrors.TierUserFixable, "temperature must be between 0 and 2", nil)
	}
	return nil
}

// AnthropicConfig contains Anthropic-specific configuration
type AnthropicConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// BaseURL overrides the default API endpoint
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// DefaultAnthropicConfig returns Anthropic defaults
func DefaultAnthropicConfig() AnthropicConfig {
	base := DefaultBaseConfig()
	base.Model = string(Haiku)

	return AnthropicConfig{
		BaseConfig: base,
	}
}

// Validate checks Anthropic-specific configuration
func (c *AnthropicConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return coreerrors.WrapWithTier(coreerrors.TierUserFixable, "anthropic config", err)
	}
	return nil
}

// OpenAIConfig contains OpenAI-specific configuration
type OpenAIConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// BaseURL overrides the default API endpoint (for Azure, proxies, etc.)
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Organization ID for OpenAI
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`

	// Project ID for OpenAI
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
}

// DefaultOpenAIConfig returns OpenAI defaults
func DefaultOpenAIConfig() OpenAIConfig {
	base := DefaultBaseConfig()
	base.Model = string(GPT4o)

	return OpenAIConfig{
		BaseConfig: base,
	}
}

// Validate checks OpenAI-specific configuration
func (c *OpenAIConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return coreerrors.WrapWithTier(coreerrors.TierUserFixable, "openai config", err)
	}
	return nil
}

// AssistantsConfig configures the OpenAI assistants (threads and runs)
// provider. Personas name the remote assistant they are bound to.
type AssistantsConfig struct {
	OpenAIConfig `json:",inline" yaml:",inline"`

	// PollInterval is the wait between run status checks
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// MaxPolls bounds the number of run status checks
	MaxPolls int `json:"max_polls" yaml:"max_polls"`

	// DefaultAssistantID serves personas without a binding of their own
	DefaultAssistantID string `json:"default_assistant_id,omitempty" yaml:"default_assistant_id,omitempty"`
}

// DefaultAssistantsConfig polls once a second for up to two minutes.
func DefaultAssistantsConfig() AssistantsConfig {
	poll := coreerrors.DefaultPollConfig()
	return AssistantsConfig{
		OpenAIConfig: DefaultOpenAIConfig(),
		PollInterval: poll.Interval,
		MaxPolls:     poll.MaxAttempts,
	}
}

// Validate checks assistants-specific configuration
func (c *AssistantsConfig) Validate() error {
	if c.APIKey == "" {
		return coreerrors.WrapWithTier(coreerrors.TierUserFixable, "assistants config", coreerrors.ErrMissingAPIKey)
	}
	if c.PollInterval <= 0 || c.MaxPolls <= 0 {
		return coreerrors.NewTieredError(coreerrors.TierUserFixable,
			fmt.Sprintf("assistants config: poll_interval (%s) and max_polls (%d) must be positive", c.PollInterval, c.MaxPolls), nil)
	}
	return nil
}

// GoogleConfig contains Google/Gemini-specific configuration
type GoogleConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// BaseURL overrides the default API endpoint
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// ProjectID for Vertex AI (optional, uses Gemini API if not set)
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty"`

	// Location for Vertex AI (e.g., "us-central1")
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// UseVertexAI switches from Gemini API to Vertex AI
	UseVertexAI bool `json:"use_vertex_ai" yaml:"use_vertex_ai"`
}

// DefaultGoogleConfig returns Google/Gemini defaults
func DefaultGoogleConfig() GoogleConfig {
	base := DefaultBaseConfig()
	base.Model = string(GeminiFlash)

	return GoogleConfig{
		BaseConfig: base,
		Location:   "us-central1",
	}
}

// Validate checks Google-specific configuration
func (c *GoogleConfig) Validate() error {
	if c.UseVertexAI {
		if c.ProjectID == "" {
			return coreerrors.NewTieredError(coreerrors.TierUserFixable, "google config: project_id required for Vertex AI", nil)
		}
		return nil
	}
	if err := c.BaseConfig.Validate(); err != nil {
		return coreerrors.WrapWithTier(coreerrors.TierUserFixable, "google config", err)
	}
	return nil
}

// ProviderType identifies the provider
type ProviderType string

const (
	ProviderTypeAnthropic  ProviderType = "anthropic"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAssistants ProviderType = "assistants"
	ProviderTypeGoogle     ProviderType = "google"
)

// ParseProviderType validates a configured provider name.
func ParseProviderType(name string) (ProviderType, error) {
	switch t := ProviderType(name); t {
	case ProviderTypeAnthropic, ProviderTypeOpenAI, ProviderTypeAssistants, ProviderTypeGoogle:
		return t, nil
	}
	return "", coreerrors.ErrUnknownProvider.WithContext("provider", name)
}
