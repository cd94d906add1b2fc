package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/floyd/core/config"
	"github.com/adalundhe/floyd/core/dialogue"
	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
	"github.com/adalundhe/floyd/core/providers/providertest"
)

func TestNew_WithProviders(t *testing.T) {
	fake := providertest.Scripted("Floyd is here.")
	cfg := config.DefaultConfig()
	cfg.Personas = map[string]persona.Override{"ambassador": {Model: "gpt-4o"}}

	a, err := New(context.Background(), cfg, WithProviders(map[providers.ProviderType]providers.Provider{
		providers.ProviderTypeOpenAI: fake,
	}))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []providers.ProviderType{providers.ProviderTypeOpenAI}, a.Registry.Available())

	p, err := a.Registry.Default()
	require.NoError(t, err)
	retrying, ok := p.(*providers.Retrying)
	require.True(t, ok, "providers are wrapped with retries")
	assert.Same(t, fake, retrying.Unwrap())

	result, err := a.Dispatcher.Handle(context.Background(), dialogue.Request{Selector: "ambassador", Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Floyd is here.", result.Message)
	require.Equal(t, 1, fake.Calls())
	assert.Equal(t, "gpt-4o", fake.Requests()[0].Model)
}

func TestNew_ResolvesKeys(t *testing.T) {
	var asked []string
	keys := func(provider string) (string, error) {
		asked = append(asked, provider)
		return "sk-test", nil
	}

	a, err := New(context.Background(), config.DefaultConfig(), WithKeys(keys))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"openai"}, asked)
	assert.Equal(t, providers.ProviderTypeOpenAI, a.Registry.DefaultType())
	assert.Equal(t, len(persona.Builtins()), a.Catalog.Len())
}

func TestNew_MissingKey(t *testing.T) {
	keys := func(string) (string, error) { return "", coreerrors.ErrMissingAPIKey }

	_, err := New(context.Background(), config.DefaultConfig(), WithKeys(keys))
	require.Error(t, err)
	assert.True(t, errors.Is(err, coreerrors.ErrMissingAPIKey))
	assert.Equal(t, coreerrors.TierUserFixable, coreerrors.GetTier(err))
}

func TestNew_RejectsBadRetryTier(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.Retry = map[string]*coreerrors.RetryPolicy{"sometimes": {MaxAttempts: 1}}

	_, err := New(context.Background(), cfg, WithProviders(map[providers.ProviderType]providers.Provider{
		providers.ProviderTypeOpenAI: providertest.Scripted(),
	}))
	require.Error(t, err)
}

func TestNew_RoutingLabelWithoutPersona(t *testing.T) {
	fake := providertest.Scripted()
	cfg := config.DefaultConfig()
	cfg.Routing.Routing.Labels = []persona.Label{"Juggle"}

	_, err := New(context.Background(), cfg, WithProviders(map[providers.ProviderType]providers.Provider{
		providers.ProviderTypeOpenAI: fake,
	}))
	require.Error(t, err)
	assert.True(t, fake.Closed(), "registry is closed when the dispatcher cannot be built")
}
