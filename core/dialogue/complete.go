// Package dialogue turns free-text player input into a persona reply: an
// optional second-person rewrite, intent routing, persona dispatch and
// reply normalization.
package dialogue

import (
	"context"

	coreerrors "github.com/adalundhe/floyd/core/errors"
	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
)

// ProviderResolver returns the provider registered under a name. An empty
// name selects the default provider. *providers.Registry implements it.
type ProviderResolver interface {
	Resolve(name string) (providers.Provider, error)
}

// providerFor picks the provider serving p. Personas bound to a remote
// assistant default to the assistants provider.
func providerFor(resolver ProviderResolver, p persona.Persona) (providers.Provider, error) {
	name := p.Provider
	if name == "" && p.Remote() {
		name = string(providers.ProviderTypeAssistants)
	}
	return resolver.Resolve(name)
}

// personaRequest builds a single-prompt completion request carrying the
// persona's instruction and sampling parameters.
func personaRequest(p persona.Persona, prompt, thread string) *providers.Request {
	req := providers.NewTextRequest(p.Instruction, prompt)
	req.Model = p.Model
	req.MaxTokens = int(p.MaxOutputTokens)
	req.Temperature = p.Temperature
	req.AssistantID = p.AssistantID
	req.Thread = thread
	req.Metadata = map[string]any{"persona": string(p.ID)}
	return req
}

func complete(ctx context.Context, provider providers.Provider, p persona.Persona, prompt, thread string) (*providers.Response, error) {
	resp, err := provider.Complete(ctx, personaRequest(p, prompt, thread))
	if err != nil {
		return nil, coreerrors.Upstream("completion failed", err)
	}
	return resp, nil
}
