package dialogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers/providertest"
)

func routerPersona() persona.Persona {
	return persona.Persona{ID: persona.Router, Instruction: "classify"}
}

func TestRouter_CustomLabels(t *testing.T) {
	fake := providertest.Scripted("I think this is about coding.")
	r := NewRouter(fake, routerPersona(), RouterConfig{
		Labels: []persona.Label{"writing", "coding"},
	})

	label, err := r.Classify(context.Background(), "how do I fix this segfault")
	require.NoError(t, err)
	assert.Equal(t, persona.Label("coding"), label)
	assert.Equal(t, 1, fake.Calls())
	assert.Equal(t, "classify", fake.Requests()[0].SystemPrompt)
}

func TestRouter_Match(t *testing.T) {
	r := NewRouter(nil, routerPersona(), RouterConfig{})

	tests := []struct {
		reply string
		want  persona.Label
	}{
		{"GoSomewhere", persona.GoSomewhere},
		{"  pickup\n", persona.PickUp},
		{"Label: AskQuestion.", persona.AskQuestion},
		{"SocialEmotional or maybe GoSomewhere", persona.GoSomewhere},
		{"socialemotional, metacommand", persona.MetaCommand},
		{"nonsense", persona.Nonsense},
		{"I have no idea", persona.SocialEmotional},
		{"", persona.SocialEmotional},
	}
	for _, tt := range tests {
		if got := r.Match(tt.reply); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.reply, got, tt.want)
		}
	}
}

func TestRouter_DefaultOrder(t *testing.T) {
	r := NewRouter(nil, routerPersona(), RouterConfig{})
	assert.Equal(t, persona.DefaultPriority(), r.Labels())
	assert.Equal(t, persona.DefaultLabel, r.Default())
}

func TestRouter_PriorityAndDefault(t *testing.T) {
	r := NewRouter(nil, routerPersona(), RouterConfig{
		Labels:       []persona.Label{"writing", "coding", "chat"},
		Priority:     []persona.Label{"coding", "unknown"},
		DefaultLabel: "chat",
	})

	assert.Equal(t, []persona.Label{"coding", "writing", "chat"}, r.Labels())
	assert.Equal(t, persona.Label("coding"), r.Match("writing about coding"))
	assert.Equal(t, persona.Label("chat"), r.Match("no idea"))
}

func TestRouter_ProviderFailure(t *testing.T) {
	fake := providertest.Scripted()
	r := NewRouter(fake, routerPersona(), RouterConfig{})

	_, err := r.Classify(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, providertest.ErrExhausted)
}
