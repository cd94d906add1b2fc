package dialogue

import (
	"context"
	"strings"

	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
)

// NotApplicable is the rewriter reply meaning the input is not speech
// addressed to the character.
const NotApplicable = "no"

// Rewriter asks the rewrite persona to turn speech addressed to the
// character into a direct second-person instruction.
type Rewriter struct {
	provider providers.Provider
	persona  persona.Persona
}

func NewRewriter(provider providers.Provider, p persona.Persona) *Rewriter {
	return &Rewriter{provider: provider, persona: p}
}

// Rewrite returns the rewritten prompt. applicable is false when the
// persona answered with the NotApplicable sentinel; text then holds the raw
// reply.
func (r *Rewriter) Rewrite(ctx context.Context, prompt string) (text string, applicable bool, err error) {
	resp, err := complete(ctx, r.provider, r.persona, prompt, "")
	if err != nil {
		return "", false, err
	}
	return resp.Content, !IsNotApplicable(resp.Content), nil
}

// IsNotApplicable reports whether reply is the NotApplicable sentinel,
// ignoring case, surrounding whitespace and quotes, and a trailing period.
func IsNotApplicable(reply string) bool {
	s := strings.TrimSpace(reply)
	s = strings.Trim(s, "\"'`“”‘’")
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	return strings.EqualFold(strings.TrimSpace(s), NotApplicable)
}
