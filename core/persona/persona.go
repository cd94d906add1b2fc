// Package persona holds the catalog of named behavior profiles applied to
// completion calls.
package persona

import (
	"fmt"
	"sort"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// Persona is a system instruction plus sampling parameters. Provider and
// Model are optional; when empty the dispatcher's defaults apply.
// AssistantID binds the persona to a remote assistant served by the
// assistants provider.
type Persona struct {
	ID              Label
	Instruction     string
	Temperature     *float64
	MaxOutputTokens int64
	Model           string
	Provider        string
	AssistantID     string
}

// Remote reports whether the persona is served by a remote assistant.
func (p Persona) Remote() bool {
	return p.AssistantID != ""
}

// Catalog maps persona ids to personas. It is immutable after construction
// and safe for concurrent readers.
type Catalog struct {
	personas map[Label]Persona
}

// NewCatalog builds a catalog from the given definitions.
func NewCatalog(defs ...Persona) (*Catalog, error) {
	personas := make(map[Label]Persona, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, coreerrors.NewTieredError(coreerrors.TierUserFixable, "persona without id", nil)
		}
		if _, exists := personas[def.ID]; exists {
			return nil, coreerrors.NewTieredError(coreerrors.TierUserFixable,
				fmt.Sprintf("duplicate persona %q", def.ID), nil)
		}
		personas[def.ID] = def
	}
	return &Catalog{personas: personas}, nil
}

// Lookup returns the persona registered under id.
func (c *Catalog) Lookup(id Label) (Persona, error) {
	p, ok := c.personas[id]
	if !ok {
		return Persona{}, coreerrors.ErrUnknownAssistant.WithContext("assistant", string(id))
	}
	return p, nil
}

// Has reports whether id is registered.
func (c *Catalog) Has(id Label) bool {
	_, ok := c.personas[id]
	return ok
}

// IDs returns the registered ids in sorted order.
func (c *Catalog) IDs() []Label {
	ids := make([]Label, 0, len(c.personas))
	for id := range c.personas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns the registered personas sorted by id.
func (c *Catalog) All() []Persona {
	ids := c.IDs()
	all := make([]Persona, 0, len(ids))
	for _, id := range ids {
		all = append(all, c.personas[id])
	}
	return all
}

// Len returns the number of registered personas.
func (c *Catalog) Len() int {
	return len(c.personas)
}
