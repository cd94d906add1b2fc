package persona

import (
	"sort"

	coreerrors "github.com/adalundhe/floyd/core/errors"
)

// Override adjusts a built-in persona or defines a new one. Zero values leave
// the built-in field unchanged.
type Override struct {
	Instruction     string   `yaml:"instruction,omitempty"`
	Temperature     *float64 `yaml:"temperature,omitempty"`
	MaxOutputTokens int64    `yaml:"max_output_tokens,omitempty"`
	Model           string   `yaml:"model,omitempty"`
	Provider        string   `yaml:"provider,omitempty"`
	AssistantID     string   `yaml:"assistant_id,omitempty"`
}

func (o Override) apply(p Persona) Persona {
	if o.Instruction != "" {
		p.Instruction = o.Instruction
	}
	if o.Temperature != nil {
		t := *o.Temperature
		p.Temperature = &t
	}
	if o.MaxOutputTokens > 0 {
		p.MaxOutputTokens = o.MaxOutputTokens
	}
	if o.Model != "" {
		p.Model = o.Model
	}
	if o.Provider != "" {
		p.Provider = o.Provider
	}
	if o.AssistantID != "" {
		p.AssistantID = o.AssistantID
	}
	return p
}

// Build returns the built-in catalog with overrides applied. An override for
// an unknown id defines a new persona and must carry an instruction or a
// remote assistant id.
func Build(overrides map[string]Override) (*Catalog, error) {
	builtins := Builtins()
	index := make(map[Label]int, len(builtins))
	for i, p := range builtins {
		index[p.ID] = i
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		o := overrides[name]
		id := Label(name)
		if i, ok := index[id]; ok {
			builtins[i] = o.apply(builtins[i])
			continue
		}
		if o.Instruction == "" && o.AssistantID == "" {
			return nil, coreerrors.NewTieredError(coreerrors.TierUserFixable,
				"persona "+name+" needs an instruction or an assistant_id", nil)
		}
		builtins = append(builtins, o.apply(Persona{ID: id}))
	}

	return NewCatalog(builtins...)
}
