package config

import (
	"testing"

	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
)

func TestDeepMergeStructs(t *testing.T) {
	type Inner struct {
		Value int
		Name  string
	}
	type Outer struct {
		Inner Inner
		Count int
	}

	dst := &Outer{Inner: Inner{Value: 1, Name: "original"}, Count: 10}
	src := &Outer{Inner: Inner{Value: 2}, Count: 0}

	DeepMerge(dst, src)

	if dst.Inner.Value != 2 {
		t.Errorf("Inner.Value: got %d, want 2", dst.Inner.Value)
	}
	if dst.Inner.Name != "original" {
		t.Errorf("Inner.Name: got %s, want original", dst.Inner.Name)
	}
	if dst.Count != 10 {
		t.Errorf("Count: got %d, want 10 (zero value shouldn't override)", dst.Count)
	}
}

func TestDeepMergePersonaOverrides(t *testing.T) {
	hot := 1.2
	dst := &Config{Personas: map[string]persona.Override{
		"GoSomewhere": {AssistantID: "asst_go", MaxOutputTokens: 200},
		"ambassador":  {Model: "gpt-4o"},
	}}
	src := &Config{Personas: map[string]persona.Override{
		"GoSomewhere": {Temperature: &hot},
		"bartender":   {Instruction: "Serve drinks."},
	}}

	DeepMerge(dst, src)

	got := dst.Personas["GoSomewhere"]
	if got.AssistantID != "asst_go" || got.MaxOutputTokens != 200 {
		t.Errorf("GoSomewhere lost earlier fields: %+v", got)
	}
	if got.Temperature == nil || *got.Temperature != 1.2 {
		t.Errorf("GoSomewhere temperature not merged: %+v", got)
	}
	if dst.Personas["ambassador"].Model != "gpt-4o" {
		t.Error("ambassador override dropped")
	}
	if dst.Personas["bartender"].Instruction != "Serve drinks." {
		t.Error("bartender override not added")
	}
}

func TestDeepMergePointersDoNotAlias(t *testing.T) {
	shared := &providers.OpenAIConfig{BaseURL: "https://proxy.example"}
	dst := &Config{Providers: providers.Settings{OpenAI: shared}}

	layer := &providers.OpenAIConfig{}
	layer.Model = "gpt-4.1"
	src := &Config{Providers: providers.Settings{OpenAI: layer}}

	DeepMerge(dst, src)

	if dst.Providers.OpenAI.BaseURL != "https://proxy.example" {
		t.Errorf("BaseURL: got %q", dst.Providers.OpenAI.BaseURL)
	}
	if dst.Providers.OpenAI.Model != "gpt-4.1" {
		t.Errorf("Model: got %q", dst.Providers.OpenAI.Model)
	}
	if shared.Model != "" {
		t.Error("merge wrote through a shared pointer")
	}
}

func TestDeepMergeNilPointerTakesSource(t *testing.T) {
	dst := &Config{}
	src := &Config{Providers: providers.Settings{Google: &providers.GoogleConfig{ProjectID: "floyd"}}}

	DeepMerge(dst, src)

	if dst.Providers.Google == nil || dst.Providers.Google.ProjectID != "floyd" {
		t.Errorf("Google: got %+v", dst.Providers.Google)
	}
}

func TestDeepMergeSlices(t *testing.T) {
	type S struct {
		Items []string
	}

	dst := &S{Items: []string{"a", "b"}}
	DeepMerge(dst, &S{Items: []string{"x", "y", "z"}})
	if len(dst.Items) != 3 || dst.Items[0] != "x" {
		t.Errorf("Items: got %v, want [x y z]", dst.Items)
	}

	DeepMerge(dst, &S{})
	if len(dst.Items) != 3 {
		t.Errorf("empty slice should not override: got %v", dst.Items)
	}
}

func TestDeepMergeIgnoresMismatchedTypes(t *testing.T) {
	type A struct{ N int }
	type B struct{ N int }

	dst := &A{N: 1}
	DeepMerge(dst, &B{N: 2})
	DeepMerge(dst, A{N: 3})

	if dst.N != 1 {
		t.Errorf("N: got %d, want 1", dst.N)
	}
}
