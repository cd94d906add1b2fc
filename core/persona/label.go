package persona

import "strings"

// Label names an intent or a persona. Intent labels are produced by the
// router; every label resolves to a Persona in the catalog.
type Label string

// Intent labels.
const (
	DoSomething     Label = "DoSomething"
	PickUp          Label = "PickUp"
	GoSomewhere     Label = "GoSomewhere"
	AskQuestion     Label = "AskQuestion"
	GiveInstruction Label = "GiveInstruction"
	SocialEmotional Label = "SocialEmotional"
	MetaCommand     Label = "MetaCommand"
	Nonsense        Label = "Nonsense"
)

// Character personas.
const (
	Ambassador Label = "ambassador"
	Blather    Label = "blather"
)

// Service personas used by the dialogue pipeline itself.
const (
	BasicResponse       Label = "basic_response"
	Router              Label = "router"
	RewriteSecondPerson Label = "rewrite_second_person"
)

// DefaultLabel is returned by the router when the reply names no known label.
const DefaultLabel = SocialEmotional

// DefaultPriority is the order in which labels are matched against a router
// reply. Specific intents precede the conversational catch-alls so that a
// reply mentioning both resolves to the specific one.
func DefaultPriority() []Label {
	return []Label{
		MetaCommand,
		GoSomewhere,
		PickUp,
		GiveInstruction,
		AskQuestion,
		DoSomething,
		SocialEmotional,
		Nonsense,
	}
}

// IntentLabels returns the closed set of labels the router may answer with.
func IntentLabels() []Label {
	return DefaultPriority()
}

func (l Label) String() string {
	return string(l)
}

// ParseLabels converts configured label names, dropping blanks.
func ParseLabels(names []string) []Label {
	labels := make([]Label, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		labels = append(labels, Label(name))
	}
	return labels
}
