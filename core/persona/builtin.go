package persona

// Builtins returns the personas shipped with floyd. Each call returns fresh
// values so callers may modify the slice.
func Builtins() []Persona {
	return []Persona{
		{ID: RewriteSecondPerson, Instruction: rewriteInstruction, Temperature: temp(0), MaxOutputTokens: 200},
		{ID: Router, Instruction: routerInstruction, Temperature: temp(0), MaxOutputTokens: 50},
		{ID: BasicResponse, Instruction: floydVoice, Temperature: temp(0.7), MaxOutputTokens: 400},

		{ID: DoSomething, Instruction: floydVoice + doSomethingInstruction, Temperature: temp(0.7), MaxOutputTokens: 400},
		{ID: PickUp, Instruction: floydVoice + pickUpInstruction, Temperature: temp(0.7), MaxOutputTokens: 400},
		{ID: GoSomewhere, Instruction: floydVoice + goSomewhereInstruction, Temperature: temp(0.7), MaxOutputTokens: 400},
		{ID: AskQuestion, Instruction: floydVoice + askQuestionInstruction, Temperature: temp(0.7), MaxOutputTokens: 400},
		{ID: GiveInstruction, Instruction: floydVoice + giveInstructionInstruction, Temperature: temp(0.7), MaxOutputTokens: 400},
		{ID: SocialEmotional, Instruction: floydVoice + socialEmotionalInstruction, Temperature: temp(0.8), MaxOutputTokens: 400},
		{ID: MetaCommand, Instruction: floydVoice + metaCommandInstruction, Temperature: temp(0.5), MaxOutputTokens: 300},
		{ID: Nonsense, Instruction: floydVoice + nonsenseInstruction, Temperature: temp(0.9), MaxOutputTokens: 300},

		{ID: Ambassador, Instruction: ambassadorInstruction, Temperature: temp(0.7), MaxOutputTokens: 800, Model: "gpt-4"},
		{ID: Blather, Instruction: blatherInstruction, Temperature: temp(0.8), MaxOutputTokens: 1000, Model: "gpt-4"},
	}
}

func temp(v float64) *float64 {
	return &v
}
