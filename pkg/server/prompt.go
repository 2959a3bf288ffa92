package server

import "fmt"

// Instruction templates for the three story operations. The genre framing
// around them is added by engine.BuildPrompt.

func suggestCharacterInstruction(theme string) string {
	return fmt.Sprintf(`Given genre: %s. Suggest a single protagonist: full name and one sentence personality. Reply only with valid JSON: {"name": "...", "personality": "..."}.`, theme)
}

func startStoryInstruction(name, personality string) string {
	return fmt.Sprintf("Character: %s. Personality: %s. "+
		"Write exactly 2 short paragraphs: (1) a tranquil setting where the character is. "+
		"(2) A sudden disruption (event or danger). No dialogue from the narrator; set the scene only.",
		name, personality)
}

func continueStoryInstruction(storySoFar, action string) string {
	return fmt.Sprintf("Story so far:\n%s\n\nPlayer action: %s\n\n"+
		"Write the next narrative segment (2–4 sentences) that results from this action. "+
		"Then briefly describe the new situation so the player can choose another action.",
		storySoFar, action)
}

// characterHint keeps the protagonist framing persistent across continuation
// turns; it rides in the prompt preamble rather than the instruction.
func characterHint(name, personality string) string {
	return fmt.Sprintf("Character: %s. Personality: %s. Stay in genre.", name, personality)
}
