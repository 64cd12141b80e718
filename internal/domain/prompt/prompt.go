// Package prompt builds the natural-language instructions sent to the model.
//
// Builders are pure: they embed their arguments verbatim and touch no state.
package prompt

import (
	"fmt"
	"strings"
)

// Kind names a request type. It labels metrics and logs.
type Kind string

// Request kinds issued by the service.
const (
	KindScenario Kind = "scenario"
	KindHint     Kind = "hint"
	KindOptions  Kind = "options"
	KindFeedback Kind = "feedback"
	KindRecipe   Kind = "recipe"
)

// ScoreInstruction closes every feedback prompt. The score extractor relies on it.
const ScoreInstruction = "Finish with a final line of the form \"Score: N\" where N is a whole number from 0 to 10."

const scenarioPrompt = `You are the host of a restaurant management challenge.
Describe one realistic situation a restaurant manager faces today, such as food waste,
staff shortages, a late supplier or an unhappy customer.
Keep it under 120 words and end with the decision the manager must make.
Do not list options or reveal a preferred answer.`

// Scenario asks for a fresh decision scenario.
func Scenario() string {
	return scenarioPrompt
}

// Hint asks for one hint about scenario without giving the answer away.
func Hint(scenario string) string {
	return fmt.Sprintf(`You are coaching a player in a restaurant management challenge.
Scenario:
%s

Give one short hint (at most two sentences) that points the player toward a sound decision.
Do not reveal which option is best.`, scenario)
}

// Options asks for exactly four labelled choices for scenario.
func Options(scenario string) string {
	labels := "A, B, C and D"
	return fmt.Sprintf(`You are writing a multiple-choice question for a restaurant management challenge.
Scenario:
%s

Write exactly four possible decisions labelled %s, one per line, in the form "A) ...".
Make exactly one option clearly strongest and keep each under 25 words.`, scenario, labels)
}

// Feedback asks for an evaluation of choice and always requests a 0-10 score.
func Feedback(scenario, choice string) string {
	return fmt.Sprintf(`You are judging a restaurant management challenge.
Scenario:
%s

The player chose option %s.
Explain in under 100 words how well this decision handles cost, customers, staff and waste.
%s`, scenario, choice, ScoreInstruction)
}

// Recipe asks for a full recipe based on the user's preferences.
// Empty input is rendered as "None".
func Recipe(userInput string) string {
	in := strings.TrimSpace(userInput)
	if in == "" {
		in = "None"
	}
	return fmt.Sprintf(`You are an expert chef. Based on the following inputs, generate a detailed recipe:
- User Input: %s
Provide a recipe that includes:
- Ingredients list
- Step-by-step instructions
- Cooking time and serving size
- Any dietary considerations mentioned in the input`, in)
}
