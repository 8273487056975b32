package llm

import (
	"fmt"
	"strings"

	"github.com/mythicalprogrammer/exRPG/internal/llm/provider"
	"github.com/mythicalprogrammer/exRPG/internal/workout"
)

const (
	// PromptCue ends every prompt; generation starts right after it.
	PromptCue = "Workout JSON:"
	// RequestDelimiter introduces the user's text in the prompt. The model
	// is stopped if it starts writing another request.
	RequestDelimiter = "User request:"
)

// Fixed generation parameters. They are not configurable per request.
const (
	MaxTokens     = 1000
	Temperature   = 0.7
	TopP          = 0.9
	TopK          = 40
	RepeatPenalty = 1.1
)

var StopSequences = []string{RequestDelimiter, "\n\n"}

// BuildPrompt renders the instruction template around the request text.
func BuildPrompt(req workout.WorkoutRequest) string {
	p := fmt.Sprintf(WorkoutPrompt, strings.Join(workout.BodyParts, ", "), req.Text())
	return strings.TrimRight(p, " \n")
}

func generationParams(prompt string) provider.GenerateRequest {
	stop := make([]string, len(StopSequences))
	copy(stop, StopSequences)
	return provider.GenerateRequest{
		Prompt:        prompt,
		MaxTokens:     MaxTokens,
		Temperature:   Temperature,
		TopP:          TopP,
		TopK:          TopK,
		RepeatPenalty: RepeatPenalty,
		Stop:          stop,
	}
}
