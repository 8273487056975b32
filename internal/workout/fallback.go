package workout

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackPlans struct {
	Unavailable WorkoutPlan `yaml:"unavailable"`
	Extraction  WorkoutPlan `yaml:"extraction"`
}

var fallbacks = mustLoadFallbacks(fallbackYAML)

func mustLoadFallbacks(b []byte) fallbackPlans {
	var f fallbackPlans
	if err := yaml.Unmarshal(b, &f); err != nil {
		panic(fmt.Sprintf("workout: parse fallback plans: %v", err))
	}
	if len(f.Unavailable.Exercises) == 0 || len(f.Extraction.Exercises) == 0 {
		panic("workout: fallback plans must carry at least one exercise")
	}
	return f
}

// UnavailablePlan is served when no model is loaded.
func UnavailablePlan() WorkoutPlan { return fallbacks.Unavailable.clone() }

// ExtractionFailedPlan is served when model output holds no usable JSON.
// The cause is recorded in the plan notes.
func ExtractionFailedPlan(cause error) WorkoutPlan {
	p := fallbacks.Extraction.clone()
	p.Notes = "Failed to parse AI response: " + cause.Error()
	return p
}

// Unavailable wraps UnavailablePlan as a Result.
func Unavailable() Result {
	return Result{Plan: UnavailablePlan(), Source: SourceUnavailable}
}
