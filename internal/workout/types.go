package workout

import "strings"

// WorkoutRequest is one user ask. Prompt is optional; Text falls back to a
// synthesized request built from Name.
type WorkoutRequest struct {
	Name   string
	Prompt string
}

// Text returns the request text sent to the model.
func (r WorkoutRequest) Text() string {
	if p := strings.TrimSpace(r.Prompt); p != "" {
		return p
	}
	return "Workout for " + r.Name
}

type Exercise struct {
	Name     string `json:"name" yaml:"name"`
	Sets     int    `json:"sets" yaml:"sets"`
	Reps     string `json:"reps" yaml:"reps"`
	BodyPart string `json:"bodyPart" yaml:"bodyPart"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type WorkoutPlan struct {
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (p WorkoutPlan) clone() WorkoutPlan {
	out := p
	if p.Exercises != nil {
		out.Exercises = make([]Exercise, len(p.Exercises))
		copy(out.Exercises, p.Exercises)
	}
	return out
}

// Body parts the prompt asks the model to choose from. Model output is not
// checked against this list.
const (
	BodyPartChest     = "Chest"
	BodyPartBack      = "Back"
	BodyPartShoulders = "Shoulders"
	BodyPartArms      = "Arms"
	BodyPartLegs      = "Legs"
	BodyPartCore      = "Core"
	BodyPartCardio    = "Cardio"
	BodyPartFullBody  = "Full Body"
)

var BodyParts = []string{
	BodyPartChest,
	BodyPartBack,
	BodyPartShoulders,
	BodyPartArms,
	BodyPartLegs,
	BodyPartCore,
	BodyPartCardio,
	BodyPartFullBody,
}

// Source tags where a Result's plan came from.
type Source int

const (
	SourceModel Source = iota
	SourceUnavailable
	SourceExtraction
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceUnavailable:
		return "fallback-unavailable"
	case SourceExtraction:
		return "fallback-extraction"
	default:
		return "unknown"
	}
}

// Result is a plan plus its origin. Err is set only for SourceExtraction.
type Result struct {
	Plan   WorkoutPlan
	Source Source
	Err    error
}

// Fallback reports whether the plan is canned data.
func (r Result) Fallback() bool { return r.Source != SourceModel }
