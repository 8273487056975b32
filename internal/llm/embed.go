package llm

import _ "embed"

//go:generate go tool go-jsonschema -p schemas --tags json,yaml,mapstructure -o schemas/workout_request_v1.go schemas/workout-request-v1.json

//go:embed prompts/workout-prompt.txt
var WorkoutPrompt string

//go:embed schemas/workout-request-v1.json
var WorkoutRequestSchema string
