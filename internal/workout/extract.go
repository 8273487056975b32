package workout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is surfaced verbatim in plan notes.
var ErrNoJSON = errors.New("No JSON found in response") //nolint:staticcheck

// Extract turns raw model output into a plan. It never fails: output without
// a parseable object yields the extraction fallback with the cause in Notes.
//
// The object is taken from the first '{' to the last '}', so prose before and
// after it is tolerated. Unbalanced braces outside the object break this.
// Field types are read leniently (see Exercise.UnmarshalJSON) and a missing
// exercise list comes back empty rather than nil.
func Extract(generated string) Result {
	raw, err := locateJSON(generated)
	if err != nil {
		return extractionFailed(err)
	}
	var plan WorkoutPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return extractionFailed(fmt.Errorf("invalid JSON: %w", err))
	}
	if plan.Exercises == nil {
		plan.Exercises = []Exercise{}
	}
	return Result{Plan: plan, Source: SourceModel}
}

func locateJSON(s string) (string, error) {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < 0 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

func extractionFailed(err error) Result {
	return Result{Plan: ExtractionFailedPlan(err), Source: SourceExtraction, Err: err}
}
