package workout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// UnmarshalJSON accepts the loose typing models produce: sets as an integer,
// an integral float or a numeric string, and reps as a string or a number.
// Values that cannot be read as either are still errors.
func (e *Exercise) UnmarshalJSON(b []byte) error {
	type plain Exercise
	var raw struct {
		plain
		Sets json.RawMessage `json:"sets"`
		Reps json.RawMessage `json:"reps"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sets, err := decodeSets(raw.Sets)
	if err != nil {
		return err
	}
	reps, err := decodeReps(raw.Reps)
	if err != nil {
		return err
	}
	*e = Exercise(raw.plain)
	e.Sets = sets
	e.Reps = reps
	return nil
}

func isNull(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func decodeSets(b json.RawMessage) (int, error) {
	if isNull(b) {
		return 0, nil
	}
	// json.Number also takes a quoted number such as "3".
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return 0, fmt.Errorf("sets: %s is not a number", b)
	}
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("sets: %s is not a whole number", b)
	}
	return int(f), nil
}

func decodeReps(b json.RawMessage) (string, error) {
	if isNull(b) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", fmt.Errorf("reps: %s is neither text nor a number", b)
	}
	return n.String(), nil
}
