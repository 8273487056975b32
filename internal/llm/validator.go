package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mythicalprogrammer/exRPG/internal/llm/schemas"
	"github.com/mythicalprogrammer/exRPG/internal/workout"
	"github.com/xeipuuv/gojsonschema"
)

func ValidateRequestJSON(b []byte) error {
	loader := gojsonschema.NewBytesLoader(b)
	schemaLoader := gojsonschema.NewStringLoader(WorkoutRequestSchema)
	result, err := gojsonschema.Validate(schemaLoader, loader)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("request json invalid: %s", collect(result.Errors()))
	}
	return nil
}

// DecodeRequest validates a request body and maps it onto the domain type.
func DecodeRequest(b []byte) (workout.WorkoutRequest, error) {
	if err := ValidateRequestJSON(b); err != nil {
		return workout.WorkoutRequest{}, err
	}
	var in schemas.WorkoutRequestV1Json
	if err := json.Unmarshal(b, &in); err != nil {
		return workout.WorkoutRequest{}, err
	}
	req := workout.WorkoutRequest{Name: in.Name}
	if in.Prompt != nil {
		req.Prompt = *in.Prompt
	}
	return req, nil
}

func collect(errs []gojsonschema.ResultError) string {
	var buf bytes.Buffer
	for _, e := range errs {
		buf.WriteString(e.String())
		buf.WriteByte(';')
	}
	return buf.String()
}
