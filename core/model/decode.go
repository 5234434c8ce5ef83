package model

import (
	"encoding/json"
	"fmt"
)

// DecodeJobInput parses a JSON job submission. Every field must be present
// and typed correctly; the result is also validated. All failures are
// *ValidationError.
func DecodeJobInput(data []byte) (JobInput, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return JobInput{}, &ValidationError{Field: "body", Reason: "must be a JSON object"}
	}
	var in JobInput
	fields := []struct {
		name string
		dst  any
		kind string
	}{
		{"name", &in.Name, "a string"},
		{"processingTime", &in.ProcessingTime, "a number"},
		{"profit", &in.Profit, "a number"},
		{"deadline", &in.Deadline, "a number"},
		{"flexibility", &in.Flexibility, "a string"},
	}
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok || string(v) == "null" {
			return JobInput{}, &ValidationError{Field: f.name, Reason: "is required"}
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return JobInput{}, &ValidationError{Field: f.name, Reason: fmt.Sprintf("must be %s", f.kind)}
		}
	}
	return in, in.Validate()
}
