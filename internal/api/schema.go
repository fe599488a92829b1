package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// assessmentSchema validates the shape of a fetched assessment document
// before a session may start. Question text must be present under one of the
// two key spellings the platform uses; everything else is optional and
// normalized during decoding.
var assessmentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":             map[string]any{"type": "integer"},
		"name":           map[string]any{"type": "string"},
		"isPracticeExam": map[string]any{"type": "boolean"},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{"type": "integer"},
				},
				"required": []any{"id"},
				"anyOf": []any{
					map[string]any{"required": []any{"public_question"}},
					map[string]any{"required": []any{"publicQuestion"}},
				},
			},
		},
	},
	"required": []any{"id", "questions"},
}

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

// validateAssessment checks raw JSON against the assessment schema.
func validateAssessment(raw []byte) error {
	compileSchemaOnce.Do(func() {
		compiledSchema, compileSchemaError = compileAssessmentSchema()
	})
	if compileSchemaError != nil {
		return fmt.Errorf("compile assessment schema: %w", compileSchemaError)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := compiledSchema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compileAssessmentSchema() (*jsonschema.Schema, error) {
	// The jsonschema library expects a parsed JSON value (any), not raw
	// bytes. Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(assessmentSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://assessment.json"
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
}
