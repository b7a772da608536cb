package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionsSchema constrains the questions payload before the session
// trusts it. The quiz runs unattended against a deadline, so a
// malformed set is rejected up front instead of failing mid-quiz.
var questionsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"order":    map[string]any{"type": "integer", "minimum": 0},
					"question": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items":    map[string]any{"type": "string"},
					},
					"marks":           map[string]any{"type": "integer", "minimum": 0},
					"multiple_choice": map[string]any{"type": "boolean"},
				},
				"required": []any{"order", "question", "options"},
			},
		},
		"durationSeconds": map[string]any{"type": "integer", "minimum": 0},
	},
	"required": []any{"questions"},
}

var (
	compiledQuestionsSchema *jsonschema.Schema
	compileQuestionsOnce    sync.Once
	compileQuestionsErr     error
)

// validateQuestionsPayload checks raw against questionsSchema.
func validateQuestionsPayload(raw json.RawMessage) error {
	compileQuestionsOnce.Do(func() {
		defBytes, err := json.Marshal(questionsSchema)
		if err != nil {
			compileQuestionsErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileQuestionsErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://questions.json"
		if err := c.AddResource(url, def); err != nil {
			compileQuestionsErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledQuestionsSchema, compileQuestionsErr = c.Compile(url)
	})
	if compileQuestionsErr != nil {
		return compileQuestionsErr
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledQuestionsSchema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
