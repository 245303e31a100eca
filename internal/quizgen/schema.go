package quizgen

import "github.com/abhisek/skillcheck/internal/llm"

// Minimum text lengths enforced by the strict tier, in characters.
const (
	MinScenarioLength    = 50
	MinQuestionLength    = 20
	MinExplanationLength = 10
)

// ScenarioQuizSchema is the envelope every strict-tier document must match
// (after keys are converted to snake_case). Policy checks that a schema
// cannot express, such as type coverage and answer resolution, run after it.
var ScenarioQuizSchema = &llm.Schema{
	Name:        "scenario-quiz",
	Description: "A scenario-based multiple-choice skill verification quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"skill":             map[string]any{"type": "string"},
			"difficulty":        map[string]any{"type": "string"},
			"verification_mode": map[string]any{"type": "string"},
			"pass_criteria": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"minimum_score_percent":   map[string]any{"type": "number"},
					"minimum_correct_answers": map[string]any{"type": "integer"},
					"timeouts_allowed":        map[string]any{"type": "integer"},
				},
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    scenarioQuestionSchema,
			},
		},
		"required": []any{"questions"},
	},
}

var scenarioQuestionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question_type": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "One of the ten mandatory question types",
		},
		"scenario": map[string]any{
			"type":      "string",
			"minLength": MinScenarioLength,
		},
		"question": map[string]any{
			"type":      "string",
			"minLength": MinQuestionLength,
		},
		"time_limit_seconds": map[string]any{
			"type":    "integer",
			"minimum": MinTimeLimit,
			"maximum": MaxTimeLimit,
		},
		"options": map[string]any{
			"type":     "array",
			"minItems": 4,
			"maxItems": 4,
			"items":    map[string]any{"type": "string"},
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": `"Option A" through "Option D", or the exact option text`,
		},
		"correct_answer_index": map[string]any{
			"type":    "integer",
			"minimum": 0,
			"maximum": 3,
		},
		"explanation": map[string]any{
			"type":      "string",
			"minLength": MinExplanationLength,
		},
	},
	"required": []any{"question_type", "scenario", "question", "time_limit_seconds", "options", "explanation"},
	"anyOf": []any{
		map[string]any{"required": []any{"correct_answer"}},
		map[string]any{"required": []any{"correct_answer_index"}},
	},
}
