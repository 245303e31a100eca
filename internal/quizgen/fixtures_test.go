package quizgen

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/abhisek/skillcheck/internal/normalize"
)

func seededTimers() *TimerDeriver {
	return NewTimerDeriver(rand.New(rand.NewPCG(1, 2)))
}

// scenarioQuestion returns a well-formed scenario item for type i whose
// correct answer is option B.
func scenarioQuestion(i int, skill string, limit int) map[string]any {
	qt := MandatoryTypes[i%len(MandatoryTypes)]
	return map[string]any{
		"question_type":      string(qt),
		"scenario":           fmt.Sprintf("Your team runs a reporting service backed by %s and case %d has just landed on your desk.", skill, i+1),
		"question":           fmt.Sprintf("Which action best resolves case %d for this service?", i+1),
		"time_limit_seconds": limit,
		"options": []any{
			fmt.Sprintf("Ignore the problem in case %d", i+1),
			fmt.Sprintf("Apply the targeted fix for case %d", i+1),
			fmt.Sprintf("Rewrite the whole system for case %d", i+1),
			fmt.Sprintf("Escalate case %d without investigating", i+1),
		},
		"correct_answer": "Option B",
		"explanation":    "The targeted fix addresses the root cause with the least risk.",
	}
}

// strictDoc returns a valid strict verification document. mutate, when
// non-nil, may edit each question before it is added.
func strictDoc(skill string, diff Difficulty, mutate func(i int, q map[string]any)) map[string]any {
	lo, _ := Band(diff)
	qs := make([]any, len(MandatoryTypes))
	for i := range MandatoryTypes {
		q := scenarioQuestion(i, skill, lo)
		if mutate != nil {
			mutate(i, q)
		}
		qs[i] = q
	}
	return map[string]any{
		"skill":             skill,
		"difficulty":        string(diff),
		"verification_mode": "strict",
		"pass_criteria": map[string]any{
			"minimum_score_percent":   80,
			"minimum_correct_answers": 8,
			"timeouts_allowed":        1,
		},
		"questions": qs,
	}
}

// legacyQuestion returns a legacy item whose correct answer is index 2.
func legacyQuestion(i int) map[string]any {
	return map[string]any{
		"question": fmt.Sprintf("Legacy question number %d?", i+1),
		"options": []any{
			fmt.Sprintf("first %d", i+1),
			fmt.Sprintf("second %d", i+1),
			fmt.Sprintf("third %d", i+1),
			fmt.Sprintf("fourth %d", i+1),
		},
		"correctAnswerIndex": 2,
	}
}

func legacyDoc(n int) map[string]any {
	qs := make([]any, n)
	for i := range qs {
		qs[i] = legacyQuestion(i)
	}
	return map[string]any{"questions": qs}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(b)
}

// parseFixture runs a fixture through the same normalize path the engine
// uses.
func parseFixture(t *testing.T, v any) *Document {
	t.Helper()
	raw, err := normalize.Parse(mustJSON(t, v))
	if err != nil {
		t.Fatalf("normalize fixture: %v", err)
	}
	doc, err := ParseDocument(normalize.SnakeKeys(raw).(map[string]any))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func strictSpec(skill string, diff Difficulty) Spec {
	p, _ := LookupPreset("strict")
	return Spec{Skill: skill, Difficulty: diff, Count: 10, Preset: p}
}
