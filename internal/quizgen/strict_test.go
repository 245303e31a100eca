package quizgen

import (
	"errors"
	"strings"
	"testing"
)

func TestStrict_Valid(t *testing.T) {
	v := NewValidator(TierStrict, seededTimers())
	res, err := v.Validate(parseFixture(t, strictDoc("SQL", Beginner, nil)), strictSpec("SQL", Beginner))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(res.Questions) != 10 {
		t.Fatalf("got %d questions", len(res.Questions))
	}
	seen := map[QuestionType]bool{}
	for i, q := range res.Questions {
		if q.CorrectAnswerIndex != 1 {
			t.Errorf("question %d answer = %d, want 1", i+1, q.CorrectAnswerIndex)
		}
		if q.TimeLimitSeconds != 45 {
			t.Errorf("question %d timer = %d, want the model's 45", i+1, q.TimeLimitSeconds)
		}
		if q.Scenario == "" || q.Explanation == "" {
			t.Errorf("question %d lost fields: %+v", i+1, q)
		}
		seen[q.QuestionType] = true
	}
	if len(seen) != len(MandatoryTypes) {
		t.Errorf("covered %d types", len(seen))
	}
}

func TestStrict_AliasTypeNormalized(t *testing.T) {
	doc := strictDoc("SQL", Beginner, func(i int, q map[string]any) {
		if i == 9 {
			q["question_type"] = "Trade-off / Decision Analysis"
		}
	})
	res, err := NewValidator(TierStrict, seededTimers()).Validate(parseFixture(t, doc), strictSpec("SQL", Beginner))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := res.Questions[9].QuestionType; got != TypeTradeOff {
		t.Errorf("type = %q, want %q", got, TypeTradeOff)
	}
}

func TestStrict_DerivesTimersForScenarioMode(t *testing.T) {
	p, _ := LookupPreset("scenario")
	spec := Spec{Skill: "SQL", Difficulty: Expert, Count: 10, Preset: p}
	doc := strictDoc("SQL", Expert, func(_ int, q map[string]any) { q["time_limit_seconds"] = 30 })
	delete(doc, "pass_criteria")
	delete(doc, "verification_mode")

	res, err := NewValidator(TierStrict, seededTimers()).Validate(parseFixture(t, doc), spec)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for i, q := range res.Questions {
		if !InBand(Expert, q.TimeLimitSeconds) {
			t.Errorf("question %d timer %d not derived into band", i+1, q.TimeLimitSeconds)
		}
	}
}

func TestStrict_EditDistanceWarns(t *testing.T) {
	doc := strictDoc("SQL", Beginner, func(i int, q map[string]any) {
		if i == 0 {
			q["correct_answer"] = "Aply the targetd fix for case 1"
		}
	})
	res, err := NewValidator(TierStrict, seededTimers()).Validate(parseFixture(t, doc), strictSpec("SQL", Beginner))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Questions[0].CorrectAnswerIndex != 1 {
		t.Errorf("answer = %d", res.Questions[0].CorrectAnswerIndex)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "edit distance") {
		t.Errorf("warnings = %q", res.Warnings)
	}
}

func TestStrict_Violations(t *testing.T) {
	tests := []struct {
		name     string
		doc      func() map[string]any
		question int
		want     string
	}{
		{
			name: "duplicate type",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 3 {
						q["question_type"] = string(TypeConceptApplication)
					}
				})
			},
			question: 4,
			want:     "duplicate question_type",
		},
		{
			name: "unknown type",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 2 {
						q["question_type"] = "Trivia"
					}
				})
			},
			question: 3,
			want:     "not a mandatory type",
		},
		{
			name: "three options",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 0 {
						q["options"] = []any{"a", "b", "c"}
					}
				})
			},
			want: "schema",
		},
		{
			name: "short scenario",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 5 {
						q["scenario"] = "Too short."
					}
				})
			},
			want: "schema",
		},
		{
			name: "empty option",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 1 {
						q["options"] = []any{"first choice", "   ", "third choice", "fourth choice"}
					}
				})
			},
			question: 2,
			want:     "option B is empty",
		},
		{
			name: "duplicate options",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 1 {
						q["options"] = []any{"Same", "same", "other", "another"}
					}
				})
			},
			question: 2,
			want:     "duplicate option",
		},
		{
			name: "unresolvable answer",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 7 {
						q["correct_answer"] = "Use a spreadsheet"
					}
				})
			},
			question: 8,
			want:     "not found in options",
		},
		{
			name: "timer outside band",
			doc: func() map[string]any {
				return strictDoc("SQL", Beginner, func(i int, q map[string]any) {
					if i == 4 {
						q["time_limit_seconds"] = 200
					}
				})
			},
			question: 5,
			want:     "outside beginner band",
		},
		{
			name: "missing pass criteria",
			doc: func() map[string]any {
				d := strictDoc("SQL", Beginner, nil)
				delete(d, "pass_criteria")
				return d
			},
			want: "missing pass_criteria",
		},
		{
			name: "wrong pass criteria",
			doc: func() map[string]any {
				d := strictDoc("SQL", Beginner, nil)
				d["pass_criteria"] = map[string]any{"minimum_score_percent": 70, "minimum_correct_answers": 7, "timeouts_allowed": 2}
				return d
			},
			want: "pass_criteria must be",
		},
		{
			name: "lenient verification mode",
			doc: func() map[string]any {
				d := strictDoc("SQL", Beginner, nil)
				d["verification_mode"] = "relaxed"
				return d
			},
			want: "verification_mode must be strict",
		},
		{
			name: "skill mismatch",
			doc: func() map[string]any {
				d := strictDoc("SQL", Beginner, nil)
				d["skill"] = "Cooking"
				return d
			},
			want: "skill mismatch",
		},
		{
			name: "difficulty mismatch",
			doc: func() map[string]any {
				d := strictDoc("SQL", Beginner, nil)
				d["difficulty"] = "expert"
				return d
			},
			want: "difficulty mismatch",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewValidator(TierStrict, seededTimers()).Validate(parseFixture(t, tt.doc()), strictSpec("SQL", Beginner))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Validator != "strict" {
				t.Errorf("validator = %q", ve.Validator)
			}
			if ve.Question != tt.question {
				t.Errorf("question = %d, want %d (%v)", ve.Question, tt.question, err)
			}
			if !strings.Contains(ve.Message, tt.want) {
				t.Errorf("message = %q, want it to contain %q", ve.Message, tt.want)
			}
		})
	}
}

func TestStrict_CountMismatch(t *testing.T) {
	doc := strictDoc("SQL", Beginner, nil)
	doc["questions"] = doc["questions"].([]any)[:9]
	_, err := NewValidator(TierStrict, seededTimers()).Validate(parseFixture(t, doc), strictSpec("SQL", Beginner))
	var cm *CountMismatchError
	if !errors.As(err, &cm) || cm.Want != 10 || cm.Got != 9 {
		t.Fatalf("err = %v, want CountMismatchError{10,9}", err)
	}
}

func TestStrict_LegacyItemRejected(t *testing.T) {
	doc := strictDoc("SQL", Beginner, func(i int, q map[string]any) {
		if i == 0 {
			delete(q, "scenario")
		}
	})
	_, err := NewValidator(TierStrict, seededTimers()).Validate(parseFixture(t, doc), strictSpec("SQL", Beginner))
	if err == nil {
		t.Fatal("question without a scenario accepted")
	}
}

func TestOptionsObject_LenientOnly(t *testing.T) {
	toObject := func(q map[string]any) {
		opts := q["options"].([]any)
		q["options"] = map[string]any{"A": opts[0], "B": opts[1], "C": opts[2], "D": opts[3]}
	}

	strict := strictDoc("SQL", Beginner, func(_ int, q map[string]any) { toObject(q) })
	_, err := NewValidator(TierStrict, seededTimers()).Validate(parseFixture(t, strict), strictSpec("SQL", Beginner))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("strict err = %v, want *ValidationError", err)
	}

	lenient := legacyDoc(2)
	for _, q := range lenient["questions"].([]any) {
		toObject(q.(map[string]any))
	}
	res, err := NewValidator(TierLenient, seededTimers()).Validate(parseFixture(t, lenient), legacySpec(2))
	if err != nil {
		t.Fatalf("lenient Validate: %v", err)
	}
	if q := res.Questions[1]; q.Placeholder || q.Options[3] != "fourth 2" || q.CorrectAnswerIndex != 2 {
		t.Errorf("object options not used: %+v", q)
	}
}
