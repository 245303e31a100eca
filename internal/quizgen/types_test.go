package quizgen

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("  Expert ")
	if err != nil || d != Expert {
		t.Fatalf("ParseDifficulty = %q, %v", d, err)
	}
	if _, err := ParseDifficulty("guru"); err == nil {
		t.Fatal("expected error for unknown difficulty")
	}
}

func TestMatchQuestionType(t *testing.T) {
	tests := []struct {
		label string
		want  QuestionType
		ok    bool
	}{
		{"Concept Application", TypeConceptApplication, true},
		{"concept application", TypeConceptApplication, true},
		{"Debugging/Error Identification", TypeDebugging, true},
		{"Trade-off / Decision Analysis", TypeTradeOff, true},
		{"Security & Risk", TypeSecurity, true},
		{"Output Prediction", TypeDataInterpretation, true},
		{"Edge-Case Handling", TypeEdgeCase, true},
		{"Trivia", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchQuestionType(tt.label)
		if ok != tt.ok || got != tt.want {
			t.Errorf("MatchQuestionType(%q) = %q, %v; want %q, %v", tt.label, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{"ok legacy", Request{Skill: "SQL", Difficulty: Beginner, QuestionCount: 5}, ""},
		{"ok strict", Request{Skill: "SQL", Difficulty: Expert, QuestionCount: 10, Mode: "strict"}, ""},
		{"ok alias", Request{Skill: "SQL", Difficulty: Expert, QuestionCount: 10, Mode: "Optimized"}, ""},
		{"blank skill", Request{Skill: "  ", Difficulty: Beginner, QuestionCount: 5}, "skill is required"},
		{"bad difficulty", Request{Skill: "SQL", Difficulty: "guru", QuestionCount: 5}, "unknown difficulty"},
		{"zero count", Request{Skill: "SQL", Difficulty: Beginner}, "out of range"},
		{"too many", Request{Skill: "SQL", Difficulty: Beginner, QuestionCount: 51}, "out of range"},
		{"strict needs ten", Request{Skill: "SQL", Difficulty: Beginner, QuestionCount: 5, Mode: "strict"}, "exactly 10"},
		{"unknown mode", Request{Skill: "SQL", Difficulty: Beginner, QuestionCount: 5, Mode: "turbo"}, "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("error %v does not wrap ErrInvalidRequest", err)
			}
		})
	}
}

func TestRequestCacheKey(t *testing.T) {
	a := Request{Skill: "  SQL ", Difficulty: Beginner, QuestionCount: 10, Mode: "strict"}
	b := Request{Skill: "sql", Difficulty: Beginner, QuestionCount: 10, Mode: "Verification"}
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("keys differ: %q vs %q", a.CacheKey(), b.CacheKey())
	}

	c := Request{Skill: "sql", Difficulty: Beginner, QuestionCount: 10, Mode: "scenario"}
	if a.CacheKey() == c.CacheKey() {
		t.Error("different modes must not share a key")
	}
	d := Request{Skill: "sql", Difficulty: Beginner, QuestionCount: 10}
	if d.CacheKey() != (Request{Skill: "SQL", Difficulty: Beginner, QuestionCount: 10, Mode: "legacy"}).CacheKey() {
		t.Error("empty mode should key as legacy")
	}
}

func TestLookupPreset(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeLegacy},
		{"Assessment", ModeAssessment},
		{"optimized", ModeScenario},
		{"  Strict   Verification ", ModeStrict},
	}
	for _, tt := range tests {
		p, err := LookupPreset(tt.in)
		if err != nil || p.Mode != tt.want {
			t.Errorf("LookupPreset(%q) = %q, %v; want %q", tt.in, p.Mode, err, tt.want)
		}
	}

	strict, _ := LookupPreset("strict")
	if !strict.Verification() || strict.FixedCount != 10 || strict.Tier != TierStrict {
		t.Errorf("strict preset = %+v", strict)
	}
	if *strict.PassCriteria != VerificationPassCriteria {
		t.Errorf("strict pass criteria = %+v", *strict.PassCriteria)
	}
	if got := strict.Purpose(); got != "quiz-strict" {
		t.Errorf("Purpose = %q", got)
	}
}

func TestQuizHelpers(t *testing.T) {
	q := &Quiz{Questions: []Question{
		{Scenario: "A table has no index.", Question: "What do you add?", Options: []string{"a", "b", "c", "d"}, CorrectAnswerIndex: 1, TimeLimitSeconds: 45},
		{Question: "Plain question?", Options: []string{"a", "b", "c", "d"}, TimeLimitSeconds: 60},
	}}
	if got := q.TotalTimeSeconds(); got != 105 {
		t.Errorf("TotalTimeSeconds = %d", got)
	}
	legacy := q.Legacy()
	if legacy[0].Question != "A table has no index.\n\nWhat do you add?" {
		t.Errorf("legacy question = %q", legacy[0].Question)
	}
	if legacy[1].Question != "Plain question?" || legacy[0].CorrectAnswerIndex != 1 {
		t.Errorf("legacy = %+v", legacy)
	}
	if q.Questions[0].CorrectOption() != "b" {
		t.Errorf("CorrectOption = %q", q.Questions[0].CorrectOption())
	}
}
