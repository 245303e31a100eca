package quizgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/skillcheck/internal/llm"
)

// StrictValidator rejects the whole document on the first violation.
// Certification quizzes never carry placeholders.
type StrictValidator struct {
	timers *TimerDeriver
}

func (v *StrictValidator) Name() string { return "strict" }

func (v *StrictValidator) fail(question int, format string, args ...any) error {
	return &ValidationError{Validator: v.Name(), Question: question, Message: fmt.Sprintf(format, args...)}
}

func (v *StrictValidator) Validate(doc *Document, spec Spec) (*Result, error) {
	if err := llm.ValidateJSON(ScenarioQuizSchema, doc.Raw); err != nil {
		return nil, v.fail(0, "schema: %s", oneLine(err.Error()))
	}
	if len(doc.Questions) != spec.Count {
		return nil, &CountMismatchError{Want: spec.Count, Got: len(doc.Questions)}
	}
	if err := v.checkEnvelope(doc, spec); err != nil {
		return nil, err
	}

	res := &Result{Questions: make([]Question, 0, spec.Count)}
	seen := make(map[QuestionType]int, len(MandatoryTypes))
	for i, c := range doc.Questions {
		n := i + 1
		sc, ok := c.(*ScenarioCandidate)
		if !ok {
			return nil, v.fail(n, "not a scenario question")
		}
		f := sc.Fields()

		qt, ok := MatchQuestionType(f.QuestionType)
		if !ok {
			return nil, v.fail(n, "question_type %q is not a mandatory type", f.QuestionType)
		}
		if prev, dup := seen[qt]; dup {
			return nil, v.fail(n, "duplicate question_type %q (also question %d)", qt, prev)
		}
		seen[qt] = n

		opts, defect := cleanOptions(f.Options)
		if defect != "" {
			return nil, v.fail(n, "%s", defect)
		}
		if dup := duplicateOption(opts); dup != "" {
			return nil, v.fail(n, "duplicate option %q", dup)
		}

		r, ok := resolveCandidate(f, opts)
		if !ok {
			return nil, v.fail(n, "correct answer %s not found in options", describeAnswer(f))
		}
		if r.Method == ResolveEditDistance {
			res.warnf("question %d: correct answer %q matched option %c by edit distance", n, f.StatedAnswer, 'A'+r.Index)
		}

		limit, err := v.timeLimit(n, qt, f, spec)
		if err != nil {
			return nil, err
		}

		q := sc.toQuestion(opts, r.Index, limit)
		q.QuestionType = qt
		res.Questions = append(res.Questions, q)
	}

	if len(seen) != len(MandatoryTypes) {
		var missing []string
		for _, m := range MandatoryTypes {
			if _, ok := seen[m]; !ok {
				missing = append(missing, string(m))
			}
		}
		return nil, v.fail(0, "missing mandatory question types: %s", strings.Join(missing, ", "))
	}
	return res, nil
}

// checkEnvelope compares the top-level fields with the request. Fields the
// model left out are not an error; fields that disagree are.
func (v *StrictValidator) checkEnvelope(doc *Document, spec Spec) error {
	if doc.Skill != "" && !strings.EqualFold(strings.TrimSpace(doc.Skill), strings.TrimSpace(spec.Skill)) {
		return v.fail(0, "skill mismatch: got %q, want %q", doc.Skill, spec.Skill)
	}
	if doc.Difficulty != "" && !strings.EqualFold(strings.TrimSpace(doc.Difficulty), string(spec.Difficulty)) {
		return v.fail(0, "difficulty mismatch: got %q, want %q", doc.Difficulty, spec.Difficulty)
	}

	want := spec.Preset.PassCriteria
	if want == nil {
		return nil
	}
	if doc.VerificationMode != "" && !strings.EqualFold(strings.TrimSpace(doc.VerificationMode), "strict") {
		return v.fail(0, "verification_mode must be strict, got %q", doc.VerificationMode)
	}
	got := doc.PassCriteria
	if got == nil {
		return v.fail(0, "missing pass_criteria")
	}
	if math.Abs(got.MinScorePercent-want.MinScorePercent) > 1e-9 ||
		got.MinCorrectAnswers != want.MinCorrectAnswers ||
		got.TimeoutsAllowed != want.TimeoutsAllowed {
		return v.fail(0, "pass_criteria must be %.0f%% score, %d correct answers, %d timeout(s); got %.0f%%, %d, %d",
			want.MinScorePercent, want.MinCorrectAnswers, want.TimeoutsAllowed,
			got.MinScorePercent, got.MinCorrectAnswers, got.TimeoutsAllowed)
	}
	return nil
}

func (v *StrictValidator) timeLimit(n int, qt QuestionType, f *CandidateFields, spec Spec) (int, error) {
	if spec.Preset.DeriveTimers {
		return v.timers.Derive(spec.Difficulty, qt), nil
	}
	if f.TimeLimit == nil {
		return 0, v.fail(n, "missing time_limit_seconds")
	}
	if !InBand(spec.Difficulty, *f.TimeLimit) {
		lo, hi := Band(spec.Difficulty)
		return 0, v.fail(n, "time_limit_seconds %d outside %s band [%d,%d]", *f.TimeLimit, spec.Difficulty, lo, hi)
	}
	return *f.TimeLimit, nil
}

// oneLine folds a multi-line schema error into a single line.
func oneLine(s string) string {
	var parts []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "- ")); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "; ")
}
