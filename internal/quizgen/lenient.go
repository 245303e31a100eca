package quizgen

import (
	"fmt"
	"strings"
)

// placeholderOptions are used for questions the lenient tier replaces.
var placeholderOptions = []string{"Option A", "Option B", "Option C", "Option D"}

// LenientValidator repairs what it can per question and substitutes a
// placeholder for anything it cannot. A single bad question never fails
// the batch; only a short document does.
type LenientValidator struct {
	timers *TimerDeriver
}

func (v *LenientValidator) Name() string { return "lenient" }

func (v *LenientValidator) Validate(doc *Document, spec Spec) (*Result, error) {
	items := doc.Questions
	if len(items) < spec.Count {
		return nil, &CountMismatchError{Want: spec.Count, Got: len(items)}
	}

	res := &Result{Questions: make([]Question, 0, spec.Count)}
	if len(items) > spec.Count {
		res.warnf("model returned %d questions, kept the first %d", len(items), spec.Count)
		items = items[:spec.Count]
	}

	for i, c := range items {
		q, defect := v.question(i, c, spec, res)
		if defect != "" {
			res.warnf("question %d: %s; replaced with a placeholder", i+1, defect)
			q = v.placeholder(i, spec)
		}
		res.Questions = append(res.Questions, q)
	}
	return res, nil
}

// question converts one candidate. A non-empty defect means it must be
// replaced.
func (v *LenientValidator) question(i int, c Candidate, spec Spec, res *Result) (Question, string) {
	f := c.Fields()
	if f.Defect != "" {
		return Question{}, f.Defect
	}
	if strings.TrimSpace(f.Question) == "" {
		return Question{}, "empty question text"
	}
	opts, defect := cleanOptions(f.Options)
	if defect != "" {
		return Question{}, defect
	}
	if dup := duplicateOption(opts); dup != "" {
		res.warnf("question %d: duplicate option %q", i+1, dup)
	}

	answer := 0
	if r, ok := resolveCandidate(f, opts); ok {
		answer = r.Index
	} else {
		res.warnf("question %d: could not resolve correct answer %s, defaulting to option A", i+1, describeAnswer(f))
	}

	return c.toQuestion(opts, answer, v.timeLimit(i, f, spec, res)), ""
}

func (v *LenientValidator) timeLimit(i int, f *CandidateFields, spec Spec, res *Result) int {
	qt := QuestionType(f.QuestionType)
	if spec.Preset.DeriveTimers || f.TimeLimit == nil {
		return v.timers.Derive(spec.Difficulty, qt)
	}
	if !InBand(spec.Difficulty, *f.TimeLimit) {
		res.warnf("question %d: time limit %ds outside the %s band, re-derived", i+1, *f.TimeLimit, spec.Difficulty)
		return v.timers.Derive(spec.Difficulty, qt)
	}
	return *f.TimeLimit
}

func (v *LenientValidator) placeholder(i int, spec Spec) Question {
	return Question{
		Question:           fmt.Sprintf("Question %d: What is the correct approach for this scenario?", i+1),
		Options:            append([]string(nil), placeholderOptions...),
		CorrectAnswerIndex: 0,
		TimeLimitSeconds:   v.timers.Derive(spec.Difficulty, ""),
		Placeholder:        true,
	}
}

func describeAnswer(f *CandidateFields) string {
	switch {
	case f.StatedAnswer != "":
		return fmt.Sprintf("%q", f.StatedAnswer)
	case f.AnswerIndex != nil:
		return fmt.Sprintf("index %d", *f.AnswerIndex)
	}
	return "(none given)"
}
