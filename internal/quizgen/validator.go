package quizgen

import (
	"fmt"
	"strings"
)

// Spec is what a document is validated against.
type Spec struct {
	Skill      string
	Difficulty Difficulty
	Count      int
	Preset     Preset
}

// Result holds the questions that passed validation and any repairs made
// on the way.
type Result struct {
	Questions []Question
	Warnings  []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validator checks a parsed document and builds validated questions.
// Implementations are safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages and logs.
	Name() string

	// Validate returns the validated questions, or an error describing
	// the first defect that could not be repaired.
	Validate(doc *Document, spec Spec) (*Result, error)
}

// NewValidator returns the validator for tier.
func NewValidator(tier Tier, timers *TimerDeriver) Validator {
	if tier == TierStrict {
		return &StrictValidator{timers: timers}
	}
	return &LenientValidator{timers: timers}
}

// ResolveIndex is the method reported for an explicit, in-range index.
const ResolveIndex ResolveMethod = "index"

// resolveCandidate resolves the correct option for c: an explicit index
// in range wins, then the stated answer.
func resolveCandidate(f *CandidateFields, options []string) (Resolution, bool) {
	if f.AnswerIndex != nil && *f.AnswerIndex >= 0 && *f.AnswerIndex < len(options) {
		return Resolution{Index: *f.AnswerIndex, Method: ResolveIndex}, true
	}
	return ResolveAnswer(f.StatedAnswer, options)
}

// cleanOptions trims options and reports the first structural defect.
func cleanOptions(opts []string) ([]string, string) {
	if opts == nil {
		return nil, "missing options"
	}
	if len(opts) != 4 {
		return nil, fmt.Sprintf("expected 4 options, got %d", len(opts))
	}
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = strings.TrimSpace(o)
		if out[i] == "" {
			return nil, fmt.Sprintf("option %c is empty", 'A'+i)
		}
	}
	return out, ""
}

// duplicateOption returns the first option repeated (case-insensitively),
// or "".
func duplicateOption(opts []string) string {
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		k := strings.ToLower(o)
		if seen[k] {
			return o
		}
		seen[k] = true
	}
	return ""
}
