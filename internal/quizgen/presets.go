package quizgen

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Mode names a generation preset.
type Mode string

const (
	ModeLegacy     Mode = "legacy"
	ModeAssessment Mode = "assessment"
	ModeScenario   Mode = "scenario"
	ModeStrict     Mode = "strict"
)

// Tier selects the validator.
type Tier string

const (
	TierLenient Tier = "lenient"
	TierStrict  Tier = "strict"
)

// Shape is the JSON layout the prompt asks for.
type Shape string

const (
	// ShapeLegacy is question + options + correctAnswerIndex.
	ShapeLegacy Shape = "legacy"
	// ShapeScenario is question_type + scenario + question + time limit +
	// correct_answer + explanation.
	ShapeScenario Shape = "scenario"
)

// Preset bundles everything that differs between generation modes.
type Preset struct {
	Mode  Mode
	Tier  Tier
	Shape Shape

	// FixedCount, when non-zero, is the only accepted question count.
	FixedCount int

	// PassCriteria is attached to the quiz and, for strict verification,
	// must be echoed by the model.
	PassCriteria *PassCriteria

	// DeriveTimers replaces model-supplied time limits with derived ones.
	// When false the model's limits are kept and band-checked.
	DeriveTimers bool

	// CodeFocus asks for code snippets and expected output on technical
	// skills, with a per-difficulty focus list.
	CodeFocus bool

	TTL         time.Duration
	MaxAttempts int
	Temperature float64
	MaxTokens   int
}

// Purpose is the LLM event label for this preset.
func (p Preset) Purpose() string {
	return "quiz-" + string(p.Mode)
}

var presets = map[Mode]Preset{
	ModeLegacy: {
		Mode:         ModeLegacy,
		Tier:         TierLenient,
		Shape:        ShapeLegacy,
		DeriveTimers: true,
		TTL:          5 * time.Minute,
		MaxAttempts:  2,
		Temperature:  0.4,
		MaxTokens:    4096,
	},
	ModeAssessment: {
		Mode:         ModeAssessment,
		Tier:         TierLenient,
		Shape:        ShapeLegacy,
		DeriveTimers: true,
		CodeFocus:    true,
		TTL:          10 * time.Minute,
		MaxAttempts:  2,
		Temperature:  0.3,
		MaxTokens:    6144,
	},
	ModeScenario: {
		Mode:         ModeScenario,
		Tier:         TierStrict,
		Shape:        ShapeScenario,
		FixedCount:   10,
		DeriveTimers: true,
		TTL:          10 * time.Minute,
		MaxAttempts:  3,
		Temperature:  0.3,
		MaxTokens:    6144,
	},
	ModeStrict: {
		Mode:         ModeStrict,
		Tier:         TierStrict,
		Shape:        ShapeScenario,
		FixedCount:   10,
		PassCriteria: &VerificationPassCriteria,
		TTL:          10 * time.Minute,
		MaxAttempts:  3,
		Temperature:  0.3,
		MaxTokens:    6144,
	},
}

var modeAliases = map[string]Mode{
	"":                    ModeLegacy,
	"legacy":              ModeLegacy,
	"assessment":          ModeAssessment,
	"scenario":            ModeScenario,
	"optimized":           ModeScenario,
	"strict":              ModeStrict,
	"verification":        ModeStrict,
	"strict verification": ModeStrict,
}

// LookupPreset resolves a mode name or alias, case-insensitively.
func LookupPreset(mode string) (Preset, error) {
	key := strings.Join(strings.Fields(strings.ToLower(mode)), " ")
	m, ok := modeAliases[key]
	if !ok {
		return Preset{}, fmt.Errorf("unknown mode %q (want one of %s)", mode, strings.Join(ModeNames(), ", "))
	}
	return presets[m], nil
}

// ModeNames returns the canonical mode names, sorted.
func ModeNames() []string {
	names := make([]string, 0, len(presets))
	for m := range presets {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return names
}

// Verification reports whether quizzes from p carry pass criteria.
func (p Preset) Verification() bool {
	return p.PassCriteria != nil
}
