package quizgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/skillcheck/internal/cache"
	"github.com/abhisek/skillcheck/internal/skilldomain"
)

// Difficulty is the requested proficiency level.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

// Difficulties lists every level, easiest first.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced, Expert}

// ParseDifficulty accepts a difficulty in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q (want beginner, intermediate, advanced or expert)", s)
	}
	return d, nil
}

// Valid reports whether d is one of the four levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// QuestionType is a question category label. Strict quizzes use exactly
// the ten mandatory types; lenient quizzes may carry any label.
type QuestionType string

const (
	TypeConceptApplication QuestionType = "Concept Application"
	TypeDebugging          QuestionType = "Debugging / Error Identification"
	TypePerformance        QuestionType = "Performance Optimization"
	TypeRealWorldDecision  QuestionType = "Real-World Decision Making"
	TypeBestPractices      QuestionType = "Best Practices Selection"
	TypeEdgeCase           QuestionType = "Edge Case Handling"
	TypeSecurity           QuestionType = "Security / Risk Awareness"
	TypeDataInterpretation QuestionType = "Data Interpretation / Output Prediction"
	TypeToolSelection      QuestionType = "Tool / Feature Selection"
	TypeTradeOff           QuestionType = "Trade-off / Architecture Decision"
)

// MandatoryTypes is the set every strict quiz covers exactly once, in
// prompt order.
var MandatoryTypes = []QuestionType{
	TypeConceptApplication,
	TypeDebugging,
	TypePerformance,
	TypeRealWorldDecision,
	TypeBestPractices,
	TypeEdgeCase,
	TypeSecurity,
	TypeDataInterpretation,
	TypeToolSelection,
	TypeTradeOff,
}

// Mandatory reports whether t is one of the ten mandatory types.
func (t QuestionType) Mandatory() bool {
	for _, m := range MandatoryTypes {
		if m == t {
			return true
		}
	}
	return false
}

// typeKeywords maps a distinctive word of a label to its canonical type.
// Checked in order, so more specific words come first.
var typeKeywords = []struct {
	word string
	typ  QuestionType
}{
	{"trade", TypeTradeOff},
	{"architecture", TypeTradeOff},
	{"debug", TypeDebugging},
	{"error", TypeDebugging},
	{"performance", TypePerformance},
	{"optimi", TypePerformance},
	{"real world", TypeRealWorldDecision},
	{"decision making", TypeRealWorldDecision},
	{"best practice", TypeBestPractices},
	{"edge case", TypeEdgeCase},
	{"security", TypeSecurity},
	{"risk", TypeSecurity},
	{"output prediction", TypeDataInterpretation},
	{"data interpretation", TypeDataInterpretation},
	{"tool", TypeToolSelection},
	{"feature selection", TypeToolSelection},
	{"concept", TypeConceptApplication},
}

// MatchQuestionType maps a model-supplied label onto a mandatory type.
// Exact labels match first, then labels that differ only in case or
// punctuation, then distinctive keywords ("Trade-off / Decision Analysis"
// is the trade-off type).
func MatchQuestionType(label string) (QuestionType, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	for _, m := range MandatoryTypes {
		if string(m) == label {
			return m, true
		}
	}
	folded := foldLabel(label)
	for _, m := range MandatoryTypes {
		if foldLabel(string(m)) == folded {
			return m, true
		}
	}
	for _, kw := range typeKeywords {
		if strings.Contains(folded, kw.word) {
			return kw.typ, true
		}
	}
	return "", false
}

// foldLabel lower-cases s and turns punctuation runs into single spaces.
func foldLabel(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// PassCriteria is the pass/fail rule attached to verification quizzes.
type PassCriteria struct {
	MinScorePercent   float64 `json:"minScorePercent"`
	MinCorrectAnswers int     `json:"minCorrectAnswers"`
	TimeoutsAllowed   int     `json:"timeoutsAllowed"`
}

// VerificationPassCriteria is the fixed rule for strict verification:
// 80 %, at least 8 correct, at most one timeout.
var VerificationPassCriteria = PassCriteria{
	MinScorePercent:   80,
	MinCorrectAnswers: 8,
	TimeoutsAllowed:   1,
}

// Question is a validated question. Options always has exactly four
// distinct entries and CorrectAnswerIndex is in [0,3].
type Question struct {
	QuestionType       QuestionType `json:"questionType,omitempty"`
	Scenario           string       `json:"scenario,omitempty"`
	Question           string       `json:"question"`
	CodeSnippet        string       `json:"codeSnippet,omitempty"`
	ExpectedOutput     string       `json:"expectedOutput,omitempty"`
	TimeLimitSeconds   int          `json:"timeLimitSeconds"`
	Options            []string     `json:"options"`
	CorrectAnswerIndex int          `json:"correctAnswerIndex"`
	Explanation        string       `json:"explanation,omitempty"`
	SubSkill           string       `json:"subSkill,omitempty"`

	// Placeholder marks a question synthesized by the lenient tier in
	// place of a defective one.
	Placeholder bool `json:"placeholder,omitempty"`
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswerIndex]
}

// Prompt returns the text shown to the user: the scenario followed by the
// question when both are present.
func (q Question) Prompt() string {
	if q.Scenario == "" {
		return q.Question
	}
	return q.Scenario + "\n\n" + q.Question
}

// Quiz is a fully validated quiz. Quizzes are shared read-only once
// cached and must not be mutated by callers.
type Quiz struct {
	ID           string             `json:"id"`
	Skill        string             `json:"skill"`
	Domain       skilldomain.Domain `json:"domain"`
	Difficulty   Difficulty         `json:"difficulty"`
	Mode         Mode               `json:"mode,omitempty"`
	PassCriteria *PassCriteria      `json:"passCriteria,omitempty"`
	Questions    []Question         `json:"questions"`
	Warnings     []string           `json:"warnings,omitempty"`
	Model        string             `json:"model,omitempty"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}

// TotalTimeSeconds sums the per-question time limits.
func (q *Quiz) TotalTimeSeconds() int {
	total := 0
	for _, qq := range q.Questions {
		total += qq.TimeLimitSeconds
	}
	return total
}

// LegacyQuestion is the outbound shape consumed by older web clients.
type LegacyQuestion struct {
	Question           string   `json:"question"`
	CodeSnippet        string   `json:"codeSnippet,omitempty"`
	ExpectedOutput     string   `json:"expectedOutput,omitempty"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Legacy converts the quiz to the legacy question list. Scenario text is
// merged into the question.
func (q *Quiz) Legacy() []LegacyQuestion {
	out := make([]LegacyQuestion, len(q.Questions))
	for i, qq := range q.Questions {
		out[i] = LegacyQuestion{
			Question:           qq.Prompt(),
			CodeSnippet:        qq.CodeSnippet,
			ExpectedOutput:     qq.ExpectedOutput,
			Options:            append([]string(nil), qq.Options...),
			CorrectAnswerIndex: qq.CorrectAnswerIndex,
		}
	}
	return out
}

// MaxQuestionCount bounds free-form quizzes.
const MaxQuestionCount = 50

// Request asks for one quiz. The zero Mode selects the legacy preset.
type Request struct {
	Skill         string     `json:"skill"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"questionCount"`
	Mode          string     `json:"mode,omitempty"`
}

// Validate checks the request against its preset. Errors wrap
// ErrInvalidRequest.
func (r Request) Validate() error {
	_, err := r.resolve()
	return err
}

// Preset returns the preset selected by r.Mode.
func (r Request) Preset() (Preset, error) {
	p, err := LookupPreset(r.Mode)
	if err != nil {
		return Preset{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return p, nil
}

// resolve validates r and returns its preset.
func (r Request) resolve() (Preset, error) {
	if strings.TrimSpace(r.Skill) == "" {
		return Preset{}, fmt.Errorf("%w: skill is required", ErrInvalidRequest)
	}
	if !r.Difficulty.Valid() {
		return Preset{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, r.Difficulty)
	}
	p, err := r.Preset()
	if err != nil {
		return Preset{}, err
	}
	if r.QuestionCount < 1 || r.QuestionCount > MaxQuestionCount {
		return Preset{}, fmt.Errorf("%w: question count %d out of range [1,%d]", ErrInvalidRequest, r.QuestionCount, MaxQuestionCount)
	}
	if p.FixedCount > 0 && r.QuestionCount != p.FixedCount {
		return Preset{}, fmt.Errorf("%w: %s mode requires exactly %d questions, got %d", ErrInvalidRequest, p.Mode, p.FixedCount, r.QuestionCount)
	}
	return p, nil
}

// CacheKey identifies the request for caching: skill, difficulty, count
// and canonical mode.
func (r Request) CacheKey() string {
	mode := string(ModeLegacy)
	if p, err := LookupPreset(r.Mode); err == nil {
		mode = string(p.Mode)
	}
	return cache.Key(skilldomain.Normalize(r.Skill), string(r.Difficulty), strconv.Itoa(r.QuestionCount), mode)
}
