package quizgen

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CandidateFields are the fields common to both question variants, as the
// model supplied them. Nothing here has been validated.
type CandidateFields struct {
	QuestionType   string
	Question       string
	Options        []string
	StatedAnswer   string // correct_answer as text, e.g. "Option B"
	AnswerIndex    *int   // explicit correct_answer_index
	Explanation    string
	CodeSnippet    string
	ExpectedOutput string
	SubSkill       string
	TimeLimit      *int

	// Defect is set when the item could not be read as a question at all.
	Defect string
}

// Candidate is a parsed question resolved once into its variant.
type Candidate interface {
	Shape() Shape
	Fields() *CandidateFields
	// toQuestion converts the candidate using options, answer index and
	// time limit that have already been validated.
	toQuestion(options []string, answer, limit int) Question
}

// ScenarioCandidate is a question_type + scenario + question item.
type ScenarioCandidate struct {
	CandidateFields
	Scenario string
}

func (c *ScenarioCandidate) Shape() Shape { return ShapeScenario }
func (c *ScenarioCandidate) Fields() *CandidateFields { return &c.CandidateFields }

func (c *ScenarioCandidate) toQuestion(options []string, answer, limit int) Question {
	qt := QuestionType(strings.TrimSpace(c.QuestionType))
	if m, ok := MatchQuestionType(c.QuestionType); ok {
		qt = m
	}
	return Question{
		QuestionType:       qt,
		Scenario:           strings.TrimSpace(c.Scenario),
		Question:           strings.TrimSpace(c.Question),
		CodeSnippet:        strings.TrimSpace(c.CodeSnippet),
		ExpectedOutput:     strings.TrimSpace(c.ExpectedOutput),
		TimeLimitSeconds:   limit,
		Options:            options,
		CorrectAnswerIndex: answer,
		Explanation:        strings.TrimSpace(c.Explanation),
		SubSkill:           strings.TrimSpace(c.SubSkill),
	}
}

// LegacyCandidate is a question + options + correctAnswerIndex item.
type LegacyCandidate struct {
	CandidateFields
}

func (c *LegacyCandidate) Shape() Shape { return ShapeLegacy }
func (c *LegacyCandidate) Fields() *CandidateFields { return &c.CandidateFields }

func (c *LegacyCandidate) toQuestion(options []string, answer, limit int) Question {
	return Question{
		QuestionType:       QuestionType(strings.TrimSpace(c.QuestionType)),
		Question:           strings.TrimSpace(c.Question),
		CodeSnippet:        strings.TrimSpace(c.CodeSnippet),
		ExpectedOutput:     strings.TrimSpace(c.ExpectedOutput),
		TimeLimitSeconds:   limit,
		Options:            options,
		CorrectAnswerIndex: answer,
		Explanation:        strings.TrimSpace(c.Explanation),
		SubSkill:           strings.TrimSpace(c.SubSkill),
	}
}

// Document is a parsed model response.
type Document struct {
	Skill            string
	Difficulty       string
	VerificationMode string
	PassCriteria     *PassCriteria
	Questions        []Candidate

	// Raw is the snake_case document the candidates were read from.
	Raw map[string]any
}

// ParseDocument reads a snake_case JSON object into candidates. It fails
// only when no question list can be found.
func ParseDocument(doc map[string]any) (*Document, error) {
	items, ok := findQuestions(doc)
	if !ok {
		return nil, &ValidationError{Validator: "document", Message: "missing questions array"}
	}

	d := &Document{
		Skill:            str(doc["skill"]),
		Difficulty:       firstStr(doc, "difficulty", "level"),
		VerificationMode: str(doc["verification_mode"]),
		Raw:              doc,
	}
	if pc, ok := doc["pass_criteria"].(map[string]any); ok {
		d.PassCriteria = parsePassCriteria(pc)
	}

	d.Questions = make([]Candidate, len(items))
	for i, item := range items {
		d.Questions[i] = parseCandidate(item)
	}
	return d, nil
}

// findQuestions returns the question list: "questions", a nested
// "quiz.questions", or the only array of objects in the document.
func findQuestions(doc map[string]any) ([]any, bool) {
	if qs, ok := doc["questions"].([]any); ok {
		return qs, true
	}
	if quiz, ok := doc["quiz"].(map[string]any); ok {
		if qs, ok := quiz["questions"].([]any); ok {
			return qs, true
		}
	}
	var found []any
	n := 0
	for _, v := range doc {
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		if _, isObj := arr[0].(map[string]any); isObj {
			found = arr
			n++
		}
	}
	return found, n == 1
}

func parseCandidate(item any) Candidate {
	m, ok := item.(map[string]any)
	if !ok {
		return &LegacyCandidate{CandidateFields{Defect: fmt.Sprintf("item is %s, not an object", jsonKind(item))}}
	}

	f := CandidateFields{
		QuestionType:   firstStr(m, "question_type", "type", "category"),
		Question:       firstStr(m, "question", "question_text", "prompt"),
		Explanation:    str(m["explanation"]),
		CodeSnippet:    firstStr(m, "code_snippet", "code"),
		ExpectedOutput: str(m["expected_output"]),
		SubSkill:       str(m["sub_skill"]),
		TimeLimit:      firstInt(m, "time_limit_seconds", "time_limit", "timer"),
	}
	f.Options = parseOptions(m["options"])
	f.AnswerIndex = firstInt(m, "correct_answer_index", "answer_index", "correct_index")

	for _, k := range []string{"correct_answer", "answer", "correct_option"} {
		switch v := m[k].(type) {
		case string:
			f.StatedAnswer = v
		case json.Number:
			if f.AnswerIndex == nil {
				f.AnswerIndex = numberToInt(v)
			}
		default:
			continue
		}
		break
	}

	if scenario, ok := m["scenario"]; ok {
		return &ScenarioCandidate{CandidateFields: f, Scenario: str(scenario)}
	}
	return &LegacyCandidate{f}
}

var optionLetters = []string{"a", "b", "c", "d"}

// parseOptions accepts an array of option strings or an {A,B,C,D} object.
// A nil result means no usable options field. Only the lenient tier can
// use the object form: ScenarioQuizSchema requires an array, so strict
// documents with object options fail before parsing matters.
func parseOptions(v any) []string {
	var opts []string
	switch t := v.(type) {
	case []any:
		opts = make([]string, len(t))
		for i, o := range t {
			opts[i] = scalarText(o)
		}
	case map[string]any:
		lower := make(map[string]any, len(t))
		for k, val := range t {
			lower[strings.ToLower(strings.TrimSpace(k))] = val
		}
		for _, l := range optionLetters {
			val, ok := lower[l]
			if !ok {
				val, ok = lower["option_"+l]
			}
			if !ok {
				break
			}
			opts = append(opts, scalarText(val))
		}
	default:
		return nil
	}
	return stripOptionPrefixes(opts)
}

var optionPrefixRe = regexp.MustCompile(`(?i)^\(?(?:option\s+)?([a-d])\s*[).:\-]\s*`)

// stripOptionPrefixes removes "A) ", "B. ", "Option C: " style labels, but
// only when every option carries its own letter in order.
func stripOptionPrefixes(opts []string) []string {
	if len(opts) != len(optionLetters) {
		return opts
	}
	stripped := make([]string, len(opts))
	for i, o := range opts {
		o = strings.TrimSpace(o)
		m := optionPrefixRe.FindStringSubmatchIndex(o)
		if m == nil || !strings.EqualFold(o[m[2]:m[3]], optionLetters[i]) {
			return opts
		}
		stripped[i] = o[m[1]:]
	}
	return stripped
}

func parsePassCriteria(m map[string]any) *PassCriteria {
	pc := &PassCriteria{}
	if n, ok := firstNumber(m, "minimum_score_percent", "min_score_percent"); ok {
		pc.MinScorePercent = n
	}
	if v := firstInt(m, "minimum_correct_answers", "min_correct_answers"); v != nil {
		pc.MinCorrectAnswers = *v
	}
	if v := firstInt(m, "timeouts_allowed", "allowed_timeouts"); v != nil {
		pc.TimeoutsAllowed = *v
	}
	return pc
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// scalarText renders an option value. Non-scalar values become "" so the
// option counts as empty.
func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// firstInt reads an integral number or numeric string.
func firstInt(m map[string]any, keys ...string) *int {
	for _, k := range keys {
		switch t := m[k].(type) {
		case json.Number:
			if n := numberToInt(t); n != nil {
				return n
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return &n
			}
		}
	}
	return nil
}

func firstNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if n, ok := m[k].(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func numberToInt(n json.Number) *int {
	if i, err := n.Int64(); err == nil {
		v := int(i)
		return &v
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return nil
	}
	v := int(f)
	return &v
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case []any:
		return "an array"
	}
	return fmt.Sprintf("%T", v)
}
