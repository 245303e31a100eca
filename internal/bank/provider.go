package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/quizgen"
)

// ModelName is reported as the serving model.
const ModelName = "offline-bank"

func init() {
	llm.Register("offline", func(context.Context, llm.Config) (llm.Provider, error) {
		b, err := Default()
		if err != nil {
			return nil, err
		}
		return NewProvider(b, nil), nil
	})
}

// Provider implements llm.Provider from a Bank. It reads the request tags
// the quiz engine sets and ignores the prompt text.
type Provider struct {
	bank   *Bank
	timers *quizgen.TimerDeriver
}

// NewProvider returns a provider over b. A nil rng is seeded from the
// clock.
func NewProvider(b *Bank, rng *rand.Rand) *Provider {
	return &Provider{bank: b, timers: quizgen.NewTimerDeriver(rng)}
}

func (p *Provider) ModelID() string { return ModelName }

// Generate renders a quiz document for the tagged request.
func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skill := strings.TrimSpace(req.Tag("skill"))
	if skill == "" {
		return nil, &llm.ErrInvalidResponse{Err: fmt.Errorf("offline provider: request has no skill tag")}
	}
	diff, err := quizgen.ParseDifficulty(req.Tag("difficulty"))
	if err != nil {
		return nil, &llm.ErrInvalidResponse{Err: fmt.Errorf("offline provider: %w", err)}
	}
	count, err := strconv.Atoi(req.Tag("count"))
	if err != nil || count <= 0 {
		return nil, &llm.ErrInvalidResponse{Err: fmt.Errorf("offline provider: bad count tag %q", req.Tag("count"))}
	}

	items := p.pick(skill, diff, count)

	var doc map[string]any
	if quizgen.Shape(req.Tag("shape")) == quizgen.ShapeScenario {
		doc = p.scenarioDoc(skill, diff, quizgen.Mode(req.Tag("mode")), items)
	} else {
		doc = legacyDoc(items)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("offline provider: encode: %w", err)
	}
	return &llm.Response{Text: string(raw), Model: ModelName, StopReason: "end"}, nil
}

// pick walks the mandatory types in order, preferring authored items on
// the first pass.
func (p *Provider) pick(skill string, diff quizgen.Difficulty, count int) []Item {
	items := make([]Item, count)
	n := len(quizgen.MandatoryTypes)
	for i := range items {
		qt := quizgen.MandatoryTypes[i%n]
		round := i / n
		if round == 0 {
			if it, ok := p.bank.Lookup(skill, diff, qt); ok {
				items[i] = it
				continue
			}
		}
		items[i] = Generic(skill, qt, round)
	}
	return items
}

func (p *Provider) scenarioDoc(skill string, diff quizgen.Difficulty, mode quizgen.Mode, items []Item) map[string]any {
	qs := make([]any, len(items))
	for i, it := range items {
		qt, _ := quizgen.MatchQuestionType(it.Type)
		qs[i] = map[string]any{
			"question_type":      string(qt),
			"scenario":           it.Scenario,
			"question":           it.Question,
			"time_limit_seconds": p.timers.Derive(diff, qt),
			"options":            it.Options,
			"correct_answer":     fmt.Sprintf("Option %c", 'A'+it.Answer),
			"explanation":        it.Explanation,
		}
	}

	doc := map[string]any{
		"skill":      skill,
		"difficulty": string(diff),
		"questions":  qs,
	}
	if mode == quizgen.ModeStrict {
		pc := quizgen.VerificationPassCriteria
		doc["verification_mode"] = "strict"
		doc["pass_criteria"] = map[string]any{
			"minimum_score_percent":   pc.MinScorePercent,
			"minimum_correct_answers": pc.MinCorrectAnswers,
			"timeouts_allowed":        pc.TimeoutsAllowed,
		}
	}
	return doc
}

func legacyDoc(items []Item) map[string]any {
	qs := make([]any, len(items))
	for i, it := range items {
		qs[i] = map[string]any{
			"question":           it.Scenario + " " + it.Question,
			"options":            it.Options,
			"correctAnswerIndex": it.Answer,
		}
	}
	return map[string]any{"questions": qs}
}

var _ llm.Provider = (*Provider)(nil)
