package bank

import (
	"context"
	"math/rand/v2"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/quizgen"
)

func TestDefault_SQLBeginner(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)
	for _, qt := range quizgen.MandatoryTypes {
		it, ok := b.Lookup("  sql ", quizgen.Beginner, qt)
		require.True(t, ok, "missing authored %s item", qt)
		assert.Len(t, it.Options, 4)
		assert.GreaterOrEqual(t, len(it.Scenario), quizgen.MinScenarioLength, "%s scenario too short", qt)
		assert.GreaterOrEqual(t, len(it.Question), quizgen.MinQuestionLength, "%s question too short", qt)
	}
	_, ok := b.Lookup("sql", quizgen.Expert, quizgen.TypeSecurity)
	assert.False(t, ok)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name, body string
	}{
		{"bad yaml", "items: [\n"},
		{"bad difficulty", "skill: x\ndifficulty: wizard\n"},
		{"unknown type", "skill: x\ndifficulty: beginner\nitems:\n  - type: Juggling\n    options: [a, b, c, d]\n"},
		{"three options", "skill: x\ndifficulty: beginner\nitems:\n  - type: Concept Application\n    options: [a, b, c]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(fstest.MapFS{"set.yaml": {Data: []byte(tt.body)}})
			assert.Error(t, err)
		})
	}
}

func TestGeneric(t *testing.T) {
	positions := map[int]bool{}
	for i, qt := range quizgen.MandatoryTypes {
		it := Generic("Pottery", qt, 0)
		assert.Contains(t, it.Scenario, "Pottery")
		assert.Equal(t, templates[qt].options[0], it.Options[it.Answer], "type %d", i)
		positions[it.Answer] = true
	}
	assert.Len(t, positions, 4, "correct option should not always sit in the same slot")

	again := Generic("Pottery", quizgen.TypeSecurity, 1)
	assert.Contains(t, again.Question, "(case 2)")
}

func newProvider(t *testing.T) *Provider {
	t.Helper()
	b, err := Default()
	require.NoError(t, err)
	return NewProvider(b, rand.New(rand.NewPCG(7, 9)))
}

func newEngine(p llm.Provider) *quizgen.Engine {
	return quizgen.New(p, quizgen.DefaultConfig(),
		quizgen.WithSleep(func(context.Context, time.Duration) error { return nil }))
}

func TestProvider_StrictQuizPassesValidation(t *testing.T) {
	e := newEngine(newProvider(t))
	q, err := e.Generate(context.Background(), quizgen.Request{
		Skill: "SQL", Difficulty: quizgen.Beginner, QuestionCount: 10, Mode: "strict",
	})
	require.NoError(t, err)
	require.Len(t, q.Questions, 10)
	assert.Equal(t, ModelName, q.Model)
	require.NotNil(t, q.PassCriteria)
	assert.Empty(t, q.Warnings)

	first := q.Questions[0]
	assert.Equal(t, quizgen.TypeConceptApplication, first.QuestionType)
	assert.Contains(t, first.CorrectOption(), "SUM(amount)")
	for _, qq := range q.Questions {
		assert.True(t, quizgen.InBand(quizgen.Beginner, qq.TimeLimitSeconds))
	}
}

func TestProvider_GenericSkills(t *testing.T) {
	e := newEngine(newProvider(t))
	for _, diff := range []quizgen.Difficulty{quizgen.Intermediate, quizgen.Expert} {
		q, err := e.Generate(context.Background(), quizgen.Request{
			Skill: "Sourdough Baking", Difficulty: diff, QuestionCount: 10, Mode: "scenario",
		})
		require.NoError(t, err, diff)
		assert.Len(t, q.Questions, 10)
		assert.Equal(t, "baking", string(q.Domain))
	}
}

func TestProvider_LegacyLongQuiz(t *testing.T) {
	e := newEngine(newProvider(t))
	q, err := e.Generate(context.Background(), quizgen.Request{
		Skill: "Accounting", Difficulty: quizgen.Advanced, QuestionCount: 25,
	})
	require.NoError(t, err)
	require.Len(t, q.Questions, 25)
	assert.Empty(t, q.Warnings)
	seen := map[string]bool{}
	for _, qq := range q.Questions {
		assert.False(t, seen[qq.Question], "duplicate question %q", qq.Question)
		seen[qq.Question] = true
	}
}

func TestProvider_BadTags(t *testing.T) {
	p := newProvider(t)
	tests := []map[string]string{
		{"difficulty": "beginner", "count": "10"},
		{"skill": "SQL", "difficulty": "wizard", "count": "10"},
		{"skill": "SQL", "difficulty": "beginner", "count": "zero"},
	}
	for _, tags := range tests {
		_, err := p.Generate(context.Background(), llm.Request{Tags: tags})
		var invalid *llm.ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid, "tags %v", tags)
	}
}

func TestProvider_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newProvider(t).Generate(ctx, llm.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOfflineRegistered(t *testing.T) {
	assert.Contains(t, llm.Registered(), "offline")
}
