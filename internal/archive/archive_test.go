package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/quizgen"
	"github.com/abhisek/skillcheck/internal/store"
)

func openArchive(t *testing.T) *Archive {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s.QuizRepo())
}

func sampleQuiz(id, skill string) *quizgen.Quiz {
	return &quizgen.Quiz{
		ID:          id,
		Skill:       skill,
		Domain:      "technical",
		Difficulty:  quizgen.Intermediate,
		Mode:        quizgen.ModeScenario,
		Model:       "mock",
		GeneratedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Questions: []quizgen.Question{{
			QuestionType:       quizgen.TypeSecurity,
			Scenario:           "A search page concatenates user input into SQL.",
			Question:           "What is the risk?",
			Options:            []string{"XSS", "SQL injection", "Deadlock", "None"},
			CorrectAnswerIndex: 1,
			TimeLimitSeconds:   75,
		}},
	}
}

func TestQuizRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := openArchive(t)

	q := sampleQuiz("quiz-1", "SQL")
	require.NoError(t, a.QuizGenerated(ctx, q))

	got, err := a.Quiz(ctx, "quiz-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, q.Questions, got.Questions)
	assert.Equal(t, quizgen.ModeScenario, got.Mode)

	missing, err := a.Quiz(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuizzesFilter(t *testing.T) {
	ctx := context.Background()
	a := openArchive(t)
	require.NoError(t, a.QuizGenerated(ctx, sampleQuiz("a", "SQL")))
	require.NoError(t, a.QuizGenerated(ctx, sampleQuiz("b", "Go")))

	recs, err := a.Quizzes(ctx, "sql", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, 1, recs[0].QuestionCount)
}

func TestAttempts(t *testing.T) {
	ctx := context.Background()
	a := openArchive(t)
	q := sampleQuiz("quiz-1", "SQL")
	require.NoError(t, a.QuizGenerated(ctx, q))

	res, err := quizgen.Grade(q, []quizgen.Answer{{Index: 1}})
	require.NoError(t, err)
	require.NoError(t, a.SaveAttempt(ctx, res))

	atts, err := a.Attempts(ctx, "quiz-1", 5)
	require.NoError(t, err)
	require.Len(t, atts, 1)
	assert.Equal(t, 100, atts[0].ScorePercent)
	assert.True(t, atts[0].Passed)
	assert.JSONEq(t, `[{"correct":true,"chosen":1,"expected":1}]`, string(atts[0].Payload))
}
