package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

// runCLI executes the root command in an isolated environment with the
// offline provider.
func runCLI(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SKILLCHECK_LLM_PROVIDER", "offline")
	t.Setenv("SKILLCHECK_CACHE_BACKEND", "memory")
	t.Setenv("SKILLCHECK_AMQP_URL", "")
	t.Setenv("SKILLCHECK_OTEL_EXPORTER", "none")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--db", db))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateStrictOffline(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	out, err := runCLI(t, db, "generate", "SQL", "-d", "beginner", "-m", "strict", "-n", "10", "-f", "json")
	require.NoError(t, err)

	var q quizgen.Quiz
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Len(t, q.Questions, 10)
	assert.Equal(t, quizgen.ModeStrict, q.Mode)
	require.NotNil(t, q.PassCriteria)

	listed, err := runCLI(t, db, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, listed, q.ID)

	shown, err := runCLI(t, db, "history", "show", q.ID)
	require.NoError(t, err)
	assert.Contains(t, shown, "Attempts: 0")
}

func TestGenerateRejectsBadRequest(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	_, err := runCLI(t, db, "generate", "SQL", "-d", "wizard", "-m", "", "-n", "10", "-f", "json")
	assert.Error(t, err)

	_, err = runCLI(t, db, "generate", "SQL", "-d", "beginner", "-m", "strict", "-n", "5", "-f", "json")
	assert.ErrorIs(t, err, quizgen.ErrInvalidRequest)
}

func TestClassifyJSON(t *testing.T) {
	out, err := runCLI(t, filepath.Join(t.TempDir(), "cli.db"), "classify", "Kubernetes", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"domain": "technical"`)
}

func TestWriteQuizText(t *testing.T) {
	q := &quizgen.Quiz{
		ID: "q1", Skill: "SQL", Difficulty: quizgen.Beginner, Domain: "technical",
		Questions: []quizgen.Question{{
			QuestionType: quizgen.TypeSecurity, Question: "Which risk?", TimeLimitSeconds: 50,
			Options: []string{"XSS", "SQL injection", "None", "Deadlock"}, CorrectAnswerIndex: 1,
		}},
		Warnings: []string{"question 1: re-derived"},
	}
	var buf bytes.Buffer
	require.NoError(t, writeQuiz(&buf, q, "text"))
	out := buf.String()
	assert.Contains(t, out, "[Security / Risk Awareness]")
	assert.Contains(t, out, "* B) SQL injection")
	assert.Contains(t, out, "warning: question 1: re-derived")

	buf.Reset()
	require.NoError(t, writeQuiz(&buf, q, "legacy"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "["))

	assert.Error(t, writeQuiz(&buf, q, "xml"))
}
