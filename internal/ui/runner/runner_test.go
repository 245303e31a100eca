package runner

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuiz() *quizgen.Quiz {
	opts := []string{"alpha", "bravo", "charlie", "delta"}
	return &quizgen.Quiz{
		ID:         "q1",
		Skill:      "SQL",
		Difficulty: quizgen.Beginner,
		Questions: []quizgen.Question{
			{Question: "First?", Options: opts, CorrectAnswerIndex: 1, TimeLimitSeconds: 2, Explanation: "Because bravo."},
			{Question: "Second?", Options: opts, CorrectAnswerIndex: 2, TimeLimitSeconds: 2},
		},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestRunner_AnswerThenTimeout(t *testing.T) {
	m := New(testQuiz())

	m, _ = update(t, m, keyPress('b'))
	if m.phase != phaseFeedback {
		t.Fatalf("phase = %v, want feedback", m.phase)
	}
	if !m.choice.IsCorrect() {
		t.Error("answer b should be correct")
	}

	m, cmd := update(t, m, specialKey(tea.KeyEnter))
	if m.current != 1 || m.phase != phaseQuestion {
		t.Fatalf("current=%d phase=%v, want second question", m.current, m.phase)
	}
	if cmd == nil {
		t.Fatal("expected a tick command for the new question")
	}

	// A tick scheduled for the first question is stale.
	m, _ = update(t, m, tickMsg{question: 0})
	if m.remaining != 2 {
		t.Fatalf("stale tick changed remaining to %d", m.remaining)
	}

	m, cmd = update(t, m, tickMsg{question: 1})
	if m.remaining != 1 || cmd == nil {
		t.Fatalf("remaining=%d cmd=%v, want 1 and a follow-up tick", m.remaining, cmd)
	}
	m, _ = update(t, m, tickMsg{question: 1})
	if !m.choice.TimedOut || m.phase != phaseFeedback {
		t.Fatal("question should time out into feedback")
	}

	m, _ = update(t, m, specialKey(tea.KeyEnter))
	if m.phase != phaseDone {
		t.Fatalf("phase = %v, want done", m.phase)
	}
	r := m.Result()
	if r == nil {
		t.Fatal("no result")
	}
	if r.Correct != 1 || r.Timeouts != 1 || r.ScorePercent != 50 || r.Passed {
		t.Errorf("result = %+v", r)
	}
	if got := r.Outcomes[1].Chosen; got != -1 {
		t.Errorf("timed out chosen = %d, want -1", got)
	}

	_, cmd = update(t, m, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Error("enter on the summary should quit")
	}
}

func TestRunner_NavigationAndQuit(t *testing.T) {
	m := New(testQuiz())
	m, _ = update(t, m, specialKey(tea.KeyDown))
	m, _ = update(t, m, specialKey(tea.KeyDown))
	m, _ = update(t, m, specialKey(tea.KeyEnter))
	if m.choice.ChosenIndex != 2 || m.choice.IsCorrect() {
		t.Fatalf("chosen = %d, want 2 (wrong)", m.choice.ChosenIndex)
	}

	m, cmd := update(t, m, specialKey(tea.KeyEscape))
	if !m.aborted || cmd == nil {
		t.Error("esc should abort and quit")
	}
	if m.Result() != nil {
		t.Error("aborted quiz has no result")
	}
}

func TestRunner_Body(t *testing.T) {
	m := New(testQuiz())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	_ = m.View()

	if out := m.body(80); !strings.Contains(out, "First?") || !strings.Contains(out, "Question 1 of 2") {
		t.Errorf("question body missing content:\n%s", out)
	}

	m, _ = update(t, m, keyPress('a'))
	if out := m.body(80); !strings.Contains(out, "The answer is bravo") {
		t.Errorf("feedback body missing answer:\n%s", out)
	}

	m, _ = update(t, m, specialKey(tea.KeyEnter))
	m, _ = update(t, m, keyPress('c'))
	m, _ = update(t, m, specialKey(tea.KeyEnter))
	if out := m.body(80); !strings.Contains(out, "50%") || !strings.Contains(out, "Needs 60% at beginner level") {
		t.Errorf("summary body:\n%s", out)
	}
}
