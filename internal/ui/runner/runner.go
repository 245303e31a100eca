// Package runner is the interactive quiz taker: one question at a time,
// a per-question countdown, feedback after each answer and a graded
// summary at the end.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/quizgen"
	"github.com/abhisek/skillcheck/internal/ui/components"
)

type phase int

const (
	phaseQuestion phase = iota
	phaseFeedback
	phaseDone
)

// tickMsg carries the index of the question it was scheduled for so ticks
// left over from an earlier question are dropped.
type tickMsg struct{ question int }

type keyMap struct {
	Next key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "continue")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// Model is the bubbletea model for one quiz attempt.
type Model struct {
	quiz      *quizgen.Quiz
	current   int
	choice    components.MultiChoice
	remaining int
	answers   []quizgen.Answer
	phase     phase
	result    *quizgen.GradeResult
	err       error
	aborted   bool
	keys      keyMap
	tick      time.Duration

	width, height int
}

// New returns a model for q. q must have at least one question.
func New(q *quizgen.Quiz) Model {
	m := Model{
		quiz:    q,
		answers: make([]quizgen.Answer, 0, len(q.Questions)),
		keys:    defaultKeys(),
		tick:    time.Second,
	}
	m.startQuestion(0)
	return m
}

func (m *Model) startQuestion(i int) {
	qq := m.quiz.Questions[i]
	m.current = i
	m.phase = phaseQuestion
	m.remaining = qq.TimeLimitSeconds
	m.choice = components.NewMultiChoice(qq.Options, qq.CorrectAnswerIndex)
}

func (m Model) tickCmd() tea.Cmd {
	q := m.current
	return tea.Tick(m.tick, func(time.Time) tea.Msg { return tickMsg{question: q} })
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		if m.phase != phaseQuestion || msg.question != m.current {
			return m, nil
		}
		m.remaining--
		if m.remaining <= 0 {
			m.choice.Expire()
			return m.record()
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if m.phase != phaseDone {
				m.aborted = true
			}
			return m, tea.Quit
		}
		switch m.phase {
		case phaseQuestion:
			m.choice, _ = m.choice.Update(msg)
			if m.choice.Submitted {
				return m.record()
			}
		case phaseFeedback:
			if key.Matches(msg, m.keys.Next) {
				return m.advance()
			}
		case phaseDone:
			if key.Matches(msg, m.keys.Next) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// record stores the answer for the current question and shows feedback.
func (m Model) record() (tea.Model, tea.Cmd) {
	m.answers = append(m.answers, quizgen.Answer{Index: m.choice.ChosenIndex, TimedOut: m.choice.TimedOut})
	m.phase = phaseFeedback
	return m, nil
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if next := m.current + 1; next < len(m.quiz.Questions) {
		m.startQuestion(next)
		return m, m.tickCmd()
	}
	m.result, m.err = quizgen.Grade(m.quiz, m.answers)
	m.phase = phaseDone
	return m, nil
}

// Result is the graded attempt, or nil if the quiz was not finished.
func (m Model) Result() *quizgen.GradeResult { return m.result }

// ErrAborted is returned by Run when the user quits before the end.
var ErrAborted = errors.New("quiz aborted")

// Run takes q interactively and returns the graded result.
func Run(ctx context.Context, q *quizgen.Quiz) (*quizgen.GradeResult, error) {
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("quiz %s has no questions", q.ID)
	}
	final, err := tea.NewProgram(New(q), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(Model)
	if m.err != nil {
		return nil, m.err
	}
	if m.aborted || m.result == nil {
		return nil, ErrAborted
	}
	return m.result, nil
}
