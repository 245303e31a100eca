package runner

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/quizgen"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	status := fmt.Sprintf("%s · %s", m.quiz.Skill, m.quiz.Difficulty)
	header := layout.RenderHeader(m.title(), status, m.width)
	footer := layout.RenderFooter(layout.HintsFromBindings(m.hints()...), m.width)

	cw := components.ContentWidth(m.width)
	body := components.Card(m.body(cw-4), cw)
	body = lipgloss.NewStyle().Width(m.width).Height(layout.ContentHeight(m.height)).Align(lipgloss.Center).Render(body)

	v.SetContent(layout.RenderFrame(header, body, footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	if m.phase == phaseDone {
		return "Results"
	}
	qq := m.quiz.Questions[m.current]
	if qq.QuestionType != "" {
		return string(qq.QuestionType)
	}
	return fmt.Sprintf("Question %d", m.current+1)
}

func (m Model) hints() []key.Binding {
	switch m.phase {
	case phaseQuestion:
		k := m.choice.Keys
		return []key.Binding{k.Up, k.Down, k.Pick[0], k.Submit, m.keys.Quit}
	case phaseFeedback:
		return []key.Binding{m.keys.Next, m.keys.Quit}
	default:
		return []key.Binding{m.keys.Next}
	}
}

func (m Model) body(width int) string {
	if m.phase == phaseDone {
		return m.summary()
	}
	qq := m.quiz.Questions[m.current]
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(components.Steps(m.current+1, len(m.quiz.Questions)))
	b.WriteString("\n\n")
	if qq.Scenario != "" {
		b.WriteString(wrap.Inherit(theme.Scenario).Render(qq.Scenario))
		b.WriteString("\n\n")
	}
	b.WriteString(wrap.Inherit(theme.Body).Bold(true).Render(qq.Question))
	b.WriteString("\n\n")
	if qq.CodeSnippet != "" {
		b.WriteString(theme.Code.Render(qq.CodeSnippet))
		b.WriteString("\n\n")
	}
	b.WriteString(m.choice.View())
	b.WriteString("\n")

	if m.phase == phaseQuestion {
		b.WriteString(components.TimerBar{Remaining: m.remaining, Total: qq.TimeLimitSeconds, Width: width}.View())
		return b.String()
	}

	switch {
	case m.choice.TimedOut:
		b.WriteString(theme.Incorrect.Render("Time's up."))
	case m.choice.IsCorrect():
		b.WriteString(theme.Correct.Render("Correct."))
	default:
		b.WriteString(theme.Incorrect.Render("Not quite. The answer is " + qq.CorrectOption() + "."))
	}
	if qq.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Inherit(theme.Hint).Render(qq.Explanation))
	}
	return b.String()
}

func (m Model) summary() string {
	if m.err != nil {
		return theme.Incorrect.Render(m.err.Error())
	}
	r := m.result
	verdict := theme.Incorrect.Render("Not passed")
	if r.Passed {
		verdict = theme.Correct.Render("Passed")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", theme.Title.Render(fmt.Sprintf("%d%%", r.ScorePercent)))
	fmt.Fprintf(&b, "%s  %d of %d correct", verdict, r.Correct, r.Total)
	if r.Timeouts > 0 {
		fmt.Fprintf(&b, ", %d timed out", r.Timeouts)
	}
	fmt.Fprintf(&b, "\n%s\n", theme.Subtitle.Render(passRule(m.quiz, r)))
	return b.String()
}

func passRule(q *quizgen.Quiz, r *quizgen.GradeResult) string {
	if pc := q.PassCriteria; pc != nil {
		return fmt.Sprintf("Needs %.0f%%, %d correct and at most %d timeout(s)", pc.MinScorePercent, pc.MinCorrectAnswers, pc.TimeoutsAllowed)
	}
	return fmt.Sprintf("Needs %.0f%% at %s level", r.Threshold, q.Difficulty)
}
