package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// TimerBar shows the time left on the current question.
type TimerBar struct {
	Remaining int // seconds
	Total     int // seconds
	Width     int
}

// Fraction is the share of time remaining, in [0,1].
func (t TimerBar) Fraction() float64 {
	if t.Total <= 0 {
		return 0
	}
	f := float64(t.Remaining) / float64(t.Total)
	return min(max(f, 0), 1)
}

func (t TimerBar) fill() lipgloss.Style {
	switch f := t.Fraction(); {
	case f <= 0.15:
		return theme.TimerCritical
	case f <= 0.35:
		return theme.TimerLow
	default:
		return theme.TimerFilled
	}
}

// View renders the bar followed by the seconds left.
func (t TimerBar) View() string {
	label := fmt.Sprintf("  %3ds", max(t.Remaining, 0))
	barWidth := max(t.Width-lipgloss.Width(label), 4)

	filled := int(float64(barWidth) * t.Fraction())
	return t.fill().Render(strings.Repeat(" ", filled)) +
		theme.TimerEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Subtitle.Render(label)
}

// Steps renders quiz progress as "Question n of total".
func Steps(n, total int) string {
	return theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", n, total))
}
