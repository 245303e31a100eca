// Package theme holds the colours and styles shared by the terminal UI.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette. Muted slate background with a single strong accent.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Scenario = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	Code = lipgloss.NewStyle().
		Foreground(Secondary).
		Background(BgCard).
		Padding(0, 1)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Answer states.
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Timer bar fills. The bar turns amber, then rose, as time runs out.
var (
	TimerFilled = lipgloss.NewStyle().
			Background(Secondary)

	TimerLow = lipgloss.NewStyle().
			Background(Warning)

	TimerCritical = lipgloss.NewStyle().
			Background(Error)

	TimerEmpty = lipgloss.NewStyle().
			Background(Border)
)
