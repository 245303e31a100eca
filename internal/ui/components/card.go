package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// ContentWidth is the inner width used for cards in a frame of the given
// width.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 90)
}

// Card wraps content in a rounded border at content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(1, 2).
		Render(content)
}
